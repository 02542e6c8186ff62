package main

import (
	"testing"

	"github.com/aabdoo23/nucpa-balloons/session"
)

func TestEnsureAdmin(t *testing.T) {
	if err := ensureAdmin(session.Session{}); err == nil {
		t.Error("expected an error without a stored token")
	}
	if err := ensureAdmin(session.Session{Token: "tok"}); err != nil {
		t.Errorf("unexpected error with a stored token: %v", err)
	}
}
