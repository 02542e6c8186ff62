package hub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aabdoo23/nucpa-balloons/models"
	"github.com/aabdoo23/nucpa-balloons/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnectAndDisconnect(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())

	if h.IsConnected() {
		t.Fatal("connected before Connect")
	}
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()

	if !h.IsConnected() {
		t.Error("IsConnected = false after Connect")
	}
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub attach")

	// Connect again is a no-op.
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if backend.HubConnections() != 1 {
		t.Errorf("HubConnections = %d after double Connect, want 1", backend.HubConnections())
	}

	h.Disconnect()
	if h.IsConnected() {
		t.Error("IsConnected = true after Disconnect")
	}
	waitFor(t, func() bool { return backend.HubConnections() == 0 }, "hub detach")
}

func TestReceiveBalloonUpdates(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub attach")

	received := make(chan models.BalloonUpdates, 1)
	h.OnBalloonUpdates(func(updates models.BalloonUpdates) {
		received <- updates
	})

	backend.PushBalloonUpdates([]models.BalloonTask{
		testutil.Balloon(models.BalloonPending, "Red"),
		testutil.Balloon(models.BalloonReadyForPickup, "Blue"),
	})

	select {
	case updates := <-received:
		if len(updates.Pending) != 1 || len(updates.ReadyForPickup) != 1 {
			t.Errorf("partition = %d/%d, want 1/1",
				len(updates.Pending), len(updates.ReadyForPickup))
		}
		if updates.PickedUp == nil || updates.Delivered == nil {
			t.Error("empty sequences must still be non-nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no balloon snapshot received")
	}
}

func TestReceiveAnnouncement(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub attach")

	received := make(chan string, 1)
	h.OnAnnouncement(func(message string) {
		received <- message
	})

	backend.PushAnnouncement("contest extended by 15 minutes")

	select {
	case message := <-received:
		if message != "contest extended by 15 minutes" {
			t.Errorf("got %q", message)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no announcement received")
	}
}

func TestSendAnnouncement(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())

	if err := h.SendAnnouncement("too early"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected before Connect, got %v", err)
	}

	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub attach")

	if err := h.SendAnnouncement("lunch is served"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(backend.Announcements()) == 1 }, "announcement arrival")
	if got := backend.Announcements()[0]; got != "lunch is served" {
		t.Errorf("backend saw %q", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub attach")

	calls := make(chan struct{}, 4)
	unsubscribe := h.OnToiletUpdates(func(models.ToiletUpdates) {
		calls <- struct{}{}
	})

	backend.PushToiletUpdates([]models.ToiletRequest{testutil.Toilet(models.ToiletPending)})
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never fired")
	}

	unsubscribe()
	backend.PushToiletUpdates([]models.ToiletRequest{testutil.Toilet(models.ToiletPending)})
	select {
	case <-calls:
		t.Error("handler fired after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDisconnectClearsHandlers(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub attach")

	calls := make(chan struct{}, 4)
	h.OnBalloonUpdates(func(models.BalloonUpdates) {
		calls <- struct{}{}
	})

	h.Disconnect()
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubConnections() == 1 }, "hub reattach")

	backend.PushBalloonUpdates([]models.BalloonTask{testutil.Balloon(models.BalloonPending, "Red")})
	select {
	case <-calls:
		t.Error("stale handler fired after Disconnect")
	case <-time.After(200 * time.Millisecond):
	}
}
