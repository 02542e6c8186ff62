package board

import (
	"reflect"
	"testing"

	"github.com/aabdoo23/nucpa-balloons/models"
)

func TestBalloonActions(t *testing.T) {
	tests := []struct {
		role   models.Role
		status models.BalloonStatus
		want   []Action
	}{
		{models.RoleBalloonPrep, models.BalloonPending, []Action{ActionMarkReady}},
		{models.RoleBalloonPrep, models.BalloonReadyForPickup, nil},
		{models.RoleBalloonPrep, models.BalloonPickedUp, nil},
		{models.RoleBalloonPrep, models.BalloonDelivered, nil},

		{models.RoleCourier, models.BalloonPending, nil},
		{models.RoleCourier, models.BalloonReadyForPickup, []Action{ActionPickUp, ActionRevertToPending}},
		{models.RoleCourier, models.BalloonPickedUp, []Action{ActionDeliver, ActionRevertToReady}},
		{models.RoleCourier, models.BalloonDelivered, []Action{ActionRevertToPickedUp}},

		{models.RoleAdmin, models.BalloonPending, nil},
		{models.RoleAdmin, models.BalloonDelivered, nil},
		{models.RoleAccompanier, models.BalloonReadyForPickup, nil},
	}
	for _, tt := range tests {
		got := BalloonActions(tt.role, tt.status)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("BalloonActions(%s, %s) = %v, want %v", tt.role, tt.status, got, tt.want)
		}
	}
}

func TestToiletActions(t *testing.T) {
	tests := []struct {
		role   models.Role
		status models.ToiletStatus
		want   []Action
	}{
		{models.RoleAccompanier, models.ToiletPending, []Action{ActionStart}},
		{models.RoleAccompanier, models.ToiletInProgress, []Action{ActionComplete}},
		{models.RoleAccompanier, models.ToiletCompleted, nil},

		{models.RoleAdmin, models.ToiletPending, []Action{ActionStart, ActionDelete}},
		{models.RoleAdmin, models.ToiletInProgress, []Action{ActionComplete, ActionDelete}},
		{models.RoleAdmin, models.ToiletCompleted, []Action{ActionDelete}},

		{models.RoleCourier, models.ToiletPending, nil},
		{models.RoleBalloonPrep, models.ToiletInProgress, nil},
	}
	for _, tt := range tests {
		got := ToiletActions(tt.role, tt.status)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ToiletActions(%s, %s) = %v, want %v", tt.role, tt.status, got, tt.want)
		}
	}
}
