package board

import "github.com/aabdoo23/nucpa-balloons/models"

// Action is one user intent a task card may expose. Which actions appear
// is a pure function of (role, status); absent actions are hidden, not
// disabled.
type Action string

const (
	ActionMarkReady        Action = "MarkReady"
	ActionPickUp           Action = "PickUp"
	ActionDeliver          Action = "Deliver"
	ActionRevertToPickedUp Action = "RevertToPickedUp"
	ActionRevertToReady    Action = "RevertToReady"
	ActionRevertToPending  Action = "RevertToPending"
	ActionStart            Action = "Start"
	ActionComplete         Action = "Complete"
	ActionDelete           Action = "Delete"
)

// BalloonActions returns the actions a role may take on a balloon task in
// the given status. Balloon prep marks pending balloons ready; couriers
// advance and revert everything downstream; admins and accompaniers have
// no balloon actions at all.
func BalloonActions(role models.Role, status models.BalloonStatus) []Action {
	switch role {
	case models.RoleBalloonPrep:
		if status == models.BalloonPending {
			return []Action{ActionMarkReady}
		}
	case models.RoleCourier:
		switch status {
		case models.BalloonReadyForPickup:
			return []Action{ActionPickUp, ActionRevertToPending}
		case models.BalloonPickedUp:
			return []Action{ActionDeliver, ActionRevertToReady}
		case models.BalloonDelivered:
			return []Action{ActionRevertToPickedUp}
		}
	}
	return nil
}

// ToiletActions returns the actions a role may take on a toilet request.
// Accompaniers and admins advance requests; deletion is admin-only and
// allowed in any status.
func ToiletActions(role models.Role, status models.ToiletStatus) []Action {
	var actions []Action
	if role == models.RoleAccompanier || role == models.RoleAdmin {
		switch status {
		case models.ToiletPending:
			actions = append(actions, ActionStart)
		case models.ToiletInProgress:
			actions = append(actions, ActionComplete)
		}
	}
	if role == models.RoleAdmin {
		actions = append(actions, ActionDelete)
	}
	return actions
}
