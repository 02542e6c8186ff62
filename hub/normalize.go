package hub

import (
	"encoding/json"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// Inbound snapshots arrive in one of three shapes:
//
//  1. a flat array of tasks needing partition by status,
//  2. a {"$values": [...]} envelope around a flat array,
//  3. an object already partitioned by status name.
//
// Normalization collapses all three into the canonical categorized shape
// with every status key present, so subscribers only ever see one form.
// In the flat shapes a task whose status cannot be recognized is dropped,
// matching the partition-by-filter behavior of the dashboard this client
// mirrors; partitioned input is passed through untouched.

// NormalizeBalloonUpdates converts any accepted raw shape into a
// BalloonUpdates with all four sequences non-nil.
func NormalizeBalloonUpdates(raw json.RawMessage) models.BalloonUpdates {
	var updates models.BalloonUpdates

	if flat, ok := flatTasks[models.BalloonTask](raw); ok {
		for _, task := range flat {
			switch task.Status {
			case models.BalloonPending:
				updates.Pending = append(updates.Pending, task)
			case models.BalloonReadyForPickup:
				updates.ReadyForPickup = append(updates.ReadyForPickup, task)
			case models.BalloonPickedUp:
				updates.PickedUp = append(updates.PickedUp, task)
			case models.BalloonDelivered:
				updates.Delivered = append(updates.Delivered, task)
			}
		}
	} else if len(raw) > 0 {
		// Field names match case-insensitively, so both camel and Pascal
		// partitioned keys land here.
		_ = json.Unmarshal(raw, &updates)
	}

	if updates.Pending == nil {
		updates.Pending = []models.BalloonTask{}
	}
	if updates.ReadyForPickup == nil {
		updates.ReadyForPickup = []models.BalloonTask{}
	}
	if updates.PickedUp == nil {
		updates.PickedUp = []models.BalloonTask{}
	}
	if updates.Delivered == nil {
		updates.Delivered = []models.BalloonTask{}
	}
	return updates
}

// NormalizeToiletUpdates is the toilet-request counterpart with three
// status sequences.
func NormalizeToiletUpdates(raw json.RawMessage) models.ToiletUpdates {
	var updates models.ToiletUpdates

	if flat, ok := flatTasks[models.ToiletRequest](raw); ok {
		for _, req := range flat {
			switch req.Status {
			case models.ToiletPending:
				updates.Pending = append(updates.Pending, req)
			case models.ToiletInProgress:
				updates.InProgress = append(updates.InProgress, req)
			case models.ToiletCompleted:
				updates.Completed = append(updates.Completed, req)
			}
		}
	} else if len(raw) > 0 {
		_ = json.Unmarshal(raw, &updates)
	}

	if updates.Pending == nil {
		updates.Pending = []models.ToiletRequest{}
	}
	if updates.InProgress == nil {
		updates.InProgress = []models.ToiletRequest{}
	}
	if updates.Completed == nil {
		updates.Completed = []models.ToiletRequest{}
	}
	return updates
}

// flatTasks extracts a flat task sequence from raw, unwrapping a $values
// envelope if present. ok is false when raw is neither a bare array nor
// an enveloped one, meaning the payload is (or must be treated as) the
// partitioned shape. Elements that fail to decode individually are
// skipped rather than poisoning the whole snapshot.
func flatTasks[T any](raw json.RawMessage) ([]T, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	candidate := raw
	var envelope struct {
		Values json.RawMessage `json:"$values"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Values != nil {
		candidate = envelope.Values
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(candidate, &elements); err != nil {
		return nil, false
	}

	tasks := make([]T, 0, len(elements))
	for _, element := range elements {
		var task T
		if err := json.Unmarshal(element, &task); err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, true
}
