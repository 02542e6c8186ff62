/*
Package models defines the wire and domain types shared by every other
package: balloon tasks, toilet requests, contest configuration entities,
and the request payloads the backend accepts.

# Statuses

Both task kinds carry a string status internally while the backend
sometimes transmits numeric codes:

	Pending=0, ReadyForPickup=1, PickedUp=2, Delivered=3   (balloons)
	Pending=0, InProgress=1, Completed=2                   (toilet requests)

Status types unmarshal from either representation and expose Code for
mutation payloads, which always carry the number.

# Snapshots

BalloonUpdates and ToiletUpdates are the canonical categorized snapshot
shapes, one sequence per status. The hub package normalizes every inbound
payload into these before any subscriber sees it.
*/
package models
