/*
balloonboard is the operations client for the contest balloon-delivery
and toilet-request logistics workflow: couriers, balloon prep, and
accompaniers tracking physical-fulfillment tasks against a central
contest backend that owns all authoritative state.

# Running

The watch mode loads every board once over REST, subscribes to the
backend's push channel, and reports snapshot changes until interrupted:

	balloonboard -e development -n "Alice" -r courier

One-shot modes:

	balloonboard -announce "Judging resumes in 10 minutes"
	BALLOON_ADMIN_USER=... BALLOON_ADMIN_PASS=... balloonboard -login

# Architecture

The repository is the thin client/synchronization tier of the system:

  - apiclient: REST calls per resource collection, envelope unwrapping,
    bearer token attachment
  - hub: the push update channel with pub/sub, snapshot normalization,
    and fixed-schedule reconnection
  - board: per-workflow view state, role-gated actions, statistics
  - session: the persisted operator preference store
  - colors: balloon color and status badge resolution
  - models: shared wire/domain types
  - cliparse: configuration and environment selection

The backend enforces every business rule; this client renders, relays
intents, and treats each pushed snapshot as authoritative.

See package documentation for each component.
*/
package main
