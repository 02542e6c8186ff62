/*
Package board holds the per-workflow view state: one board per page
(balloons, toilet requests, admin configuration), each owning the
authoritative in-memory snapshot of its collections.

# Update sources

Each board reconciles two sources. Load issues the page's list fetches
in parallel and replaces everything on success; a single failed fetch
puts the board in a page-level error state with empty collections, and
retry means calling Load again. Pushed snapshots from the hub replace
the corresponding collections unconditionally. No merging: whichever
source completes last wins, the accepted consistency model of the
system.

# Mutations

Mutation intents stamp the current operator's display name as the
acting user. On failure the board falls back to a full reload rather
than attempting any targeted correction; there is no optimistic local
update to roll back.

# Pure helpers

Action gating (role × status), filters, color/statistics aggregation,
and the card formatters are pure functions so they can be exercised
without a backend.
*/
package board
