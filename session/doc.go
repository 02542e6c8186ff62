/*
Package session is the operator's local preference store: display name,
role, admin bearer token, and selected backend environment, persisted
across runs in a single-file SQLite database.

The store is explicit and injected rather than ambient. main opens it
once and passes it down; apiclient reads the token from it on every
request through the TokenSource interface.

Nothing here is validated beyond presence. A stored role gates which
actions the boards expose and a stored token gates admin affordances;
the backend remains the authority on both.
*/
package session
