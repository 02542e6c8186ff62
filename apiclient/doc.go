/*
Package apiclient is the REST client for the contest backend. Every
resource collection (balloons by status, toilet requests by status,
rooms, teams, problem-balloon maps, admin settings) has a list call that
returns a plain ordered slice, and every mutation maps to a single
POST/PUT/DELETE-style call.

# Envelopes

The backend sometimes wraps arrays in a reference-tracking envelope
({"$id": ..., "$values": [...]}) and sometimes does not. The client
unwraps either shape, and any payload that is not an array after
unwrapping decodes as an empty sequence rather than an error. Nothing
above this package ever sees the envelope.

# Status encoding

Balloon and toilet-request statuses travel to the server as small
integers on every mutating call, even though the in-memory
representation is symbolic. The encoding lives in models; the client
applies it.

# Failures

Any non-2xx response surfaces as *APIError. The client never retries;
callers reload state to resynchronize after a failed mutation.

# Authentication

A TokenSource (normally the session store) supplies the bearer token,
attached to every outgoing request when present. Tokens are never
refreshed or validated client-side.
*/
package apiclient
