/*
Package hub is the push update channel: one persistent websocket
connection to the backend's balloonHub endpoint, carrying categorized
balloon and toilet-request snapshots plus free-text announcements.

# Protocol

The endpoint speaks a JSON hub framing: a {"protocol":"json","version":1}
handshake, then 0x1e-delimited JSON frames. Frame type 1 is an invocation
(target name plus arguments), type 6 a ping answered in kind, type 7 a
server close. Server targets handled:

	ReceiveBalloonUpdates, BalloonStatusChanged  balloon snapshot
	ReceiveToiletRequestUpdates                  toilet-request snapshot
	ReceiveAnnouncement                          broadcast text

The one client-to-server invocation is SendAnnouncement.

# Reconnection

Connection attempts follow the fixed delay schedule 0, 2s, 5s, 10s, 30s.
After five consecutive failures the hub tears itself down silently and
surfaces nothing further until Connect is called again. Disconnect (and
the exhausted-reconnect teardown) clears all handler registrations;
subscribers re-register after a fresh Connect.

# Snapshots

Every delivered snapshot is authoritative and whole. Subscribers replace
their state with it; the hub never merges or diffs, and offers no
ordering guarantee relative to in-flight REST calls.
*/
package hub
