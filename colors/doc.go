// Package colors maps free-text balloon color names and task statuses to
// the hex values used by badge rendering. Color names come from contest
// configuration and are matched case-insensitively with a substring
// fallback; anything unrecognized renders neutral grey.
package colors
