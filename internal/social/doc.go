// Package social holds the pure state transitions behind the API: the
// per-account reaction toggle, comment thread reconstruction and the
// conversation list derived from a message history. Nothing here touches
// storage; repositories and handlers feed it snapshots.
package social
