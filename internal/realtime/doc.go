// Package realtime implements the change-notification fan-out: a per-user
// connection registry, the websocket session lifecycle around it, and the
// router that turns committed mutations into events on those connections.
//
// Delivery is best-effort and at-most-once per connection: each connection
// has a bounded outbound queue, and events that would block are dropped for
// that connection only. Clients are expected to re-sync on reconnect.
package realtime
