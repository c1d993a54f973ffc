package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/benedikt-weyer/streamline-scheduler/internal/metrics"
)

// sendBufferSize is the per-connection outbound queue capacity. A full queue
// means the consumer is too slow; further events for that connection are
// dropped rather than blocking the fan-out caller.
const sendBufferSize = 32

// Connection is the registry's handle to one live session: a process-unique
// id plus the bounded outbound queue drained by that session's write loop.
type Connection struct {
	ID   uuid.UUID
	send chan ChangeEvent
}

// NewConnection mints a connection handle with a fresh process-unique id.
func NewConnection() *Connection {
	return &Connection{
		ID:   uuid.New(),
		send: make(chan ChangeEvent, sendBufferSize),
	}
}

// Events exposes the outbound queue to the owning session's write loop.
// The channel is never closed; sessions stop draining via their own done
// signal, so a late fan-out offer can never panic.
func (c *Connection) Events() <-chan ChangeEvent {
	return c.send
}

// Registry is the process-wide map from user id to that user's live
// connections. Reads (fan-out) dominate writes (register/deregister), so a
// single RWMutex guards the map; it is held for map access only, never while
// writing to a socket or channel.
type Registry struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*Connection
	wsMetrics   *metrics.WebSocketMetrics
}

// NewRegistry creates an empty registry. wsMetrics may be nil.
func NewRegistry(wsMetrics *metrics.WebSocketMetrics) *Registry {
	return &Registry{
		connections: make(map[uuid.UUID][]*Connection),
		wsMetrics:   wsMetrics,
	}
}

// Register adds conn to the user's bucket, creating the bucket if absent.
// A duplicate connection id cannot happen with minted ids, but if it does the
// last registration wins rather than corrupting the bucket.
func (r *Registry) Register(userID uuid.UUID, conn *Connection) {
	r.mu.Lock()
	bucket := r.connections[userID]
	replaced := false
	for i, existing := range bucket {
		if existing.ID == conn.ID {
			bucket[i] = conn
			replaced = true
			break
		}
	}
	if !replaced {
		r.connections[userID] = append(bucket, conn)
	}
	r.mu.Unlock()

	if !replaced && r.wsMetrics != nil {
		r.wsMetrics.ActiveConnections.Inc()
	}
	slog.Debug("Connection registered", "user_id", userID, "connection_id", conn.ID)
}

// Deregister removes the connection from the user's bucket and drops the
// bucket entirely when it empties. Calling it twice is a no-op.
func (r *Registry) Deregister(userID, connectionID uuid.UUID) {
	r.mu.Lock()
	bucket, ok := r.connections[userID]
	removed := false
	if ok {
		for i, conn := range bucket {
			if conn.ID == connectionID {
				bucket = append(bucket[:i], bucket[i+1:]...)
				removed = true
				break
			}
		}
		if removed {
			if len(bucket) == 0 {
				delete(r.connections, userID)
			} else {
				r.connections[userID] = bucket
			}
		}
	}
	r.mu.Unlock()

	if removed && r.wsMetrics != nil {
		r.wsMetrics.ActiveConnections.Dec()
	}
	if removed {
		slog.Debug("Connection deregistered", "user_id", userID, "connection_id", connectionID)
	}
}

// Fanout offers event to every registered connection of the user except the
// excluded one. A connection whose queue is full misses this event; siblings
// are unaffected and the caller never sees an error.
func (r *Registry) Fanout(userID uuid.UUID, event ChangeEvent, exclude *uuid.UUID) {
	r.mu.RLock()
	bucket := r.connections[userID]
	targets := make([]*Connection, 0, len(bucket))
	for _, conn := range bucket {
		if exclude != nil && conn.ID == *exclude {
			continue
		}
		targets = append(targets, conn)
	}
	r.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.send <- event:
			if r.wsMetrics != nil {
				r.wsMetrics.EventsDelivered.Inc()
			}
		default:
			if r.wsMetrics != nil {
				r.wsMetrics.EventsDropped.Inc()
			}
			slog.Warn("Dropping event for slow connection",
				"user_id", userID, "connection_id", conn.ID, "table", event.Table)
		}
	}
}

// ConnectionCount reports the number of live connections for a user.
func (r *Registry) ConnectionCount(userID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections[userID])
}

// UserCount reports the number of users with at least one live connection.
func (r *Registry) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
