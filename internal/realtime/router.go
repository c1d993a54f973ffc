package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const relayPublishTimeout = 2 * time.Second

// RelayPublisher propagates change events to sibling instances. Implemented
// by the Redis relay; nil when running single-instance.
type RelayPublisher interface {
	Publish(ctx context.Context, event ChangeEvent, exclude *uuid.UUID) error
}

// Router converts committed mutations into change events and hands them to
// the registry's fan-out. It is fire-and-forget: delivery failure never
// reaches the mutation caller.
type Router struct {
	registry *Registry
	relay    RelayPublisher
}

// NewRouter creates a router. relay may be nil.
func NewRouter(registry *Registry, relay RelayPublisher) *Router {
	return &Router{registry: registry, relay: relay}
}

// Broadcast builds a ChangeEvent and fans it out to the user's connections,
// excluding the originating connection when given so that the mutating device
// does not receive an echo of its own change. snapshot may be nil (deletes).
func (r *Router) Broadcast(ctx context.Context, userID uuid.UUID, eventType EventType, table string, recordID *uuid.UUID, snapshot any, origin *uuid.UUID) {
	var data json.RawMessage
	if snapshot != nil {
		encoded, err := json.Marshal(snapshot)
		if err != nil {
			slog.Error("Failed to marshal event snapshot", "table", table, "user_id", userID, "error", err)
		} else {
			data = encoded
		}
	}

	event := ChangeEvent{
		Type:     eventType,
		Table:    table,
		UserID:   userID,
		RecordID: recordID,
		Data:     data,
	}

	r.registry.Fanout(userID, event, origin)

	if r.relay != nil {
		// Publish off the request path; a slow or down relay must not
		// delay the mutation response.
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), relayPublishTimeout)
			defer cancel()
			if err := r.relay.Publish(ctx, event, origin); err != nil {
				slog.Warn("Failed to relay change event", "table", table, "user_id", userID, "error", err)
			}
		}()
	}
}
