package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

const changeChannelPrefix = "changes:"

func changeChannel(userID uuid.UUID) string {
	return changeChannelPrefix + userID.String()
}

// envelope is the wire form of a relayed change event. The exclusion ID
// travels with the event so that sibling instances apply the same self-echo
// rule; connection IDs are globally unique, so on instances that do not host
// the excluded connection the field is simply inert.
type envelope struct {
	Origin  uuid.UUID            `json:"origin"`
	Event   realtime.ChangeEvent `json:"event"`
	Exclude *uuid.UUID           `json:"exclude_connection_id,omitempty"`
}

// Relay propagates change events between instances via Redis Pub/Sub. It
// implements realtime.RelayPublisher on the outbound side and feeds received
// events into the local registry on the inbound side.
type Relay struct {
	rdb        *goredis.Client
	registry   *realtime.Registry
	instanceID uuid.UUID
}

// NewRelay creates a relay bound to the local connection registry.
func NewRelay(client *Client, registry *realtime.Registry) *Relay {
	return &Relay{
		rdb:        client.rdb,
		registry:   registry,
		instanceID: uuid.New(),
	}
}

// Publish sends a change event to the user's channel for sibling instances.
func (r *Relay) Publish(ctx context.Context, event realtime.ChangeEvent, exclude *uuid.UUID) error {
	data, err := json.Marshal(envelope{
		Origin:  r.instanceID,
		Event:   event,
		Exclude: exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	return r.rdb.Publish(ctx, changeChannel(event.UserID), data).Err()
}

// Run subscribes to all change channels and fans received events out to local
// connections. Events this instance published itself are skipped; the local
// fan-out already happened before the publish. Blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.rdb.PSubscribe(ctx, changeChannelPrefix+"*")
	defer func() { _ = sub.Close() }()

	// Fail fast if the subscription could not be established.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to change channels: %w", err)
	}

	msgCh := sub.Channel()
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return nil
			}
			r.handleMessage(msg)
		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Relay) handleMessage(msg *goredis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		slog.Warn("Failed to unmarshal relayed change event", "channel", msg.Channel, "error", err)
		return
	}
	if env.Origin == r.instanceID {
		return
	}
	if !strings.HasPrefix(msg.Channel, changeChannelPrefix) {
		return
	}

	r.registry.Fanout(env.Event.UserID, env.Event, env.Exclude)
}
