package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EventType classifies a committed mutation.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent describes one committed mutation. It is immutable once
// constructed and safe to share across concurrent deliveries; each recipient
// serializes its own copy.
type ChangeEvent struct {
	Type     EventType       `json:"event_type"`
	Table    string          `json:"table"`
	UserID   uuid.UUID       `json:"user_id"`
	RecordID *uuid.UUID      `json:"record_id"`
	Data     json.RawMessage `json:"data"`
}
