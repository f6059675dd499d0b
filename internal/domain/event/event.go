// Package event defines the change notifications raised by the cabinet.
package event

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Payload keys
const (
	KeyItem     = "item"
	KeyPrice    = "price"
	KeyEmployee = "employee"
	KeyStatus   = "status"
	KeyTab      = "tab"
	KeyFilename = "filename"
	KeyRows     = "rows"
)

// Event represents a domain event
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	RecordID  string         `json:"record_id,omitempty"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent creates an event about recordID. recordID is empty for events
// that do not concern a single record, such as exports.
func NewEvent(eventType Type, recordID string, payload map[string]any) *Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RecordID:  recordID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// WithPayload returns a copy of e with key set; e is not modified.
func (e *Event) WithPayload(key string, value any) *Event {
	payload := make(map[string]any, len(e.Payload)+1)
	maps.Copy(payload, e.Payload)
	payload[key] = value

	cp := *e
	cp.Payload = payload
	return &cp
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if str, ok := e.Payload[key].(string); ok {
		return str
	}
	return ""
}

// GetPayloadInt retrieves an integer value from the payload
func (e *Event) GetPayloadInt(key string) int {
	switch v := e.Payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
