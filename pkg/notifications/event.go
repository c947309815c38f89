package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrymomot/notifeed/pkg/sanitizer"
	"github.com/dmitrymomot/notifeed/pkg/validator"
)

// Event is the wire representation of an inbound notification. Type is kept
// as a plain string so unknown values survive decoding and are rejected by
// validation instead.
type Event struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp,omitzero"`
	IsRead    bool           `json:"isRead,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	ActionURL string         `json:"actionUrl,omitempty"`
}

// EventFrom converts a notification back into its wire form.
func EventFrom(n Notification) Event {
	return Event{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Timestamp: n.Timestamp,
		IsRead:    n.IsRead,
		Data:      n.Data,
		ImageURL:  n.ImageURL,
		ActionURL: n.ActionURL,
	}
}

// DecodeEvent parses a JSON payload. Malformed JSON is reported as a
// *ValidationError.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, &ValidationError{Err: fmt.Errorf("decode payload: %w", err)}
	}
	return ev, nil
}

// EncodeEvent renders ev as the JSON payload channels carry.
func EncodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Normalize trims the id and type and drops control characters from the
// display strings. Whitespace and line breaks in title and message are kept
// as sent. URLs pass through untouched.
func (e Event) Normalize() Event {
	e.ID = sanitizer.Trim(e.ID)
	e.Type = sanitizer.Trim(e.Type)
	e.Title = sanitizer.RemoveControlChars(e.Title)
	e.Message = sanitizer.RemoveControlChars(e.Message)
	return e
}

// Validate checks the required fields and the closed type enumeration.
// Everything else, URLs included, is accepted as is.
func (e Event) Validate() error {
	return validator.Apply(
		validator.Required("id", e.ID),
		validator.Required("title", e.Title),
		validator.Required("message", e.Message),
		validator.InList("type", Type(e.Type), Types),
	)
}

// Notification normalizes and validates the event and converts it into a
// Notification. A zero timestamp is replaced by receivedAt.
func (e Event) Notification(receivedAt time.Time) (Notification, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return Notification{}, &ValidationError{EventID: e.ID, Err: err}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = receivedAt
	}

	n := Notification{
		ID:        e.ID,
		Title:     e.Title,
		Message:   e.Message,
		Type:      Type(e.Type),
		Timestamp: ts,
		IsRead:    e.IsRead,
		Data:      e.Data,
		ImageURL:  e.ImageURL,
		ActionURL: e.ActionURL,
	}
	return n.Clone(), nil
}
