package notifications

import (
	"fmt"
	"maps"
	"time"
)

// Type represents the notification type/severity.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Types lists every valid Type.
var Types = []Type{TypeInfo, TypeSuccess, TypeWarning, TypeError}

// Valid reports whether t belongs to the closed set of types.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

// ParseType converts s into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Priority ranks how prominently a notification should be surfaced.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Priority derives the display priority from the type.
func (t Type) Priority() Priority {
	switch t {
	case TypeError:
		return PriorityHigh
	case TypeWarning:
		return PriorityMedium
	case TypeSuccess:
		return PriorityLow
	}
	return PriorityNormal
}

// Notification is a single entry of the feed.
type Notification struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	IsRead    bool           `json:"isRead"`
	Data      map[string]any `json:"data,omitempty"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	ActionURL string         `json:"actionUrl,omitempty"`
}

// Clone returns a copy that shares no mutable state with n.
// Nested values inside Data are treated as opaque and copied by reference.
func (n Notification) Clone() Notification {
	if n.Data != nil {
		n.Data = maps.Clone(n.Data)
	}
	return n
}

// TimeAgo renders the distance between ts and now the way the feed shows it:
// "Just now", "5m ago", "3h ago", "2d ago", "4mo ago", "1y ago".
func TimeAgo(ts, now time.Time) string {
	secs := int64(now.Sub(ts) / time.Second)

	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh ago", secs/3600)
	case secs < 2592000:
		return fmt.Sprintf("%dd ago", secs/86400)
	case secs < 31536000:
		return fmt.Sprintf("%dmo ago", secs/2592000)
	}
	return fmt.Sprintf("%dy ago", secs/31536000)
}
