package notifications_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifeed/pkg/notifications"
	"github.com/dmitrymomot/notifeed/pkg/validator"
)

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	t.Run("full payload", func(t *testing.T) {
		payload := []byte(`{
			"id": "42",
			"title": "New Message",
			"message": "You have a new message from Sarah",
			"type": "info",
			"timestamp": "2024-06-01T10:00:00Z",
			"isRead": false,
			"data": {"sender": "Sarah"},
			"actionUrl": "https://example.com/messages"
		}`)

		ev, err := notifications.DecodeEvent(payload)
		require.NoError(t, err)
		assert.Equal(t, "42", ev.ID)
		assert.Equal(t, "info", ev.Type)
		assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), ev.Timestamp.UTC())
		assert.Equal(t, "Sarah", ev.Data["sender"])
		assert.Equal(t, "https://example.com/messages", ev.ActionURL)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := notifications.DecodeEvent([]byte(`{"id":`))
		require.Error(t, err)
		assert.True(t, notifications.IsValidationError(err))
	})

	t.Run("unknown type survives decoding", func(t *testing.T) {
		ev, err := notifications.DecodeEvent([]byte(`{"id":"1","title":"t","message":"m","type":"bogus"}`))
		require.NoError(t, err)
		assert.Equal(t, "bogus", ev.Type)
	})
}

func TestEncodeEvent_RoundTrip(t *testing.T) {
	t.Parallel()

	ev := notifications.Event{
		ID:        "1",
		Title:     "Match Alert",
		Message:   "Someone liked you",
		Type:      "success",
		Timestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	payload, err := notifications.EncodeEvent(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "imageUrl")

	decoded, err := notifications.DecodeEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)
}

func TestEvent_Validate(t *testing.T) {
	t.Parallel()

	valid := notifications.Event{ID: "1", Title: "Title", Message: "Body", Type: "warning"}

	tests := []struct {
		name   string
		mutate func(*notifications.Event)
		fields []string
	}{
		{"valid", func(*notifications.Event) {}, nil},
		{"missing id", func(e *notifications.Event) { e.ID = "" }, []string{"id"}},
		{"blank title", func(e *notifications.Event) { e.Title = "   " }, []string{"title"}},
		{"missing message", func(e *notifications.Event) { e.Message = "" }, []string{"message"}},
		{"unknown type", func(e *notifications.Event) { e.Type = "bogus" }, []string{"type"}},
		{"empty type", func(e *notifications.Event) { e.Type = "" }, []string{"type"}},
		{"relative image url", func(e *notifications.Event) { e.ImageURL = "/img.png" }, nil},
		{"mailto action url", func(e *notifications.Event) { e.ActionURL = "mailto:support@sundate.app" }, nil},
		{"deep link action url", func(e *notifications.Event) { e.ActionURL = "/matches/42" }, nil},
		{"long title", func(e *notifications.Event) { e.Title = strings.Repeat("t", 201) }, nil},
		{"long message", func(e *notifications.Event) { e.Message = strings.Repeat("m", 5000) }, nil},
		{"several", func(e *notifications.Event) { e.ID = ""; e.Type = "x" }, []string{"id", "type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)

			err := ev.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, validator.ErrValidationFailed)
			assert.ElementsMatch(t, tt.fields, validator.ExtractValidationErrors(err).Fields())
		})
	}
}

func TestEvent_Normalize(t *testing.T) {
	t.Parallel()

	ev := notifications.Event{
		ID:        "  7 ",
		Title:     "Hello\tthere   friend\x00",
		Message:   "line one\r\n\r\n\r\nline two\x07",
		Type:      " info ",
		ActionURL: " tel:+15551234",
	}.Normalize()

	assert.Equal(t, "7", ev.ID)
	assert.Equal(t, "Hello\tthere   friend", ev.Title)
	assert.Equal(t, "line one\r\n\r\n\r\nline two", ev.Message)
	assert.Equal(t, "info", ev.Type)
	assert.Equal(t, " tel:+15551234", ev.ActionURL)
}

func TestEvent_Notification(t *testing.T) {
	t.Parallel()

	receivedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("zero timestamp uses receive time", func(t *testing.T) {
		n, err := notifications.Event{ID: "1", Title: "T", Message: "M", Type: "info"}.Notification(receivedAt)
		require.NoError(t, err)
		assert.Equal(t, receivedAt, n.Timestamp)
		assert.Equal(t, notifications.TypeInfo, n.Type)
		assert.False(t, n.IsRead)
	})

	t.Run("explicit timestamp kept", func(t *testing.T) {
		ts := receivedAt.Add(-time.Hour)
		n, err := notifications.Event{ID: "1", Title: "T", Message: "M", Type: "error", Timestamp: ts, IsRead: true}.Notification(receivedAt)
		require.NoError(t, err)
		assert.Equal(t, ts, n.Timestamp)
		assert.True(t, n.IsRead)
	})

	t.Run("data is copied", func(t *testing.T) {
		data := map[string]any{"k": "v"}
		n, err := notifications.Event{ID: "1", Title: "T", Message: "M", Type: "info", Data: data}.Notification(receivedAt)
		require.NoError(t, err)
		data["k"] = "changed"
		assert.Equal(t, "v", n.Data["k"])
	})

	t.Run("invalid event", func(t *testing.T) {
		_, err := notifications.Event{ID: "9", Title: "T", Message: "M", Type: "bogus"}.Notification(receivedAt)
		require.Error(t, err)

		var verr *notifications.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "9", verr.EventID)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
		assert.Contains(t, err.Error(), `"9"`)
	})
}
