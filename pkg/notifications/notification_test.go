package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, typ := range notifications.Types {
		got, err := notifications.ParseType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	for _, bad := range []string{"", "bogus", "INFO", " info"} {
		_, err := notifications.ParseType(bad)
		assert.ErrorIs(t, err, notifications.ErrUnknownType, "input %q", bad)
	}
}

func TestType_Priority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  notifications.Type
		want notifications.Priority
	}{
		{notifications.TypeError, notifications.PriorityHigh},
		{notifications.TypeWarning, notifications.PriorityMedium},
		{notifications.TypeInfo, notifications.PriorityNormal},
		{notifications.TypeSuccess, notifications.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Priority())
		})
	}

	assert.Equal(t, "high", notifications.PriorityHigh.String())
	assert.Equal(t, "priority(9)", notifications.Priority(9).String())
}

func TestNotification_Clone(t *testing.T) {
	t.Parallel()

	orig := notifications.Notification{
		ID:   "1",
		Data: map[string]any{"sender": "alice"},
	}

	clone := orig.Clone()
	clone.Data["sender"] = "bob"
	clone.IsRead = true

	assert.Equal(t, "alice", orig.Data["sender"])
	assert.False(t, orig.IsRead)

	empty := notifications.Notification{ID: "2"}.Clone()
	assert.Nil(t, empty.Data)
}

func TestTimeAgo(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "Just now"},
		{"future", -time.Minute, "Just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"days", 2 * 24 * time.Hour, "2d ago"},
		{"months", 65 * 24 * time.Hour, "2mo ago"},
		{"years", 400 * 24 * time.Hour, "1y ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notifications.TimeAgo(now.Add(-tt.ago), now))
		})
	}
}
