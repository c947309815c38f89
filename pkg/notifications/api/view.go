package api

import (
	"time"

	"github.com/dmitrymomot/notifeed/pkg/notifications"
	"github.com/dmitrymomot/notifeed/pkg/sanitizer"
)

const previewLength = 100

var plainText = sanitizer.Compose(sanitizer.StripHTML, sanitizer.SingleLine)

// NotificationView is a notification with its presentation metadata.
type NotificationView struct {
	notifications.Notification
	Priority string `json:"priority"`
	TimeAgo  string `json:"timeAgo"`
	Preview  string `json:"preview"` // single-line message, at most 100 runes plus "..."
}

// DayView is a group of notifications sharing a calendar day.
type DayView struct {
	Day           string             `json:"day"` // YYYY-MM-DD
	Notifications []NotificationView `json:"notifications"`
}

func newView(n notifications.Notification, now time.Time) NotificationView {
	return NotificationView{
		Notification: n,
		Priority:     n.Type.Priority().String(),
		TimeAgo:      notifications.TimeAgo(n.Timestamp, now),
		Preview:      sanitizer.Truncate(plainText(n.Message), previewLength),
	}
}

func newViews(ns []notifications.Notification, now time.Time) []NotificationView {
	out := make([]NotificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, newView(n, now))
	}
	return out
}

func newDayViews(groups []notifications.DayGroup, now time.Time) []DayView {
	out := make([]DayView, 0, len(groups))
	for _, g := range groups {
		out = append(out, DayView{
			Day:           g.Day.Format(time.DateOnly),
			Notifications: newViews(g.Notifications, now),
		})
	}
	return out
}
