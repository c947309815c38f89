package simulated

import (
	"time"

	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

// Template is the content of a generated notification.
type Template struct {
	Title    string
	Message  string
	Type     notifications.Type
	ImageURL string
}

// DefaultTemplates are the notifications the generator picks from.
var DefaultTemplates = []Template{
	{
		Title:    "New Message",
		Message:  "You have a new message from a potential match!",
		Type:     notifications.TypeInfo,
		ImageURL: "https://via.placeholder.com/50x50/2196F3/FFFFFF?text=MSG",
	},
	{
		Title:    "Profile View",
		Message:  "Someone viewed your profile!",
		Type:     notifications.TypeInfo,
		ImageURL: "https://via.placeholder.com/50x50/4CAF50/FFFFFF?text=VIEW",
	},
	{
		Title:    "Match Alert",
		Message:  "Congratulations! You have a new match!",
		Type:     notifications.TypeSuccess,
		ImageURL: "https://via.placeholder.com/50x50/FF5722/FFFFFF?text=MATCH",
	},
}

// Seed returns the sample notifications a new feed starts with, with
// timestamps relative to now.
func Seed(now time.Time) []notifications.Notification {
	return []notifications.Notification{
		{
			ID:        "1",
			Title:     "Welcome to SunDate!",
			Message:   "Thank you for joining our community. We're excited to have you on board!",
			Type:      notifications.TypeSuccess,
			Timestamp: now.Add(-30 * time.Minute),
			ImageURL:  "https://via.placeholder.com/50x50/4CAF50/FFFFFF?text=SD",
		},
		{
			ID:        "2",
			Title:     "New Match Available",
			Message:   "Someone in your area is interested in connecting with you!",
			Type:      notifications.TypeInfo,
			Timestamp: now.Add(-2 * time.Hour),
			ImageURL:  "https://via.placeholder.com/50x50/2196F3/FFFFFF?text=MATCH",
		},
		{
			ID:        "3",
			Title:     "Profile Update Reminder",
			Message:   "Keep your profile fresh! Consider adding new photos or updating your bio.",
			Type:      notifications.TypeWarning,
			Timestamp: now.Add(-24 * time.Hour),
			IsRead:    true,
			ImageURL:  "https://via.placeholder.com/50x50/FF9800/FFFFFF?text=BIO",
		},
		{
			ID:        "4",
			Title:     "Weekly Summary",
			Message:   "You had 5 new profile views and 2 new matches this week!",
			Type:      notifications.TypeInfo,
			Timestamp: now.Add(-7 * 24 * time.Hour),
			IsRead:    true,
			ImageURL:  "https://via.placeholder.com/50x50/9C27B0/FFFFFF?text=WEEK",
		},
	}
}
