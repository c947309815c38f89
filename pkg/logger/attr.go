package logger

import (
	"log/slog"
	"strconv"
	"time"
)

func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error returns an "error" attribute, or an empty attribute for a nil error
// so it can be passed unconditionally.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func NotificationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("notification_id", id)
}

func NotificationType(t string) slog.Attr {
	if t == "" {
		return slog.Attr{}
	}
	return slog.String("notification_type", t)
}

func ChannelStatus(status string) slog.Attr {
	return slog.String("channel_status", status)
}

func Count(name string, n int) slog.Attr {
	return slog.Int(name, n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
