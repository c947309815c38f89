package requestid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifeed/pkg/logger"
)

// LoggerExtractor adds a "request_id" attribute to records logged with a
// request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}
