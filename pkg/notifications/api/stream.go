package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

// stream sends a "ready" event with the current counters, then one "change"
// event per store mutation and one "status" event per connectivity change.
// The stream ends with the request context or when the client falls too
// far behind.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(w, r, http.StatusInternalServerError, "streaming_unsupported",
			fmt.Errorf("response writer does not support flushing"))
		return
	}

	ctx := r.Context()
	changes := h.store.Subscribe(ctx)
	defer changes.Close()
	statuses := h.ingestor.SubscribeStatus(ctx)
	defer statuses.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ready := map[string]any{
		"unread":  h.store.UnreadCount(),
		"total":   h.store.Len(),
		"version": h.store.Version(),
		"status":  h.ingestor.Status(),
	}
	if err := writeEvent(w, "ready", ready); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	changeCh := changes.Receive(ctx)
	statusCh := statuses.Receive(ctx)

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-changeCh:
			if !ok {
				h.logger.DebugContext(ctx, "change stream ended", logger.Component("api"))
				return
			}
			err = writeEvent(w, "change", msg.Data)
		case msg, ok := <-statusCh:
			if !ok {
				statusCh = nil
				continue
			}
			err = writeEvent(w, "status", statusEvent(msg.Data))
		case <-heartbeat.C:
			_, err = fmt.Fprint(w, ": ping\n\n")
		}
		if err != nil {
			h.logger.DebugContext(ctx, "write event", logger.Component("api"), logger.Error(err))
			return
		}
		flusher.Flush()
	}
}

type statusPayload struct {
	Status    notifications.Status `json:"status"`
	Connected bool                 `json:"connected"`
	Error     string               `json:"error,omitempty"`
	At        time.Time            `json:"at"`
}

func statusEvent(sig notifications.StatusSignal) statusPayload {
	p := statusPayload{
		Status:    sig.Status,
		Connected: sig.Status == notifications.StatusConnected,
		At:        sig.At,
	}
	if sig.Err != nil {
		p.Error = sig.Err.Error()
	}
	return p
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
