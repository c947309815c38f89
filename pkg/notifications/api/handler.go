package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

const maxBodySize = 64 << 10

// Handler serves the feed of one store.
type Handler struct {
	store     *notifications.Store
	ingestor  *notifications.Ingestor
	views     *notifications.ViewCache
	logger    *slog.Logger
	now       func() time.Time
	location  *time.Location
	heartbeat time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLocation sets the time zone used for grouping by day. Default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.location = loc
		}
	}
}

// WithViewCacheSize sets how many distinct list queries are memoized per
// store version. Default is 32.
func WithViewCacheSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.views = notifications.NewViewCache(h.store, size)
		}
	}
}

// WithHeartbeat sets the interval of keep-alive comments on the event
// stream. Default is 15s.
func WithHeartbeat(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// New creates a handler. store and ingestor must not be nil.
func New(store *notifications.Store, ingestor *notifications.Ingestor, opts ...Option) *Handler {
	h := &Handler{
		store:     store,
		ingestor:  ingestor,
		logger:    slog.Default(),
		now:       time.Now,
		location:  time.UTC,
		heartbeat: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.views == nil {
		h.views = notifications.NewViewCache(store, 32)
	}
	return h
}

// Router returns a new router serving the feed.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register adds the feed routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/status", h.status)
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Delete("/", h.clearAll)
		r.Get("/unread-count", h.unreadCount)
		r.Get("/stream", h.stream)
		r.Post("/read-all", h.markAllRead)
		r.Post("/test", h.submitTest)
		r.Get("/{id}", h.get)
		r.Post("/{id}/read", h.markRead)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q, groupByDay, err := parseQuery(r)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	view := h.views.Run(q)
	now := h.now()
	meta := map[string]any{
		"count":   len(view),
		"total":   h.store.Len(),
		"unread":  h.store.UnreadCount(),
		"version": h.store.Version(),
	}

	if groupByDay {
		h.respond(w, r, http.StatusOK, Response{
			Data: newDayViews(notifications.GroupByDay(view, h.location), now),
			Meta: meta,
		})
		return
	}
	h.respond(w, r, http.StatusOK, Response{Data: newViews(view, now), Meta: meta})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, ok := h.store.Get(id)
	if !ok {
		h.respondError(w, r, http.StatusNotFound, codeNotFound, fmt.Errorf("notification %q not found", id))
		return
	}
	h.respond(w, r, http.StatusOK, Response{Data: newView(n, h.now())})
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, Response{Data: map[string]int{"unread": h.store.UnreadCount()}})
}

// Marking a missing or already read notification is not an error.
func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	h.store.MarkRead(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, Response{Data: map[string]int{"updated": h.store.MarkAllRead()}})
}

func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, Response{Data: map[string]int{"removed": h.store.ClearAll()}})
}

func (h *Handler) submitTest(w http.ResponseWriter, r *http.Request) {
	ev := notifications.Event{
		Title:   "Test Notification",
		Message: "This is a test notification",
		Type:    string(notifications.TypeInfo),
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, codeBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		custom, err := notifications.DecodeEvent(body)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, codeBadRequest, err)
			return
		}
		ev = custom
	}

	n, err := h.ingestor.Submit(r.Context(), ev)
	if err != nil {
		h.respondError(w, r, http.StatusUnprocessableEntity, codeValidation, err)
		return
	}
	h.respond(w, r, http.StatusCreated, Response{Data: newView(n, h.now())})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	stats := h.ingestor.Stats()
	h.respond(w, r, http.StatusOK, Response{Data: map[string]any{
		"status":    h.ingestor.Status(),
		"connected": h.ingestor.Connected(),
		"accepted":  stats.Accepted,
		"rejected":  stats.Rejected,
		"total":     h.store.Len(),
		"unread":    h.store.UnreadCount(),
	}})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body Response) {
	if err := writeJSON(w, status, body); err != nil {
		h.logger.DebugContext(r.Context(), "write response", logger.Component("api"), logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	h.logger.DebugContext(r.Context(), "request rejected",
		logger.Component("api"),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		logger.Error(err),
	)
	if werr := writeError(w, status, code, err); werr != nil {
		h.logger.DebugContext(r.Context(), "write response", logger.Component("api"), logger.Error(werr))
	}
}

func parseQuery(r *http.Request) (notifications.Query, bool, error) {
	values := r.URL.Query()

	filter, err := notifications.ParseFilter(values.Get("type"))
	if err != nil {
		return notifications.Query{}, false, err
	}
	order, err := notifications.ParseOrder(values.Get("order"))
	if err != nil {
		return notifications.Query{}, false, err
	}

	q := notifications.Query{
		Filter: filter,
		Search: values.Get("q"),
		Order:  order,
	}

	if raw := values.Get("unread"); raw != "" {
		if q.OnlyUnread, err = strconv.ParseBool(raw); err != nil {
			return notifications.Query{}, false, fmt.Errorf("invalid unread %q", raw)
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if q.Limit, err = strconv.Atoi(raw); err != nil || q.Limit < 0 {
			return notifications.Query{}, false, fmt.Errorf("invalid limit %q", raw)
		}
	}

	var groupByDay bool
	switch g := values.Get("group"); g {
	case "":
	case "day":
		groupByDay = true
	default:
		return notifications.Query{}, false, errors.New("group must be \"day\"")
	}

	return q, groupByDay, nil
}
