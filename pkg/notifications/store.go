package notifications

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifeed/pkg/broadcast"
	"github.com/dmitrymomot/notifeed/pkg/logger"
)

// ChangeKind identifies the mutation a Change describes.
type ChangeKind string

const (
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeRead     ChangeKind = "read"
	ChangeAllRead  ChangeKind = "all_read"
	ChangeCleared  ChangeKind = "cleared"
)

// Change is published to store subscribers after every effective mutation.
// Notification is set for inserted, updated and read changes.
type Change struct {
	Kind         ChangeKind    `json:"kind"`
	Notification *Notification `json:"notification,omitempty"`
	Affected     int           `json:"affected"`
	Unread       int           `json:"unread"`
	Version      uint64        `json:"version"`
}

// Store is the authoritative in-memory set of notifications.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*Notification
	order   []string // insertion order of ids
	unread  int
	version uint64

	changes      *broadcast.MemoryBroadcaster[Change]
	changeBuffer int
	logger       *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for the Store.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChangeBuffer sets how many changes a subscriber may lag behind before
// it is dropped. Default is 64.
func WithChangeBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.changeBuffer = size
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		items:        make(map[string]*Notification),
		changeBuffer: 64,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.changes = broadcast.NewMemoryBroadcaster[Change](s.changeBuffer)
	return s
}

// Upsert inserts n, or replaces the record with the same ID. A replaced
// record keeps its original timestamp and never goes back to unread.
// It reports whether n was inserted.
func (s *Store) Upsert(n Notification) bool {
	n = n.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.items[n.ID]; ok {
		n.Timestamp = cur.Timestamp
		if cur.IsRead {
			n.IsRead = true
		}
		if n.IsRead && !cur.IsRead {
			s.unread--
		}
		*cur = n
		s.publishLocked(ChangeUpdated, cur, 1)
		return false
	}

	s.items[n.ID] = &n
	s.order = append(s.order, n.ID)
	if !n.IsRead {
		s.unread++
	}
	s.publishLocked(ChangeInserted, &n, 1)
	return true
}

// MarkRead marks the notification with id as read. Unknown ids and records
// that are already read are left alone. It reports whether anything changed.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[id]
	if !ok || n.IsRead {
		return false
	}
	n.IsRead = true
	s.unread--
	s.publishLocked(ChangeRead, n, 1)
	return true
}

// MarkAllRead marks every notification as read and returns how many changed.
func (s *Store) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unread == 0 {
		return 0
	}

	changed := 0
	for _, n := range s.items {
		if !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	s.unread = 0
	s.publishLocked(ChangeAllRead, nil, changed)
	s.logger.Debug("all notifications marked read", logger.Component("store"), logger.Count("changed", changed))
	return changed
}

// ClearAll removes every notification and returns how many were removed.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.items)
	if removed == 0 {
		return 0
	}

	s.items = make(map[string]*Notification)
	s.order = nil
	s.unread = 0
	s.publishLocked(ChangeCleared, nil, removed)
	s.logger.Debug("notifications cleared", logger.Component("store"), logger.Count("removed", removed))
	return removed
}

// Snapshot returns copies of all notifications in insertion order. The
// result is owned by the caller and never changes afterwards.
func (s *Store) Snapshot() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Get returns a copy of the notification with id.
func (s *Store) Get(id string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.items[id]
	if !ok {
		return Notification{}, false
	}
	return n.Clone(), true
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version increases by one with every effective mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe streams changes made after the call until ctx is cancelled or
// the subscriber is closed.
func (s *Store) Subscribe(ctx context.Context) broadcast.Subscriber[Change] {
	return s.changes.Subscribe(ctx)
}

// Close ends all change subscriptions. The store stays usable.
func (s *Store) Close() error {
	return s.changes.Close()
}

// Must be called with the write lock held, after the mutation was applied.
func (s *Store) publishLocked(kind ChangeKind, n *Notification, affected int) {
	s.version++

	change := Change{
		Kind:     kind,
		Affected: affected,
		Unread:   s.unread,
		Version:  s.version,
	}
	if n != nil {
		c := n.Clone()
		change.Notification = &c
	}

	if err := s.changes.Broadcast(context.Background(), broadcast.Message[Change]{Data: change}); err != nil {
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "change not published",
			logger.Component("store"),
			logger.Event(string(kind)),
			logger.Error(err),
		)
	}
}
