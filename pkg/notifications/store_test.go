package notifications_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newNotification(id string, typ notifications.Type, age time.Duration) notifications.Notification {
	return notifications.Notification{
		ID:        id,
		Title:     "Title " + id,
		Message:   "Message " + id,
		Type:      typ,
		Timestamp: baseTime.Add(-age),
	}
}

func unreadIn(snapshot []notifications.Notification) int {
	n := 0
	for _, item := range snapshot {
		if !item.IsRead {
			n++
		}
	}
	return n
}

func TestStore_Upsert(t *testing.T) {
	t.Parallel()

	t.Run("insert then update keeps a single record", func(t *testing.T) {
		store := notifications.NewStore()

		assert.True(t, store.Upsert(newNotification("1", notifications.TypeInfo, 0)))

		updated := newNotification("1", notifications.TypeError, time.Hour)
		updated.Title = "Changed"
		assert.False(t, store.Upsert(updated))

		snap := store.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "Changed", snap[0].Title)
		assert.Equal(t, notifications.TypeError, snap[0].Type)
		assert.Equal(t, baseTime, snap[0].Timestamp, "timestamp is immutable")
		assert.Equal(t, 1, store.UnreadCount())
	})

	t.Run("read state never regresses", func(t *testing.T) {
		store := notifications.NewStore()
		store.Upsert(newNotification("1", notifications.TypeInfo, 0))
		require.True(t, store.MarkRead("1"))

		store.Upsert(newNotification("1", notifications.TypeInfo, 0))

		n, ok := store.Get("1")
		require.True(t, ok)
		assert.True(t, n.IsRead)
		assert.Equal(t, 0, store.UnreadCount())
	})

	t.Run("incoming read flag marks existing record read", func(t *testing.T) {
		store := notifications.NewStore()
		store.Upsert(newNotification("1", notifications.TypeInfo, 0))

		read := newNotification("1", notifications.TypeInfo, 0)
		read.IsRead = true
		store.Upsert(read)

		assert.Equal(t, 0, store.UnreadCount())
	})

	t.Run("inserting a read notification does not count as unread", func(t *testing.T) {
		store := notifications.NewStore()
		n := newNotification("1", notifications.TypeInfo, 0)
		n.IsRead = true
		store.Upsert(n)

		assert.Equal(t, 0, store.UnreadCount())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("caller keeps no reference into the store", func(t *testing.T) {
		store := notifications.NewStore()
		n := newNotification("1", notifications.TypeInfo, 0)
		n.Data = map[string]any{"k": "v"}
		store.Upsert(n)

		n.Data["k"] = "changed"

		got, _ := store.Get("1")
		assert.Equal(t, "v", got.Data["k"])
	})
}

func TestStore_MarkRead(t *testing.T) {
	t.Parallel()

	store := notifications.NewStore()
	store.Upsert(newNotification("1", notifications.TypeInfo, 0))
	store.Upsert(newNotification("2", notifications.TypeInfo, 0))
	version := store.Version()

	assert.True(t, store.MarkRead("1"))
	assert.Equal(t, 1, store.UnreadCount())

	assert.False(t, store.MarkRead("1"), "second call is a no-op")
	assert.Equal(t, 1, store.UnreadCount())

	assert.False(t, store.MarkRead("missing"))
	assert.Equal(t, version+1, store.Version(), "no-ops do not bump the version")
}

func TestStore_MarkAllRead(t *testing.T) {
	t.Parallel()

	store := notifications.NewStore()
	for i := range 5 {
		store.Upsert(newNotification(fmt.Sprint(i), notifications.TypeInfo, 0))
	}
	store.MarkRead("0")

	assert.Equal(t, 4, store.MarkAllRead())
	assert.Equal(t, 0, store.UnreadCount())
	assert.Equal(t, 0, unreadIn(store.Snapshot()))
	assert.Equal(t, 0, store.MarkAllRead())
}

func TestStore_ClearAll(t *testing.T) {
	t.Parallel()

	store := notifications.NewStore()
	store.Upsert(newNotification("1", notifications.TypeInfo, 0))
	store.Upsert(newNotification("2", notifications.TypeWarning, 0))

	assert.Equal(t, 2, store.ClearAll())
	assert.Empty(t, store.Snapshot())
	assert.Equal(t, 0, store.UnreadCount())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.ClearAll())

	assert.True(t, store.Upsert(newNotification("1", notifications.TypeInfo, 0)), "id is free again")
}

func TestStore_Snapshot(t *testing.T) {
	t.Parallel()

	store := notifications.NewStore()
	store.Upsert(newNotification("b", notifications.TypeInfo, 0))
	store.Upsert(newNotification("a", notifications.TypeInfo, 0))
	store.Upsert(newNotification("c", notifications.TypeInfo, 0))

	snap := store.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"b", "a", "c"}, ids(snap), "insertion order")

	snap[0].IsRead = true
	snap[0].Title = "mutated"
	store.MarkAllRead()

	fresh := store.Snapshot()
	assert.Equal(t, "Title b", fresh[0].Title)
	assert.False(t, snap[1].IsRead, "earlier snapshot is unaffected by later mutations")
}

func TestStore_ScenarioFromFeed(t *testing.T) {
	t.Parallel()

	store := notifications.NewStore()
	store.Upsert(newNotification("1", notifications.TypeSuccess, 0))
	store.Upsert(newNotification("2", notifications.TypeWarning, 0))
	assert.Equal(t, 2, store.UnreadCount())

	store.MarkRead("1")
	assert.Equal(t, 1, store.UnreadCount())

	view := notifications.Filtered(store.Snapshot(), notifications.Filter(notifications.TypeWarning), "")
	assert.Equal(t, []string{"2"}, ids(view))
}

func TestStore_ConcurrentMutations(t *testing.T) {
	t.Parallel()

	store := notifications.NewStore()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				id := fmt.Sprintf("%d", (w*200+i)%300)
				switch i % 4 {
				case 0, 1:
					store.Upsert(newNotification(id, notifications.TypeInfo, 0))
				case 2:
					store.MarkRead(id)
				case 3:
					_ = store.Snapshot()
					_ = store.UnreadCount()
				}
			}
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	assert.Equal(t, unreadIn(snap), store.UnreadCount())

	seen := make(map[string]bool, len(snap))
	for _, n := range snap {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestStore_Subscribe(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := notifications.NewStore()
	defer store.Close()

	sub := store.Subscribe(ctx)
	events := sub.Receive(ctx)

	store.Upsert(newNotification("1", notifications.TypeInfo, 0))
	store.Upsert(newNotification("1", notifications.TypeInfo, 0))
	store.MarkRead("1")
	store.MarkRead("1") // no-op, no change
	store.Upsert(newNotification("2", notifications.TypeInfo, 0))
	store.MarkAllRead()
	store.ClearAll()

	want := []struct {
		kind     notifications.ChangeKind
		unread   int
		affected int
	}{
		{notifications.ChangeInserted, 1, 1},
		{notifications.ChangeUpdated, 1, 1},
		{notifications.ChangeRead, 0, 1},
		{notifications.ChangeInserted, 1, 1},
		{notifications.ChangeAllRead, 0, 1},
		{notifications.ChangeCleared, 0, 2},
	}

	for i, w := range want {
		select {
		case msg, ok := <-events:
			require.True(t, ok)
			assert.Equal(t, w.kind, msg.Data.Kind, "change %d", i)
			assert.Equal(t, w.unread, msg.Data.Unread, "change %d", i)
			assert.Equal(t, w.affected, msg.Data.Affected, "change %d", i)
			assert.Equal(t, uint64(i+1), msg.Data.Version, "change %d", i)
		case <-time.After(time.Second):
			t.Fatalf("change %d not received", i)
		}
	}

	require.NoError(t, store.Close())
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel closed after store close")
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestStore_ChangeCarriesCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := notifications.NewStore(notifications.WithChangeBuffer(4))
	defer store.Close()

	sub := store.Subscribe(ctx)
	defer sub.Close()

	store.Upsert(newNotification("1", notifications.TypeInfo, 0))
	msg := <-sub.Receive(ctx)
	require.NotNil(t, msg.Data.Notification)

	msg.Data.Notification.Title = "mutated"
	got, _ := store.Get("1")
	assert.Equal(t, "Title 1", got.Title)
}

func ids(ns []notifications.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}
