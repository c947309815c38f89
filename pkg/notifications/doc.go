// Package notifications implements an in-memory notification feed fed by a
// push delivery channel.
//
// # Architecture
//
// The package is split into small pieces with one owner each:
//
//   - Store: the authoritative set of notifications and the unread counter
//   - Ingestor: bridges a DeliveryChannel into the Store and owns the
//     connectivity status
//   - Filtered / Run / GroupByDay: pure derivations of views from a snapshot
//   - ViewCache: memoized views keyed by the store version
//
// Transports live in sub-packages: simulated provides an in-process
// generator, redischannel listens on a Redis pub/sub channel. The api
// sub-package exposes the feed over HTTP.
//
// # Basic Usage
//
//	store := notifications.NewStore()
//	ingestor := notifications.NewIngestor(store)
//
//	ch := simulated.New(simulated.DefaultConfig())
//	if err := ingestor.Start(ctx, ch); err != nil {
//	    return err
//	}
//	defer ingestor.Stop(context.Background())
//
//	view := notifications.Filtered(store.Snapshot(), notifications.FilterAll, "match")
//	unread := store.UnreadCount()
//
// # Wire Format
//
// Channels deliver JSON objects with the keys id, title, message, type,
// timestamp (RFC 3339), isRead, data, imageUrl and actionUrl. Events that do
// not decode, miss a required field or carry an unknown type are rejected
// with a *ValidationError; they never reach the store.
//
// # Change Notifications
//
// Store.Subscribe and Ingestor.SubscribeStatus return broadcast subscribers
// that receive every mutation and connectivity transition:
//
//	sub := store.Subscribe(ctx)
//	for msg := range sub.Receive(ctx) {
//	    render(msg.Data.Unread)
//	}
package notifications
