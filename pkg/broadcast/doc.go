// Package broadcast provides type-safe one-to-many message delivery.
//
// A Broadcaster fans every message out to all of its subscribers. Delivery
// never blocks the sender: each subscriber owns a buffered channel and a
// subscriber whose buffer is full is dropped and its channel closed, so a
// stuck consumer cannot stall the producer.
//
//	b := broadcast.NewMemoryBroadcaster[string](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive(ctx) {
//		fmt.Println(msg.Data)
//	}
//
// Subscriptions end when the subscriber is closed, when the context passed
// to Subscribe is cancelled, when the subscriber falls behind, or when the
// broadcaster is closed. In every case the receive channel is closed.
package broadcast
