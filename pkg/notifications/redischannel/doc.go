// Package redischannel implements notifications.DeliveryChannel on top of a
// Redis pub/sub channel.
//
// Every message published on Config.Channel is delivered as one envelope;
// the payload must be the JSON wire form of notifications.Event. Publish
// sends an event the same way, so several feed processes can share one
// stream.
//
//	client, err := redis.Connect(ctx, redisCfg)
//	if err != nil {
//	    return err
//	}
//	ch := redischannel.New(client, redischannel.Config{Channel: "notifications"})
//	if err := ingestor.Start(ctx, ch); err != nil {
//	    return err
//	}
package redischannel
