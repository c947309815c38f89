// Package simulated provides an in-process notifications.DeliveryChannel that
// generates notifications on a timer, for development and demos.
//
// After Connect the channel emits one notification after Config.FirstDelay,
// then on every Config.Interval tick emits another with probability
// Config.Probability. Each notification is picked at random from a set of
// templates and gets a fresh id and timestamp.
//
//	ch := simulated.New(simulated.DefaultConfig(), simulated.WithLogger(log))
//	if err := ingestor.Start(ctx, ch); err != nil {
//	    return err
//	}
//
// Inject pushes a specific event through the channel, which is useful in
// tests. Seed returns the sample notifications a fresh feed starts with.
package simulated
