package simulated

import "errors"

// ErrNotConnected is returned by Inject while the channel is disconnected.
var ErrNotConnected = errors.New("simulated channel is not connected")
