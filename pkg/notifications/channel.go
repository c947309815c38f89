package notifications

import (
	"context"
	"time"
)

// Status is the connectivity state of a delivery channel.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnected
)

func (s Status) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Envelope is one raw inbound payload. Payload holds a JSON encoded Event.
type Envelope struct {
	Payload    []byte
	ReceivedAt time.Time
}

// StatusSignal reports a connectivity change. Err is set when the channel
// dropped because of a failure.
type StatusSignal struct {
	Status Status
	Err    error
	At     time.Time
}

// DeliveryChannel is the push transport the feed listens on.
//
// Envelopes and Signals must return the same channels for the lifetime of
// the value. Implementations close neither channel while they may still be
// read, or close Envelopes once after Disconnect; the ingestor handles both.
type DeliveryChannel interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Envelopes() <-chan Envelope
	Signals() <-chan StatusSignal
}
