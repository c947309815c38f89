package notifications

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned for a type outside info, success, warning and error.
	ErrUnknownType = errors.New("unknown notification type")

	// ErrUnknownFilter is returned by ParseFilter for unsupported filter values.
	ErrUnknownFilter = errors.New("unknown notification filter")

	// ErrNilChannel is returned when Start is called without a channel.
	ErrNilChannel = errors.New("delivery channel is nil")

	// ErrAlreadyStarted is returned when Start is called on a running ingestor.
	ErrAlreadyStarted = errors.New("ingestor already started")
)

// ValidationError reports an inbound event that was rejected during
// ingestion. Err is either a decode error or validator.ValidationErrors.
type ValidationError struct {
	EventID string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("invalid notification event: %v", e.Err)
	}
	return fmt.Sprintf("invalid notification event %q: %v", e.EventID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ChannelError reports a transport failure of a delivery channel.
// It never affects notifications that were already accepted.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("delivery channel %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsChannelError reports whether err carries a *ChannelError.
func IsChannelError(err error) bool {
	var cerr *ChannelError
	return errors.As(err, &cerr)
}
