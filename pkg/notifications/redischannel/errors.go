package redischannel

import "errors"

var (
	ErrEmptyChannel       = errors.New("redis channel name is empty")
	ErrSubscribe          = errors.New("failed to subscribe to redis channel")
	ErrPublish            = errors.New("failed to publish notification")
	ErrSubscriptionClosed = errors.New("redis subscription closed")
)
