package redischannel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

// Channel receives notification events from a Redis pub/sub channel.
type Channel struct {
	client redis.UniversalClient
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	envelopes chan notifications.Envelope
	signals   chan notifications.StatusSignal

	mu     sync.Mutex
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

var _ notifications.DeliveryChannel = (*Channel)(nil)

// Option configures a Channel.
type Option func(*Channel)

func WithLogger(l *slog.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a disconnected channel using client.
func New(client redis.UniversalClient, cfg Config, opts ...Option) *Channel {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}

	c := &Channel{
		client:    client,
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
		envelopes: make(chan notifications.Envelope, cfg.BufferSize),
		signals:   make(chan notifications.StatusSignal, 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect subscribes to the configured channel and waits for the
// subscription to be confirmed. Connecting a connected channel is a no-op.
func (c *Channel) Connect(ctx context.Context) error {
	if c.cfg.Channel == "" {
		return ErrEmptyChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pubsub != nil {
		return nil
	}

	// Drop signals nobody consumed during the previous session.
drain:
	for {
		select {
		case <-c.signals:
		default:
			break drain
		}
	}

	ps := c.client.Subscribe(ctx, c.cfg.Channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return errors.Join(ErrSubscribe, err)
	}

	fwdCtx, cancel := context.WithCancel(ctx)
	c.pubsub = ps
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.forward(fwdCtx, ps.Channel(redis.WithChannelSize(c.cfg.BufferSize)), c.done)

	c.signal(notifications.StatusSignal{Status: notifications.StatusConnected})
	c.logger.InfoContext(ctx, "redis channel subscribed",
		logger.Component("redischannel"),
		slog.String("channel", c.cfg.Channel),
	)
	return nil
}

// Disconnect closes the subscription and waits for the forwarder to exit.
func (c *Channel) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pubsub == nil {
		return nil
	}

	c.cancel()
	err := c.pubsub.Close()

	select {
	case <-c.done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}

	c.pubsub = nil
	c.cancel = nil
	c.done = nil

	c.signal(notifications.StatusSignal{Status: notifications.StatusDisconnected})
	c.logger.InfoContext(ctx, "redis channel unsubscribed",
		logger.Component("redischannel"),
		slog.String("channel", c.cfg.Channel),
	)
	return err
}

func (c *Channel) Envelopes() <-chan notifications.Envelope {
	return c.envelopes
}

func (c *Channel) Signals() <-chan notifications.StatusSignal {
	return c.signals
}

// Publish sends ev to every subscriber of the configured channel.
func (c *Channel) Publish(ctx context.Context, ev notifications.Event) error {
	if c.cfg.Channel == "" {
		return ErrEmptyChannel
	}

	payload, err := notifications.EncodeEvent(ev)
	if err != nil {
		return errors.Join(ErrPublish, err)
	}

	if err := c.client.Publish(ctx, c.cfg.Channel, payload).Err(); err != nil {
		return errors.Join(ErrPublish, err)
	}
	return nil
}

func (c *Channel) forward(ctx context.Context, msgs <-chan *redis.Message, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() == nil {
					c.signal(notifications.StatusSignal{
						Status: notifications.StatusDisconnected,
						Err:    ErrSubscriptionClosed,
					})
				}
				return
			}

			env := notifications.Envelope{Payload: []byte(msg.Payload), ReceivedAt: c.now()}
			select {
			case c.envelopes <- env:
			case <-ctx.Done():
				return
			}
		}
	}
}

// signal never blocks; a full signal buffer means nobody is listening.
func (c *Channel) signal(sig notifications.StatusSignal) {
	sig.At = c.now()
	select {
	case c.signals <- sig:
	default:
		c.logger.Debug("status signal dropped",
			logger.Component("redischannel"),
			logger.ChannelStatus(sig.Status.String()),
		)
	}
}
