package simulated

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/notifications"
)

// Channel is a timer driven notifications.DeliveryChannel.
type Channel struct {
	cfg       Config
	logger    *slog.Logger
	rnd       *rand.Rand
	now       func() time.Time
	newID     func() string
	templates []Template

	envelopes chan notifications.Envelope
	signals   chan notifications.StatusSignal

	mu     sync.Mutex
	ctx    context.Context
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

// WithRand sets the random source. Used to make generation deterministic.
func WithRand(r *rand.Rand) Option {
	return func(c *Channel) {
		c.rnd = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Channel) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithTemplates replaces DefaultTemplates. An empty list is ignored.
func WithTemplates(templates ...Template) Option {
	return func(c *Channel) {
		if len(templates) > 0 {
			c.templates = templates
		}
	}
}

// New creates a disconnected channel.
func New(cfg Config, opts ...Option) *Channel {
	cfg = cfg.normalized()
	c := &Channel{
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
		templates: DefaultTemplates,
		envelopes: make(chan notifications.Envelope, cfg.BufferSize),
		signals:   make(chan notifications.StatusSignal, 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect starts the generator. The generator stops when ctx is cancelled
// or Disconnect is called. Connecting a connected channel is a no-op.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
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

	genCtx, cancel := context.WithCancel(ctx)
	c.ctx = genCtx
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.generate(genCtx, c.done)

	c.signal(notifications.StatusConnected)
	c.logger.InfoContext(ctx, "simulated channel connected", logger.Component("simulated"))
	return nil
}

// Disconnect stops the generator and waits for it to exit.
func (c *Channel) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return nil
	}

	c.cancel()
	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.ctx = nil
	c.cancel = nil
	c.done = nil

	c.signal(notifications.StatusDisconnected)
	c.logger.InfoContext(ctx, "simulated channel disconnected", logger.Component("simulated"))
	return nil
}

func (c *Channel) Envelopes() <-chan notifications.Envelope {
	return c.envelopes
}

func (c *Channel) Signals() <-chan notifications.StatusSignal {
	return c.signals
}

// Inject delivers ev through the channel as if it had been generated. It
// blocks until the envelope is buffered, ctx is done or the channel is
// disconnected.
func (c *Channel) Inject(ctx context.Context, ev notifications.Event) error {
	c.mu.Lock()
	genCtx := c.ctx
	c.mu.Unlock()

	if genCtx == nil {
		return ErrNotConnected
	}

	payload, err := notifications.EncodeEvent(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	select {
	case c.envelopes <- notifications.Envelope{Payload: payload, ReceivedAt: c.now()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-genCtx.Done():
		return ErrNotConnected
	}
}

func (c *Channel) generate(ctx context.Context, done chan struct{}) {
	defer close(done)

	first := time.NewTimer(c.cfg.FirstDelay)
	defer first.Stop()

	select {
	case <-ctx.Done():
		return
	case <-first.C:
		c.emit(ctx)
	}

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.randFloat() < c.cfg.Probability {
				c.emit(ctx)
			}
		}
	}
}

func (c *Channel) emit(ctx context.Context) {
	tpl := c.templates[c.randIntN(len(c.templates))]
	now := c.now()

	ev := notifications.Event{
		ID:        c.newID(),
		Title:     tpl.Title,
		Message:   tpl.Message,
		Type:      string(tpl.Type),
		Timestamp: now,
		ImageURL:  tpl.ImageURL,
	}

	payload, err := notifications.EncodeEvent(ev)
	if err != nil {
		c.logger.ErrorContext(ctx, "encode simulated event", logger.Component("simulated"), logger.Error(err))
		return
	}

	select {
	case c.envelopes <- notifications.Envelope{Payload: payload, ReceivedAt: now}:
		c.logger.DebugContext(ctx, "simulated notification emitted",
			logger.Component("simulated"),
			logger.NotificationID(ev.ID),
		)
	case <-ctx.Done():
	}
}

// signal never blocks; a full signal buffer means nobody is listening.
func (c *Channel) signal(status notifications.Status) {
	select {
	case c.signals <- notifications.StatusSignal{Status: status, At: c.now()}:
	default:
	}
}

func (c *Channel) randFloat() float64 {
	if c.rnd != nil {
		return c.rnd.Float64()
	}
	return rand.Float64()
}

func (c *Channel) randIntN(n int) int {
	if c.rnd != nil {
		return c.rnd.IntN(n)
	}
	return rand.IntN(n)
}
