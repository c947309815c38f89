package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifeed/pkg/broadcast"
	"github.com/dmitrymomot/notifeed/pkg/logger"
)

// FailureHandler receives every rejected event and every channel failure.
// It is called once per failure, on the goroutine that observed it.
type FailureHandler func(ctx context.Context, err error)

// IngestStats counts the outcome of ingestion attempts since creation.
type IngestStats struct {
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

// Ingestor connects a DeliveryChannel to a Store. It is the only writer of
// externally sourced notifications and owns the connectivity status.
type Ingestor struct {
	store     *Store
	logger    *slog.Logger
	onFailure FailureHandler
	now       func() time.Time
	newID     func() string

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	channel   DeliveryChannel
	cancel    context.CancelFunc
	done      chan struct{}

	statusMu sync.RWMutex
	status   Status
	statuses *broadcast.MemoryBroadcaster[StatusSignal]

	accepted atomic.Uint64
	rejected atomic.Uint64
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithIngestorLogger sets the logger for the Ingestor.
func WithIngestorLogger(l *slog.Logger) IngestorOption {
	return func(i *Ingestor) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithFailureHandler registers fn to be told about each ingestion or
// channel failure in addition to the log entry.
func WithFailureHandler(fn FailureHandler) IngestorOption {
	return func(i *Ingestor) {
		i.onFailure = fn
	}
}

// WithClock replaces time.Now for receive timestamps.
func WithClock(now func() time.Time) IngestorOption {
	return func(i *Ingestor) {
		if now != nil {
			i.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator used by Submit.
func WithIDGenerator(fn func() string) IngestorOption {
	return func(i *Ingestor) {
		if fn != nil {
			i.newID = fn
		}
	}
}

// NewIngestor creates an ingestor writing into store, which must not be nil.
func NewIngestor(store *Store, opts ...IngestorOption) *Ingestor {
	i := &Ingestor{
		store:    store,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
		statuses: broadcast.NewMemoryBroadcaster[StatusSignal](16),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Start connects ch and begins applying its events to the store. It returns
// immediately; connecting and receiving happen on a separate goroutine.
// The ingestor can be started again after Stop.
func (i *Ingestor) Start(ctx context.Context, ch DeliveryChannel) error {
	if ch == nil {
		return ErrNilChannel
	}

	i.lifecycle.Lock()
	defer i.lifecycle.Unlock()

	if i.cancel != nil {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	i.channel = ch
	i.cancel = cancel
	i.done = make(chan struct{})

	go i.run(loopCtx, ch, i.done)

	i.logger.InfoContext(ctx, "ingestor started", logger.Component("ingestor"))
	return nil
}

// Stop cancels the receive loop, waits until any in-flight event has been
// applied, and disconnects the channel. No event is applied after Stop
// returns. Calling Stop on a stopped ingestor is a no-op.
func (i *Ingestor) Stop(ctx context.Context) error {
	i.lifecycle.Lock()
	defer i.lifecycle.Unlock()

	if i.cancel == nil {
		return nil
	}

	i.cancel()
	// A loop that already exited wins over an expired ctx.
	select {
	case <-i.done:
	default:
		select {
		case <-i.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var err error
	if derr := i.channel.Disconnect(ctx); derr != nil {
		err = &ChannelError{Op: "disconnect", Err: derr}
		i.logger.ErrorContext(ctx, "channel disconnect failed",
			logger.Component("ingestor"),
			logger.Error(derr),
		)
	}

	i.channel = nil
	i.cancel = nil
	i.done = nil
	i.setStatus(ctx, StatusSignal{Status: StatusDisconnected, At: i.now()})

	stats := i.Stats()
	i.logger.InfoContext(ctx, "ingestor stopped",
		logger.Component("ingestor"),
		logger.Group("stats",
			slog.Uint64("accepted", stats.Accepted),
			slog.Uint64("rejected", stats.Rejected),
		),
	)
	return err
}

// Run returns a function suitable for errgroup: it starts the ingestor on ch,
// blocks until ctx is done and then stops it within stopTimeout.
func (i *Ingestor) Run(ctx context.Context, ch DeliveryChannel, stopTimeout time.Duration) func() error {
	return func() error {
		if err := i.Start(ctx, ch); err != nil {
			return err
		}

		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		return i.Stop(stopCtx)
	}
}

// Close stops the ingestor and ends all status subscriptions.
func (i *Ingestor) Close(ctx context.Context) error {
	return errors.Join(i.Stop(ctx), i.statuses.Close())
}

func (i *Ingestor) run(ctx context.Context, ch DeliveryChannel, done chan struct{}) {
	defer close(done)

	if err := ch.Connect(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		cerr := &ChannelError{Op: "connect", Err: err}
		i.setStatus(ctx, StatusSignal{Status: StatusDisconnected, Err: cerr, At: i.now()})
		i.fail(ctx, cerr)
		return
	}
	i.setStatus(ctx, StatusSignal{Status: StatusConnected, At: i.now()})

	envelopes := ch.Envelopes()
	signals := ch.Signals()

	for envelopes != nil || signals != nil {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-envelopes:
			if !ok {
				envelopes = nil
				continue
			}
			if ctx.Err() != nil {
				return
			}
			_ = i.Ingest(ctx, env)
		case sig, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if sig.At.IsZero() {
				sig.At = i.now()
			}
			if sig.Err != nil {
				var cerr *ChannelError
				if !errors.As(sig.Err, &cerr) {
					sig.Err = &ChannelError{Op: "receive", Err: sig.Err}
				}
				i.fail(ctx, sig.Err)
			}
			i.setStatus(ctx, sig)
		}
	}

	<-ctx.Done()
}

// Ingest decodes, validates and applies one raw payload. A rejected payload
// is returned as a *ValidationError and also reported to the failure handler.
func (i *Ingestor) Ingest(ctx context.Context, env Envelope) error {
	receivedAt := env.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = i.now()
	}

	ev, err := DecodeEvent(env.Payload)
	if err != nil {
		i.reject(ctx, err)
		return err
	}

	n, err := ev.Notification(receivedAt)
	if err != nil {
		i.reject(ctx, err)
		return err
	}

	i.accept(ctx, n)
	return nil
}

// Submit applies a locally created event, generating an id when it has
// none. It returns the notification as stored.
func (i *Ingestor) Submit(ctx context.Context, ev Event) (Notification, error) {
	if strings.TrimSpace(ev.ID) == "" {
		ev.ID = i.newID()
	}

	n, err := ev.Notification(i.now())
	if err != nil {
		i.reject(ctx, err)
		return Notification{}, err
	}

	i.accept(ctx, n)
	if stored, ok := i.store.Get(n.ID); ok {
		return stored, nil
	}
	return n, nil
}

// Status returns the last known connectivity of the channel.
func (i *Ingestor) Status() Status {
	i.statusMu.RLock()
	defer i.statusMu.RUnlock()
	return i.status
}

func (i *Ingestor) Connected() bool {
	return i.Status() == StatusConnected
}

// SubscribeStatus streams connectivity transitions until ctx is cancelled.
func (i *Ingestor) SubscribeStatus(ctx context.Context) broadcast.Subscriber[StatusSignal] {
	return i.statuses.Subscribe(ctx)
}

func (i *Ingestor) Stats() IngestStats {
	return IngestStats{
		Accepted: i.accepted.Load(),
		Rejected: i.rejected.Load(),
	}
}

func (i *Ingestor) accept(ctx context.Context, n Notification) {
	inserted := i.store.Upsert(n)
	i.accepted.Add(1)

	event := "notification updated"
	if inserted {
		event = "notification inserted"
	}
	i.logger.DebugContext(ctx, event,
		logger.Component("ingestor"),
		logger.NotificationID(n.ID),
		logger.NotificationType(string(n.Type)),
	)
}

func (i *Ingestor) reject(ctx context.Context, err error) {
	i.rejected.Add(1)

	var verr *ValidationError
	id := ""
	if errors.As(err, &verr) {
		id = verr.EventID
	}
	i.logger.WarnContext(ctx, "notification event rejected",
		logger.Component("ingestor"),
		logger.NotificationID(id),
		logger.Error(err),
	)

	if i.onFailure != nil {
		i.onFailure(ctx, err)
	}
}

func (i *Ingestor) fail(ctx context.Context, err error) {
	i.logger.ErrorContext(ctx, "delivery channel failure",
		logger.Component("ingestor"),
		logger.Error(err),
	)
	if i.onFailure != nil {
		i.onFailure(ctx, err)
	}
}

func (i *Ingestor) setStatus(ctx context.Context, sig StatusSignal) {
	i.statusMu.Lock()
	if i.status == sig.Status {
		i.statusMu.Unlock()
		return
	}
	i.status = sig.Status
	// Published under the lock so subscribers see transitions in order.
	_ = i.statuses.Broadcast(ctx, broadcast.Message[StatusSignal]{Data: sig})
	i.statusMu.Unlock()

	i.logger.InfoContext(ctx, "channel status changed",
		logger.Component("ingestor"),
		logger.ChannelStatus(sig.Status.String()),
		logger.Error(sig.Err),
	)
}
