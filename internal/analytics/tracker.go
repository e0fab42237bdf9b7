package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/metrics"
)

const (
	defaultBufferSize  = 256
	defaultSendTimeout = 5 * time.Second
)

type envelope struct {
	clientID string
	event    Event
}

// Tracker queues events in a bounded channel and sends them from a single
// background goroutine. A full queue drops the event; a failed send is
// logged at debug level and forgotten.
type Tracker struct {
	sender   Sender
	log      logger.Logger
	metrics  *metrics.Metrics
	clientID string
	timeout  time.Duration

	events chan envelope
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// TrackerOptions configure a Tracker.
type TrackerOptions struct {
	BufferSize int
	Timeout    time.Duration
	// ClientID identifies server-originated events. A random UUID is
	// generated when empty.
	ClientID string
}

// NewTracker creates a tracker. A nil sender yields a tracker that accepts
// and discards everything, used when analytics is disabled. m may be nil.
func NewTracker(sender Sender, log logger.Logger, m *metrics.Metrics, opts TrackerOptions) *Tracker {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSendTimeout
	}
	if opts.ClientID == "" {
		opts.ClientID = uuid.NewString()
	}
	return &Tracker{
		sender:   sender,
		log:      log,
		metrics:  m,
		clientID: opts.ClientID,
		timeout:  opts.Timeout,
		events:   make(chan envelope, opts.BufferSize),
		closed:   make(chan struct{}),
	}
}

// Enabled reports whether events leave the process.
func (t *Tracker) Enabled() bool {
	return t.sender != nil
}

// ClientID is the id attached to server-originated events.
func (t *Tracker) ClientID() string {
	return t.clientID
}

// Start launches the send loop.
func (t *Tracker) Start() {
	if t.sender == nil {
		return
	}
	t.wg.Add(1)
	go t.loop()
}

// Stop stops accepting events, sends what is queued and waits for the loop.
// It is safe to call more than once.
func (t *Tracker) Stop() {
	t.once.Do(func() {
		close(t.closed)
	})
	t.wg.Wait()
}

// Track queues e under the tracker's own client id.
func (t *Tracker) Track(e Event) bool {
	return t.TrackFor(t.clientID, e)
}

// TrackFor queues e for clientID without blocking. It returns false when
// the event was dropped.
func (t *Tracker) TrackFor(clientID string, e Event) bool {
	if t.sender == nil {
		return false
	}
	select {
	case <-t.closed:
		return false
	default:
	}
	if _, err := uuid.Parse(clientID); err != nil {
		clientID = t.clientID
	}
	select {
	case t.events <- envelope{clientID: clientID, event: e}:
		return true
	default:
		if t.metrics != nil {
			t.metrics.EventsDropped.Inc()
		}
		t.log.Warn("Analytics buffer full, dropping event", logger.String("event", e.Name))
		return false
	}
}

func (t *Tracker) loop() {
	defer t.wg.Done()
	for {
		select {
		case env := <-t.events:
			t.send(env)
		case <-t.closed:
			t.drain()
			return
		}
	}
}

func (t *Tracker) drain() {
	for {
		select {
		case env := <-t.events:
			t.send(env)
		default:
			return
		}
	}
}

func (t *Tracker) send(env envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.sender.Send(ctx, env.clientID, []Event{env.event}); err != nil {
		if t.metrics != nil {
			t.metrics.EventsFailed.Inc()
		}
		t.log.Debug("Analytics send failed",
			logger.String("event", env.event.Name),
			logger.Error(err),
		)
		return
	}
	if t.metrics != nil {
		t.metrics.EventsSent.WithLabelValues(env.event.Name).Inc()
	}
}
