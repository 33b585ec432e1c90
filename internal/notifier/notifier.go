package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/lshigami/litdrill/internal/chat"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Notifier accepts operator messages for best-effort delivery.
type Notifier interface {
	Notify(batch []chat.Outbound)
}

// Sender delivers a single message to the chat gateway.
type Sender interface {
	Send(ctx context.Context, msg chat.Outbound) error
}

const defaultQueueSize = 64

// Dispatcher delivers batches on a background goroutine, one message per
// interval, in the order they were queued. Failures are logged and dropped.
type Dispatcher struct {
	sender  Sender
	limiter *rate.Limiter
	queue   chan []chat.Outbound

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, interval time.Duration) *Dispatcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:  sender,
		limiter: rate.NewLimiter(limit, 1),
		queue:   make(chan []chat.Outbound, defaultQueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (d *Dispatcher) Start() {
	d.once.Do(func() {
		d.wg.Add(1)
		go d.run()
	})
}

// Stop drains queued batches until ctx expires.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// Notify never blocks. A full queue drops the batch.
func (d *Dispatcher) Notify(batch []chat.Outbound) {
	if len(batch) == 0 {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Warn().Int("messages", len(batch)).Msg("Operator notifier stopped, dropping batch")
		return
	}
	select {
	case d.queue <- batch:
	default:
		log.Warn().Int("messages", len(batch)).Msg("Operator notification queue full, dropping batch")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for batch := range d.queue {
		for _, msg := range batch {
			if err := d.limiter.Wait(d.ctx); err != nil {
				log.Warn().Err(err).Msg("Operator notification cancelled")
				return
			}
			if err := d.sender.Send(d.ctx, msg); err != nil {
				log.Error().Err(err).Int64("chatID", msg.ChatID).Str("messageRef", msg.MessageRef).Msg("Failed to deliver operator notification")
			}
		}
	}
}
