package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/civicgate/portal/internal/api/metrics"
	"github.com/civicgate/portal/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// Notifier persists notifications off the request path. Emission is
// best-effort by policy: when the buffer is full the notification is dropped
// and counted, and insert failures are logged, never propagated.
type Notifier struct {
	ch      chan ports.NewNotificationInput
	service ports.NotificationService
	workers int
	log     zerolog.Logger
}

// NewNotifier creates a Notifier with numWorkers consumer goroutines.
// If numWorkers <= 0, defaultWorkers is used.
func NewNotifier(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Notifier {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Notifier{
		ch:      make(chan ports.NewNotificationInput, channelBuffer),
		service: service,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < n.workers; i++ {
		go n.runWorker(ctx, i)
	}
}

// Emit queues a notification for background persistence. Non-blocking: a
// full buffer drops the notification rather than stalling a login.
func (n *Notifier) Emit(in ports.NewNotificationInput) {
	select {
	case n.ch <- in:
		metrics.NotificationQueueDepth.Set(float64(len(n.ch)))
	default:
		metrics.NotificationEmitErrorsTotal.WithLabelValues("queue_full").Inc()
		n.log.Warn().Str("message", in.Message).Msg("notification queue full, dropped")
	}
}

func (n *Notifier) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-n.ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.Set(float64(len(n.ch)))
			if _, err := n.service.Insert(ctx, in); err != nil {
				metrics.NotificationEmitErrorsTotal.WithLabelValues("insert_failed").Inc()
				n.log.Error().Err(err).
					Int("worker_id", id).
					Str("message", in.Message).
					Msg("notification insert failed")
			}
		}
	}
}
