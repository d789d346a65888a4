package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booking-service/internal/models"
	"booking-service/internal/notifier"
	"booking-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker fans booking events out to notification sinks in the
// background. Notify never blocks: when the queue is full the event is dropped.
type NotificationWorker struct {
	sinks   []notifier.Sink
	queue   chan *models.BookingCreatedEvent
	workers int
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewNotificationWorker creates a worker with a bounded queue
func NewNotificationWorker(sinks []notifier.Sink, queueSize, workers int, timeout time.Duration) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationWorker{
		sinks:   sinks,
		queue:   make(chan *models.BookingCreatedEvent, queueSize),
		workers: workers,
		timeout: timeout,
		logger:  util.GetLogger(),
	}
}

// Notify enqueues an event for delivery
func (w *NotificationWorker) Notify(event *models.BookingCreatedEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		util.NotificationsDroppedTotal.Inc()
		return
	}

	select {
	case w.queue <- event:
		util.NotificationQueueDepth.Inc()
	default:
		util.NotificationsDroppedTotal.Inc()
		w.logger.Warn("Notification queue full, dropping event",
			zap.String("booking_id", event.BookingID))
	}
}

// Start launches the delivery goroutines. They exit when ctx is cancelled or
// after Stop has drained the queue.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker",
		zap.Int("workers", w.workers),
		zap.Int("sinks", len(w.sinks)))

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

// Stop closes the queue and waits for queued events to be delivered
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker...")

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.queue:
			if !ok {
				return
			}
			util.NotificationQueueDepth.Dec()
			w.deliver(event)
		}
	}
}

// deliver hands the event to every sink. Each attempt gets its own timeout
// and failures are only logged.
func (w *NotificationWorker) deliver(event *models.BookingCreatedEvent) {
	for _, sink := range w.sinks {
		if err := w.send(sink, event); err != nil {
			util.NotificationsFailedTotal.WithLabelValues(sink.Name()).Inc()
			w.logger.Warn("Notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("booking_id", event.BookingID),
				zap.Error(err))
			continue
		}
		util.NotificationsDeliveredTotal.WithLabelValues(sink.Name()).Inc()
	}
}

func (w *NotificationWorker) send(sink notifier.Sink, event *models.BookingCreatedEvent) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()

	return sink.Send(ctx, event)
}
