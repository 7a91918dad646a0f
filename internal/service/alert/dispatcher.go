package alert

import (
	"sync"

	"safetywatch/internal/logger"
	"safetywatch/internal/model"
)

// Dispatcher hands authorized alerts to a background worker so the frame
// loop never blocks on chat delivery. The rate-limiter decision has already
// been recorded by the time an event is enqueued; a full queue drops the
// alert but the cooldown stands.
type Dispatcher struct {
	notifier Notifier
	queue    chan *model.ViolationEvent
	logger   *logger.Logger
	wg       sync.WaitGroup
	onError  func()
}

// NewDispatcher starts the delivery worker. onError is invoked once per
// failed delivery and may be nil.
func NewDispatcher(notifier Notifier, queueSize int, logger *logger.Logger, onError func()) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan *model.ViolationEvent, queueSize),
		logger:   logger,
		onError:  onError,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

// Enqueue offers an event for delivery without blocking. It reports whether
// the event was accepted.
func (d *Dispatcher) Enqueue(event *model.ViolationEvent) bool {
	select {
	case d.queue <- event:
		return true
	default:
		d.logger.Warning("Alert queue full - dropping alert for event %s", event.ID)
		return false
	}
}

// Stop drains the queue and waits for in-flight deliveries.
func (d *Dispatcher) Stop() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.queue {
		if err := d.notifier.Send(event); err != nil {
			d.logger.Error("Failed to send alert for event %s: %v", event.ID, err)
			if d.onError != nil {
				d.onError()
			}
			continue
		}
		d.logger.Info("Alert sent for event %s (%d violation(s))", event.ID, len(event.Violations))
	}
}
