// Package audit delivers security-relevant events to a sink without blocking
// the operation that produced them.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type Event struct {
	UserID string
	Action string
	IP     string
	At     time.Time
}

type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// Dispatcher buffers events on a bounded channel and emits them from a single
// background goroutine. A full buffer drops the event and counts it; audit
// failures never propagate to the caller.
type Dispatcher struct {
	sink      Sink
	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewDispatcher(sink Sink, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}

	d := &Dispatcher{
		sink: sink,
		ch:   make(chan Event, bufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.emit(event)
		case <-d.done:
			// Drain whatever is still buffered before exiting.
			for {
				select {
				case event := <-d.ch:
					d.emit(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) emit(event Event) {
	if err := d.sink.Emit(context.Background(), event); err != nil {
		slog.Warn("audit emit failed",
			slog.String("user_id", event.UserID),
			slog.String("action", event.Action),
			slog.String("error", err.Error()),
		)
	}
}

// Record implements domain.AuditRecorder. It never blocks.
func (d *Dispatcher) Record(ctx context.Context, userID, action, ip string) {
	if d == nil || d.closed.Load() {
		return
	}

	event := Event{UserID: userID, Action: action, IP: ip, At: time.Now()}

	select {
	case d.ch <- event:
	case <-d.done:
	default:
		d.dropped.Add(1)
	}
}

// Close stops accepting events and waits for the buffer to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
