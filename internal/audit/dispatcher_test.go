package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Emit(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

type blockingSink struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Emit(_ context.Context, _ Event) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return nil
}

func TestDispatcher_DeliversAsynchronously(t *testing.T) {
	sink := &captureSink{}
	d := NewDispatcher(sink, 16)

	d.Record(context.Background(), "u1", "USER_CREATED", "1.2.3.4")
	d.Record(context.Background(), "u1", "USER_LOGGED_IN", "")

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	events := sink.snapshot()
	assert.Equal(t, "USER_CREATED", events[0].Action)
	assert.Equal(t, "1.2.3.4", events[0].IP)
	assert.Equal(t, "USER_LOGGED_IN", events[1].Action)
	assert.False(t, events[0].At.IsZero())

	d.Close()
}

func TestDispatcher_DropsWhenBufferIsFull(t *testing.T) {
	sink := &blockingSink{started: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher(sink, 1)
	defer func() {
		close(sink.release)
		d.Close()
	}()

	// First event occupies the worker inside Emit.
	d.Record(context.Background(), "u1", "A", "")
	select {
	case <-sink.started:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the first event")
	}

	// Second event fills the buffer, third has nowhere to go.
	d.Record(context.Background(), "u1", "B", "")
	d.Record(context.Background(), "u1", "C", "")

	assert.Equal(t, uint64(1), d.Dropped())
}

func TestDispatcher_CloseDrainsBufferedEvents(t *testing.T) {
	sink := &captureSink{}
	d := NewDispatcher(sink, 64)

	for i := 0; i < 20; i++ {
		d.Record(context.Background(), "u1", fmt.Sprintf("ACTION_%d", i), "")
	}

	d.Close()

	assert.Len(t, sink.snapshot(), 20)
}

func TestDispatcher_RecordAfterCloseIsNoop(t *testing.T) {
	sink := &captureSink{}
	d := NewDispatcher(sink, 4)
	d.Close()

	d.Record(context.Background(), "u1", "USER_CREATED", "")

	assert.Empty(t, sink.snapshot())
	assert.Equal(t, uint64(0), d.Dropped())
}

func TestDispatcher_NilReceiverIsSafe(t *testing.T) {
	var d *Dispatcher

	d.Record(context.Background(), "u1", "USER_CREATED", "")
	d.Close()
	assert.Equal(t, uint64(0), d.Dropped())
}

type failingSink struct {
	calls atomic.Int32
}

func (s *failingSink) Emit(_ context.Context, _ Event) error {
	s.calls.Add(1)
	return errors.New("sink unavailable")
}

func TestDispatcher_SinkFailuresDoNotStopTheWorker(t *testing.T) {
	sink := &failingSink{}
	d := NewDispatcher(sink, 8)

	d.Record(context.Background(), "u1", "A", "")
	d.Record(context.Background(), "u1", "B", "")
	d.Close()

	assert.Equal(t, int32(2), sink.calls.Load())
}
