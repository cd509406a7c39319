package netclient

import (
	"sync"

	"github.com/vovakirdan/netpong/internal/protocol"
)

// Sink buffers events from the connection goroutine for a single consumer,
// typically the UI loop. Send never blocks: when the buffer is full the
// oldest event is dropped.
type Sink struct {
	events   chan protocol.Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewSink creates a sink holding up to size events.
func NewSink(size int) *Sink {
	if size < 1 {
		size = 64
	}
	return &Sink{
		events: make(chan protocol.Event, size),
		done:   make(chan struct{}),
	}
}

// Send queues evt. It is safe to pass as a Connection handler.
func (s *Sink) Send(evt protocol.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive from.
func (s *Sink) Events() <-chan protocol.Event {
	return s.events
}

// Done is closed once the sink is closed.
func (s *Sink) Done() <-chan struct{} {
	return s.done
}

// Close stops accepting events. Safe to call multiple times.
func (s *Sink) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
