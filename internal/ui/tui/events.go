package tui

import (
	"sync"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// EventSink queues orchestrator events for the UI loop in emission order.
type EventSink struct {
	ch   chan domain.Event
	done chan struct{}
	once sync.Once
}

var _ ports.EventSink = (*EventSink)(nil)

func NewEventSink() *EventSink {
	return &EventSink{
		ch:   make(chan domain.Event, 64),
		done: make(chan struct{}),
	}
}

// Emit blocks until the UI takes the event or the sink is closed.
func (s *EventSink) Emit(ev domain.Event) {
	select {
	case s.ch <- ev:
	case <-s.done:
	}
}

// Close releases pending emitters. Events emitted afterwards are dropped.
func (s *EventSink) Close() {
	s.once.Do(func() { close(s.done) })
}
