package ports

import "github.com/jotuel/cosmic-fprint/internal/domain"

// EventSink receives orchestrator events in emission order.
type EventSink interface {
	Emit(ev domain.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ev domain.Event)

func (f EventSinkFunc) Emit(ev domain.Event) { f(ev) }

// DiscardSink drops every event.
var DiscardSink EventSink = EventSinkFunc(func(domain.Event) {})
