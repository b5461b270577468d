package cli

import (
	"sync"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// collector keeps the events a command cares about and optionally forwards
// every event to a live printer.
type collector struct {
	mu      sync.Mutex
	fingers *domain.EnrolledFingers
	started *domain.EnrollStarted
	term    *domain.EnrollTerminal
	errs    []*domain.Error
	live    func(domain.Event)
}

var _ ports.EventSink = (*collector)(nil)

func (c *collector) Emit(ev domain.Event) {
	c.mu.Lock()
	switch e := ev.(type) {
	case domain.EnrolledFingers:
		c.fingers = &e
	case domain.EnrollStarted:
		c.started = &e
	case domain.EnrollTerminal:
		c.term = &e
	case domain.OperationError:
		c.errs = append(c.errs, e.Err)
	}
	live := c.live
	c.mu.Unlock()

	if live != nil {
		live(ev)
	}
}

func (c *collector) lastFingers() (domain.EnrolledFingers, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fingers == nil {
		return domain.EnrolledFingers{}, false
	}
	return *c.fingers, true
}

func (c *collector) lastError() *domain.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[len(c.errs)-1]
}
