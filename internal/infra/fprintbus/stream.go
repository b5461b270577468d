package fprintbus

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

type statusStream struct {
	out     chan domain.EnrollSignal
	done    chan struct{}
	once    sync.Once
	cleanup func()
}

func newStatusStream(path dbus.ObjectPath, in <-chan *dbus.Signal, cleanup func()) *statusStream {
	s := &statusStream{
		out:     make(chan domain.EnrollSignal, 16),
		done:    make(chan struct{}),
		cleanup: cleanup,
	}
	go s.pump(path, in)
	return s
}

func (s *statusStream) Signals() <-chan domain.EnrollSignal { return s.out }

func (s *statusStream) Close() error {
	s.once.Do(func() {
		if s.cleanup != nil {
			s.cleanup()
		}
		close(s.done)
	})
	return nil
}

// pump forwards matching signals until the connection closes in or Close is called.
func (s *statusStream) pump(path dbus.ObjectPath, in <-chan *dbus.Signal) {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case sig, ok := <-in:
			if !ok {
				return
			}
			ev, match := decodeStatus(path, sig)
			if !match {
				continue
			}
			select {
			case s.out <- ev:
			case <-s.done:
				return
			}
		}
	}
}

// decodeStatus extracts (result, done) from an EnrollStatus signal emitted
// by the device at path. Signals from other objects or members do not match.
func decodeStatus(path dbus.ObjectPath, sig *dbus.Signal) (domain.EnrollSignal, bool) {
	if sig == nil || sig.Path != path || sig.Name != deviceInterface+"."+enrollStatusMember {
		return domain.EnrollSignal{}, false
	}

	var (
		result string
		done   bool
	)
	if err := dbus.Store(sig.Body, &result, &done); err != nil {
		return domain.EnrollSignal{Err: err}, true
	}
	return domain.EnrollSignal{Result: result, Done: done}, true
}
