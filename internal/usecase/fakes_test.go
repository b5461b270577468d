package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

type fakeStream struct {
	ch     chan domain.EnrollSignal
	closed atomic.Int32
}

func (s *fakeStream) Signals() <-chan domain.EnrollSignal { return s.ch }

func (s *fakeStream) Close() error {
	s.closed.Add(1)
	return nil
}

// fakeDevice records every call. The claimed user keys per-user state.
type fakeDevice struct {
	mu sync.Mutex

	claimErr   map[string]error
	releaseErr error
	listErr    error
	deleteErr  map[string]error
	wipeErr    error
	startErr   error
	stopErr    error
	stages     int32
	stagesErr  error
	subErr     error

	enrolled map[string][]string
	signals  chan domain.EnrollSignal
	stream   *fakeStream
	onStart  func()

	current  string
	claims   []string
	releases int
	starts   []string
	stops    int
	deleted  []string
	wiped    []string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		claimErr:  map[string]error{},
		deleteErr: map[string]error{},
		enrolled:  map[string][]string{},
		signals:   make(chan domain.EnrollSignal, 16),
		stages:    5,
	}
}

func (d *fakeDevice) Claim(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.claims = append(d.claims, username)
	if err := d.claimErr[username]; err != nil {
		return err
	}
	d.current = username
	return nil
}

func (d *fakeDevice) Release(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releases++
	d.current = ""
	return d.releaseErr
}

func (d *fakeDevice) ListEnrolledFingers(_ context.Context, username string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	names := d.enrolled[username]
	if len(names) == 0 {
		return nil, domain.NewError(domain.KindNoEnrolledPrints)
	}
	return append([]string(nil), names...), nil
}

func (d *fakeDevice) DeleteEnrolledFinger(_ context.Context, finger string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.deleteErr[finger]; err != nil {
		return err
	}
	d.deleted = append(d.deleted, d.current+"/"+finger)
	kept := d.enrolled[d.current][:0]
	for _, f := range d.enrolled[d.current] {
		if f != finger {
			kept = append(kept, f)
		}
	}
	d.enrolled[d.current] = kept
	return nil
}

func (d *fakeDevice) DeleteEnrolledFingers(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.wipeErr != nil {
		return d.wipeErr
	}
	d.wiped = append(d.wiped, username)
	delete(d.enrolled, username)
	return nil
}

func (d *fakeDevice) EnrollStart(_ context.Context, finger string) error {
	d.mu.Lock()
	d.starts = append(d.starts, finger)
	err := d.startErr
	hook := d.onStart
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		hook()
	}
	return nil
}

func (d *fakeDevice) EnrollStop(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	return d.stopErr
}

func (d *fakeDevice) NumEnrollStages(_ context.Context) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stages, d.stagesErr
}

func (d *fakeDevice) ScanType(context.Context) (string, error) {
	return "press", nil
}

func (d *fakeDevice) SubscribeEnrollStatus(_ context.Context) (ports.StatusStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subErr != nil {
		return nil, d.subErr
	}
	d.stream = &fakeStream{ch: d.signals}
	return d.stream, nil
}

func (d *fakeDevice) releaseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.releases
}

var _ ports.Device = (*fakeDevice)(nil)

type fakeManager struct {
	path    string
	err     error
	openErr error
	dev     ports.Device
}

func (m fakeManager) GetDefaultDevice(context.Context) (string, error) {
	return m.path, m.err
}

func (m fakeManager) GetDevices(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{m.path}, nil
}

func (m fakeManager) OpenDevice(_ context.Context, _ string) (ports.Device, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.dev, nil
}

var _ ports.DeviceManager = fakeManager{}

// fakeDirectory serves accounts from a map and tracks lookup concurrency.
type fakeDirectory struct {
	paths   []string
	byName  map[string]string
	listErr error
	users   map[string]domain.User
	delay   time.Duration

	inflight atomic.Int32
	peak     atomic.Int32
}

func (d *fakeDirectory) ListCachedUsers(context.Context) ([]string, error) {
	return d.paths, d.listErr
}

func (d *fakeDirectory) LookupAccount(_ context.Context, path string) (domain.User, error) {
	n := d.inflight.Add(1)
	defer d.inflight.Add(-1)
	for {
		p := d.peak.Load()
		if n <= p || d.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if d.delay > 0 {
		time.Sleep(d.delay)
	}

	u, ok := d.users[path]
	if !ok {
		return domain.User{}, errors.New("no such object")
	}
	return u, nil
}

func (d *fakeDirectory) FindUserByName(_ context.Context, name string) (string, error) {
	if p, ok := d.byName[name]; ok {
		return p, nil
	}
	return "", errors.New("no such user " + name)
}

var _ ports.AccountDirectory = (*fakeDirectory)(nil)

type fakeLocal struct {
	user domain.User
	err  error
}

func (l fakeLocal) CurrentUser() (domain.User, error) { return l.user, l.err }

var _ ports.LocalUserLookup = fakeLocal{}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingSink) Emit(ev domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) snapshot() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func eventsOf[T domain.Event](s *recordingSink) []T {
	var out []T
	for _, ev := range s.snapshot() {
		if v, ok := ev.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

var _ ports.EventSink = (*recordingSink)(nil)
