package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// Orchestrator is the request surface used by front ends. It owns the device
// reference, the user list and selection, and the single live enrollment.
// Results are reported through the EventSink; front ends never talk to the
// remote objects directly.
type Orchestrator struct {
	manager ports.DeviceManager
	sink    ports.EventSink
	log     *slog.Logger

	discover *DiscoverDevice
	users    *ResolveUsers
	enroll   *EnrollFinger
	fingers  *ManageFingers

	preferredUser string

	mu       sync.Mutex
	ref      *domain.DeviceRef
	device   ports.Device
	list     []domain.User
	selected *domain.User
	session  context.CancelFunc
}

type OrchestratorOption func(*orchestratorOptions)

type orchestratorOptions struct {
	log           *slog.Logger
	lookupLimit   int
	preferredUser string
}

func WithLogger(log *slog.Logger) OrchestratorOption {
	return func(o *orchestratorOptions) { o.log = log }
}

// WithUserLookupLimit bounds concurrent account lookups.
func WithUserLookupLimit(n int) OrchestratorOption {
	return func(o *orchestratorOptions) { o.lookupLimit = n }
}

// WithPreferredUser selects username on the first refresh when it is listed.
func WithPreferredUser(username string) OrchestratorOption {
	return func(o *orchestratorOptions) { o.preferredUser = username }
}

func NewOrchestrator(
	manager ports.DeviceManager,
	accounts ports.AccountDirectory,
	local ports.LocalUserLookup,
	sink ports.EventSink,
	opts ...OrchestratorOption,
) *Orchestrator {
	cfg := orchestratorOptions{lookupLimit: domain.DefaultLookupConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := orDiscard(cfg.log)
	if sink == nil {
		sink = ports.DiscardSink
	}

	guard := NewClaimGuard(log)
	return &Orchestrator{
		manager:       manager,
		sink:          sink,
		log:           log,
		discover:      NewDiscoverDevice(manager, log),
		users:         NewResolveUsers(accounts, local, log, WithLookupLimit(cfg.lookupLimit)),
		enroll:        NewEnrollFinger(log),
		fingers:       NewManageFingers(guard, log),
		preferredUser: cfg.preferredUser,
	}
}

// Device returns the discovered device reference, if any.
func (o *Orchestrator) Device() (domain.DeviceRef, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ref == nil {
		return domain.DeviceRef{}, false
	}
	return *o.ref, true
}

// Users returns a copy of the current user list.
func (o *Orchestrator) Users() []domain.User {
	o.mu.Lock()
	defer o.mu.Unlock()
	return domain.CloneUsers(o.list)
}

// Selected returns the selected user, if any.
func (o *Orchestrator) Selected() (domain.User, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil {
		return domain.User{}, false
	}
	return *o.selected, true
}

// Enrolling reports whether an enrollment session is live.
func (o *Orchestrator) Enrolling() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session != nil
}

// Discover resolves the default device. On failure the device reference is
// cleared and DeviceNotFound is emitted.
func (o *Orchestrator) Discover(ctx context.Context) error {
	ref, dev, err := o.discover.Execute(ctx)

	o.mu.Lock()
	if err != nil {
		o.ref, o.device = nil, nil
	} else {
		o.ref, o.device = &ref, dev
	}
	o.mu.Unlock()

	if err != nil {
		o.sink.Emit(domain.DeviceNotFound{Err: domain.AsError(err)})
		return err
	}
	o.sink.Emit(domain.DeviceFound{Ref: ref})
	return nil
}

// DescribeDevice reads the reader's scan type and stage count.
// Properties that cannot be read are left empty.
func (o *Orchestrator) DescribeDevice(ctx context.Context) (domain.DeviceInfo, error) {
	o.mu.Lock()
	dev, ref := o.device, o.ref
	o.mu.Unlock()
	if dev == nil || ref == nil {
		return domain.DeviceInfo{}, domain.NewError(domain.KindDeviceNotFound)
	}

	info := domain.DeviceInfo{Path: ref.Path}
	if st, err := dev.ScanType(ctx); err == nil {
		info.ScanType = st
	} else {
		o.log.Debug("device.scan_type.failed", "err", err)
	}
	if n, err := dev.NumEnrollStages(ctx); err == nil {
		info.StageCount = domain.StageCountFrom(n)
	} else {
		o.log.Debug("device.stages.failed", "err", err)
	}
	if o.manager != nil {
		if readers, err := o.manager.GetDevices(ctx); err == nil {
			info.Readers = readers
		} else {
			o.log.Debug("device.list.failed", "err", err)
		}
	}
	return info, nil
}

// RefreshUsers reloads the user list and re-applies the selection.
func (o *Orchestrator) RefreshUsers(ctx context.Context) []domain.User {
	users := o.users.Execute(ctx)
	if o.preferredUser != "" {
		if _, ok := domain.FindUser(users, o.preferredUser); !ok {
			if u, err := o.users.Find(ctx, o.preferredUser); err == nil {
				users = append(users, u)
			}
		}
	}

	o.mu.Lock()
	prev := o.selected
	if prev == nil && o.preferredUser != "" {
		prev = &domain.User{Username: o.preferredUser}
	}
	o.list = domain.CloneUsers(users)
	o.selected = domain.Reselect(prev, o.list)
	ev := domain.UsersFound{Users: domain.CloneUsers(o.list), Selected: copyUser(o.selected)}
	o.mu.Unlock()

	o.sink.Emit(ev)
	return domain.CloneUsers(users)
}

// SelectUser changes the active user and refreshes its enrolled fingers.
// Accounts missing from the cached list are resolved by name and added.
func (o *Orchestrator) SelectUser(ctx context.Context, username string) error {
	o.mu.Lock()
	u, ok := domain.FindUser(o.list, username)
	o.mu.Unlock()

	if !ok {
		if found, err := o.users.Find(ctx, username); err == nil && found.Username == username {
			u, ok = found, true
		}
	}

	if ok {
		o.mu.Lock()
		if _, listed := domain.FindUser(o.list, username); !listed {
			o.list = append(o.list, u)
		}
		o.selected = &u
		o.mu.Unlock()
	}

	if !ok {
		err := domain.Unknown("unknown user " + username)
		o.sink.Emit(domain.OperationError{Err: err})
		return err
	}

	o.sink.Emit(domain.UserSelected{User: u})
	return o.RefreshFingers(ctx)
}

// RefreshFingers lists the selected user's enrolled fingers. It is a no-op
// without a device or selection.
func (o *Orchestrator) RefreshFingers(ctx context.Context) error {
	dev, user, ok := o.target()
	if !ok {
		return nil
	}

	fingers, err := o.fingers.List(ctx, dev, user.Username)
	if err != nil {
		se := domain.AsError(err).WithContext("list enrolled fingers")
		o.sink.Emit(domain.OperationError{Err: se})
		return se
	}
	o.sink.Emit(domain.EnrolledFingers{Username: user.Username, Fingers: fingers})
	return nil
}

// Enroll runs one enrollment for the selected user and blocks until it ends.
// Only one enrollment may be live; CancelEnrollment ends it early.
func (o *Orchestrator) Enroll(ctx context.Context, finger domain.Finger) domain.EnrollOutcome {
	if !finger.IsEnrollable() {
		o.sink.Emit(domain.OperationError{Err: domain.Unknown("cannot enroll " + string(finger))})
		return domain.OutcomeFailed
	}

	o.mu.Lock()
	dev, user, err := o.targetLocked()
	if err == nil && o.session != nil {
		err = domain.NewError(domain.KindAlreadyInUse)
	}
	if err != nil {
		o.mu.Unlock()
		o.sink.Emit(domain.OperationError{Err: err})
		return domain.OutcomeFailed
	}
	ectx, cancel := context.WithCancel(ctx)
	o.session = cancel
	o.mu.Unlock()

	defer func() {
		cancel()
		o.mu.Lock()
		o.session = nil
		o.mu.Unlock()
	}()

	outcome := o.enroll.Execute(ectx, dev, user.Username, finger, o.sink)
	if outcome == domain.OutcomeCompleted {
		_ = o.RefreshFingers(context.WithoutCancel(ctx))
	}
	return outcome
}

// CancelEnrollment requests cancellation of the live enrollment.
// It reports false when nothing was running.
func (o *Orchestrator) CancelEnrollment() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return false
	}
	o.log.Info("enroll.cancel.requested")
	o.session()
	return true
}

// Delete removes one finger, or all of the selected user's fingers when
// finger is domain.FingerAll.
func (o *Orchestrator) Delete(ctx context.Context, finger domain.Finger) error {
	o.mu.Lock()
	dev, user, terr := o.targetLocked()
	o.mu.Unlock()
	if terr != nil {
		o.sink.Emit(domain.OperationError{Err: terr})
		return terr
	}

	var derr error
	if finger == domain.FingerAll {
		derr = o.fingers.DeleteAllForUser(ctx, dev, user.Username)
	} else {
		derr = o.fingers.DeleteOne(ctx, dev, user.Username, finger)
	}
	if derr != nil {
		se := domain.AsError(derr).WithContext("delete " + string(finger))
		o.sink.Emit(domain.OperationError{Err: se})
		return se
	}

	o.sink.Emit(domain.DeleteComplete{Username: user.Username, Finger: finger})
	_ = o.RefreshFingers(ctx)
	return nil
}

// ClearAllUsers deletes the prints of every listed user, continuing past
// individual failures.
func (o *Orchestrator) ClearAllUsers(ctx context.Context) error {
	o.mu.Lock()
	dev := o.device
	usernames := make([]string, 0, len(o.list))
	for _, u := range o.list {
		usernames = append(usernames, u.Username)
	}
	o.mu.Unlock()

	if dev == nil {
		err := domain.NewError(domain.KindDeviceNotFound)
		o.sink.Emit(domain.OperationError{Err: err})
		return err
	}

	err := o.fingers.ClearAllUsers(ctx, dev, usernames)
	se := domain.AsError(err)
	o.sink.Emit(domain.ClearComplete{Usernames: usernames, Err: se})
	_ = o.RefreshFingers(ctx)
	if se == nil {
		return nil
	}
	return se
}

func (o *Orchestrator) target() (ports.Device, domain.User, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	dev, user, err := o.targetLocked()
	return dev, user, err == nil
}

func (o *Orchestrator) targetLocked() (ports.Device, domain.User, *domain.Error) {
	if o.device == nil {
		return nil, domain.User{}, domain.NewError(domain.KindDeviceNotFound)
	}
	if o.selected == nil {
		return nil, domain.User{}, domain.Unknown("no user selected")
	}
	return o.device, *o.selected, nil
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
