package usecase

import (
	"context"
	"testing"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

func newTestOrchestrator(t *testing.T, dev *fakeDevice, opts ...OrchestratorOption) (*Orchestrator, *recordingSink) {
	t.Helper()

	dir := &fakeDirectory{
		paths: []string{"/u/1", "/u/2"},
		users: map[string]domain.User{
			"/u/1": {Username: "alice", DisplayName: "Alice"},
			"/u/2": {Username: "bob", DisplayName: "Bob"},
		},
	}
	sink := &recordingSink{}
	o := NewOrchestrator(
		fakeManager{path: "/net/reactivated/Fprint/Device/0", dev: dev},
		dir,
		fakeLocal{},
		sink,
		opts...,
	)
	if err := o.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	o.RefreshUsers(context.Background())
	return o, sink
}

func TestOrchestrator_PreferredUserIsSelected(t *testing.T) {
	o, sink := newTestOrchestrator(t, newFakeDevice(), WithPreferredUser("bob"))

	sel, ok := o.Selected()
	if !ok || sel.Username != "bob" {
		t.Fatalf("expected bob selected, got %+v", sel)
	}
	found := eventsOf[domain.UsersFound](sink)
	if len(found) != 1 || found[0].Selected == nil || found[0].Selected.Username != "bob" {
		t.Fatalf("unexpected UsersFound %#v", found)
	}
}

func TestOrchestrator_SelectionSurvivesRefresh(t *testing.T) {
	o, _ := newTestOrchestrator(t, newFakeDevice())

	if err := o.SelectUser(context.Background(), "bob"); err != nil {
		t.Fatalf("select: %v", err)
	}
	o.RefreshUsers(context.Background())

	sel, _ := o.Selected()
	if sel.Username != "bob" {
		t.Fatalf("expected bob to stay selected, got %q", sel.Username)
	}
}

func TestOrchestrator_SelectUnknownUser(t *testing.T) {
	o, sink := newTestOrchestrator(t, newFakeDevice())

	if err := o.SelectUser(context.Background(), "mallory"); err == nil {
		t.Fatalf("expected error")
	}
	if len(eventsOf[domain.OperationError](sink)) != 1 {
		t.Fatalf("expected an operation error event")
	}
}

func TestOrchestrator_EnrollRefreshesFingersOnCompletion(t *testing.T) {
	dev := newFakeDevice()
	dev.enrolled["bob"] = []string{"right-index-finger"}
	dev.signals <- sig("enroll-completed", true)

	o, sink := newTestOrchestrator(t, dev, WithPreferredUser("bob"))

	out := o.Enroll(context.Background(), domain.FingerRightIndex)
	if out != domain.OutcomeCompleted {
		t.Fatalf("expected completed, got %s", out)
	}
	if o.Enrolling() {
		t.Fatalf("session must be cleared")
	}

	events := sink.snapshot()
	last, ok := events[len(events)-1].(domain.EnrolledFingers)
	if !ok || last.Username != "bob" || len(last.Fingers) != 1 {
		t.Fatalf("expected EnrolledFingers last, got %#v", events[len(events)-1])
	}
}

func TestOrchestrator_RejectsConcurrentEnroll(t *testing.T) {
	dev := newFakeDevice()
	o, sink := newTestOrchestrator(t, dev)

	var nested domain.EnrollOutcome
	var cancelled bool
	dev.onStart = func() {
		nested = o.Enroll(context.Background(), domain.FingerLeftThumb)
		cancelled = o.CancelEnrollment()
	}

	out := o.Enroll(context.Background(), domain.FingerRightIndex)

	if nested != domain.OutcomeFailed {
		t.Fatalf("expected nested enroll to fail, got %s", nested)
	}
	if !cancelled {
		t.Fatalf("expected CancelEnrollment to find the live session")
	}
	if out != domain.OutcomeCancelled {
		t.Fatalf("expected cancelled, got %s", out)
	}

	errs := eventsOf[domain.OperationError](sink)
	if len(errs) != 1 || errs[0].Err.Kind != domain.KindAlreadyInUse {
		t.Fatalf("unexpected errors %#v", errs)
	}
	if dev.releaseCount() != 1 {
		t.Fatalf("expected 1 release, got %d", dev.releaseCount())
	}
	if o.CancelEnrollment() {
		t.Fatalf("nothing should be running")
	}
}

func TestOrchestrator_EnrollWithoutDevice(t *testing.T) {
	sink := &recordingSink{}
	o := NewOrchestrator(fakeManager{err: domain.NewError(domain.KindDeviceNotFound)}, nil, fakeLocal{user: domain.User{Username: "carol"}}, sink)

	if err := o.Discover(context.Background()); err == nil {
		t.Fatalf("expected discover error")
	}
	o.RefreshUsers(context.Background())

	if out := o.Enroll(context.Background(), domain.FingerRightIndex); out != domain.OutcomeFailed {
		t.Fatalf("expected failed, got %s", out)
	}
	if len(eventsOf[domain.DeviceNotFound](sink)) != 1 {
		t.Fatalf("expected DeviceNotFound event")
	}
	errs := eventsOf[domain.OperationError](sink)
	if len(errs) != 1 || errs[0].Err.Kind != domain.KindDeviceNotFound {
		t.Fatalf("unexpected errors %#v", errs)
	}
}

func TestOrchestrator_DeleteAll(t *testing.T) {
	dev := newFakeDevice()
	dev.enrolled["alice"] = []string{"left-thumb", "left-ring-finger"}
	o, sink := newTestOrchestrator(t, dev, WithPreferredUser("alice"))

	if err := o.Delete(context.Background(), domain.FingerAll); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(dev.wiped) != 1 || dev.wiped[0] != "alice" {
		t.Fatalf("unexpected wipes %v", dev.wiped)
	}

	done := eventsOf[domain.DeleteComplete](sink)
	if len(done) != 1 || done[0].Finger != domain.FingerAll {
		t.Fatalf("unexpected DeleteComplete %#v", done)
	}
	fingers := eventsOf[domain.EnrolledFingers](sink)
	if len(fingers) != 1 || len(fingers[0].Fingers) != 0 {
		t.Fatalf("expected refreshed empty list, got %#v", fingers)
	}
}

func TestOrchestrator_DeleteOne(t *testing.T) {
	dev := newFakeDevice()
	dev.enrolled["alice"] = []string{"left-thumb", "right-thumb"}
	o, sink := newTestOrchestrator(t, dev, WithPreferredUser("alice"))

	if err := o.Delete(context.Background(), domain.FingerLeftThumb); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(dev.deleted) != 1 || dev.deleted[0] != "alice/left-thumb" {
		t.Fatalf("unexpected deletes %v", dev.deleted)
	}
	if dev.releaseCount() != 1 {
		t.Fatalf("expected 1 release, got %d", dev.releaseCount())
	}

	done := eventsOf[domain.DeleteComplete](sink)
	if len(done) != 1 || done[0].Finger != domain.FingerLeftThumb || done[0].Username != "alice" {
		t.Fatalf("unexpected DeleteComplete %#v", done)
	}
	events := sink.snapshot()
	last, ok := events[len(events)-1].(domain.EnrolledFingers)
	if !ok || len(last.Fingers) != 1 || last.Fingers[0] != domain.FingerRightThumb {
		t.Fatalf("expected refreshed list last, got %#v", events[len(events)-1])
	}
}

func TestOrchestrator_SelectUncachedUser(t *testing.T) {
	dev := newFakeDevice()
	dev.enrolled["svc"] = []string{"left-thumb"}
	dir := &fakeDirectory{
		paths:  []string{"/u/1"},
		byName: map[string]string{"svc": "/u/9"},
		users: map[string]domain.User{
			"/u/1": {Username: "alice"},
			"/u/9": {Username: "svc", DisplayName: "Service"},
		},
	}
	sink := &recordingSink{}
	o := NewOrchestrator(fakeManager{path: "/d/0", dev: dev}, dir, fakeLocal{}, sink)
	if err := o.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
	o.RefreshUsers(context.Background())

	if err := o.SelectUser(context.Background(), "svc"); err != nil {
		t.Fatalf("select: %v", err)
	}
	sel, ok := o.Selected()
	if !ok || sel.Username != "svc" {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if _, ok := domain.FindUser(o.Users(), "svc"); !ok {
		t.Fatalf("resolved account must join the user list")
	}
	fingers := eventsOf[domain.EnrolledFingers](sink)
	if len(fingers) != 1 || fingers[0].Username != "svc" || len(fingers[0].Fingers) != 1 {
		t.Fatalf("unexpected EnrolledFingers %#v", fingers)
	}
}

func TestOrchestrator_DeleteFailureIsReported(t *testing.T) {
	dev := newFakeDevice()
	dev.deleteErr["left-thumb"] = domain.NewError(domain.KindPermissionDenied)
	o, sink := newTestOrchestrator(t, dev)

	err := o.Delete(context.Background(), domain.FingerLeftThumb)
	if !domain.IsKind(err, domain.KindPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if len(eventsOf[domain.DeleteComplete](sink)) != 0 {
		t.Fatalf("no DeleteComplete on failure")
	}
}

func TestOrchestrator_ClearAllUsers(t *testing.T) {
	dev := newFakeDevice()
	dev.claimErr["alice"] = domain.NewError(domain.KindClaimDevice)
	dev.enrolled["bob"] = []string{"right-thumb"}
	o, sink := newTestOrchestrator(t, dev)

	err := o.ClearAllUsers(context.Background())
	if !domain.IsKind(err, domain.KindClaimDevice) {
		t.Fatalf("expected claim error, got %v", err)
	}

	done := eventsOf[domain.ClearComplete](sink)
	if len(done) != 1 || done[0].Err == nil || len(done[0].Usernames) != 2 {
		t.Fatalf("unexpected ClearComplete %#v", done)
	}
	if len(dev.enrolled["bob"]) != 0 {
		t.Fatalf("expected bob cleared")
	}
}

func TestOrchestrator_DescribeDevice(t *testing.T) {
	dev := newFakeDevice()
	dev.stages = 0
	o, _ := newTestOrchestrator(t, dev)

	info, err := o.DescribeDevice(context.Background())
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if info.Path != "/net/reactivated/Fprint/Device/0" || info.ScanType != "press" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.StageCount != nil {
		t.Fatalf("zero stages must be reported as unknown")
	}
}

func TestOrchestrator_PreferredUserOutsideCachedList(t *testing.T) {
	dir := &fakeDirectory{
		paths:  []string{"/u/1"},
		byName: map[string]string{"svc": "/u/9"},
		users: map[string]domain.User{
			"/u/1": {Username: "alice"},
			"/u/9": {Username: "svc", DisplayName: "Service"},
		},
	}
	o := NewOrchestrator(fakeManager{path: "/d/0", dev: newFakeDevice()}, dir, fakeLocal{}, nil, WithPreferredUser("svc"))

	users := o.RefreshUsers(context.Background())
	if len(users) != 2 {
		t.Fatalf("expected the preferred account to be added, got %v", users)
	}
	sel, ok := o.Selected()
	if !ok || sel.Username != "svc" || sel.DisplayName != "Service" {
		t.Fatalf("unexpected selection %+v", sel)
	}
}

func TestOrchestrator_UnknownPreferredUserFallsBackToFirst(t *testing.T) {
	o, _ := newTestOrchestrator(t, newFakeDevice(), WithPreferredUser("ghost"))

	if len(o.Users()) != 2 {
		t.Fatalf("unresolvable preferred user must not be added")
	}
	if _, ok := o.Selected(); !ok {
		t.Fatalf("expected a default selection")
	}
}
