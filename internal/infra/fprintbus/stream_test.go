package fprintbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

const testPath = dbus.ObjectPath("/net/reactivated/Fprint/Device/0")

func statusSignal(path dbus.ObjectPath, body ...interface{}) *dbus.Signal {
	return &dbus.Signal{
		Path: path,
		Name: "net.reactivated.Fprint.Device.EnrollStatus",
		Body: body,
	}
}

func TestDecodeStatus(t *testing.T) {
	ev, ok := decodeStatus(testPath, statusSignal(testPath, "enroll-stage-passed", false))
	if !ok || ev.Err != nil {
		t.Fatalf("expected a decoded signal, got %#v", ev)
	}
	if ev.Result != "enroll-stage-passed" || ev.Done {
		t.Fatalf("unexpected signal %#v", ev)
	}
}

func TestDecodeStatusFiltersOtherSources(t *testing.T) {
	if _, ok := decodeStatus(testPath, statusSignal("/net/reactivated/Fprint/Device/1", "enroll-completed", true)); ok {
		t.Fatalf("signal from another device must not match")
	}
	other := statusSignal(testPath, "verify-match", true)
	other.Name = "net.reactivated.Fprint.Device.VerifyStatus"
	if _, ok := decodeStatus(testPath, other); ok {
		t.Fatalf("other members must not match")
	}
	if _, ok := decodeStatus(testPath, nil); ok {
		t.Fatalf("nil signal must not match")
	}
}

func TestDecodeStatusMalformedBody(t *testing.T) {
	ev, ok := decodeStatus(testPath, statusSignal(testPath, int32(3)))
	if !ok {
		t.Fatalf("malformed status from the device still matches")
	}
	if ev.Err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStatusStreamForwardsAndCloses(t *testing.T) {
	in := make(chan *dbus.Signal, 4)
	cleaned := 0
	s := newStatusStream(testPath, in, func() { cleaned++ })

	in <- statusSignal("/elsewhere", "enroll-completed", true)
	in <- statusSignal(testPath, "enroll-completed", true)

	select {
	case ev := <-s.Signals():
		if ev.Result != "enroll-completed" || !ev.Done {
			t.Fatalf("unexpected signal %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for signal")
	}

	_ = s.Close()
	_ = s.Close()
	if cleaned != 1 {
		t.Fatalf("expected cleanup once, got %d", cleaned)
	}

	select {
	case _, ok := <-s.Signals():
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for close")
	}
}

func TestStatusStreamEndsWhenConnectionCloses(t *testing.T) {
	in := make(chan *dbus.Signal)
	s := newStatusStream(testPath, in, nil)
	close(in)

	select {
	case _, ok := <-s.Signals():
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for close")
	}
	_ = s.Close()
}
