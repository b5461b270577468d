package fprintbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// Device is a proxy for one fprint device object.
type Device struct {
	conn *dbus.Conn
	path dbus.ObjectPath
	obj  dbus.BusObject
	log  *slog.Logger
}

var _ ports.Device = (*Device)(nil)

func newDevice(conn *dbus.Conn, path dbus.ObjectPath, log *slog.Logger) *Device {
	return &Device{
		conn: conn,
		path: path,
		obj:  conn.Object(serviceName, path),
		log:  log.With("device", string(path)),
	}
}

func (d *Device) call(ctx context.Context, method string, args ...interface{}) *dbus.Call {
	return d.obj.CallWithContext(ctx, deviceInterface+"."+method, 0, args...)
}

func (d *Device) Claim(ctx context.Context, username string) error {
	return wrap(d.call(ctx, "Claim", username).Err)
}

func (d *Device) Release(ctx context.Context) error {
	return wrap(d.call(ctx, "Release").Err)
}

func (d *Device) ListEnrolledFingers(ctx context.Context, username string) ([]string, error) {
	var names []string
	if err := d.call(ctx, "ListEnrolledFingers", username).Store(&names); err != nil {
		return nil, wrap(err)
	}
	return names, nil
}

func (d *Device) DeleteEnrolledFinger(ctx context.Context, finger string) error {
	return wrap(d.call(ctx, "DeleteEnrolledFinger", finger).Err)
}

func (d *Device) DeleteEnrolledFingers(ctx context.Context, username string) error {
	return wrap(d.call(ctx, "DeleteEnrolledFingers", username).Err)
}

func (d *Device) EnrollStart(ctx context.Context, finger string) error {
	return wrap(d.call(ctx, "EnrollStart", finger).Err)
}

func (d *Device) EnrollStop(ctx context.Context) error {
	return wrap(d.call(ctx, "EnrollStop").Err)
}

func (d *Device) NumEnrollStages(ctx context.Context) (int32, error) {
	v, err := d.property(ctx, "num-enroll-stages")
	if err != nil {
		return 0, err
	}
	n, ok := v.Value().(int32)
	if !ok {
		return 0, wrap(fmt.Errorf("num-enroll-stages: unexpected type %s", v.Signature()))
	}
	return n, nil
}

// ScanType returns "press" or "swipe".
func (d *Device) ScanType(ctx context.Context) (string, error) {
	v, err := d.property(ctx, "scan-type")
	if err != nil {
		return "", err
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", wrap(fmt.Errorf("scan-type: unexpected type %s", v.Signature()))
	}
	return s, nil
}

func (d *Device) property(ctx context.Context, name string) (dbus.Variant, error) {
	var v dbus.Variant
	call := d.obj.CallWithContext(ctx, propsInterface+".Get", 0, deviceInterface, name)
	if err := call.Store(&v); err != nil {
		return dbus.Variant{}, wrap(err)
	}
	return v, nil
}

func (d *Device) SubscribeEnrollStatus(ctx context.Context) (ports.StatusStream, error) {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(d.path),
		dbus.WithMatchInterface(deviceInterface),
		dbus.WithMatchMember(enrollStatusMember),
	}
	if err := d.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return nil, wrap(err)
	}

	in := make(chan *dbus.Signal, 16)
	d.conn.Signal(in)

	s := newStatusStream(d.path, in, func() {
		d.conn.RemoveSignal(in)
		if err := d.conn.RemoveMatchSignalContext(context.Background(), opts...); err != nil {
			d.log.Debug("enroll.match.remove_failed", "err", err)
		}
	})
	return s, nil
}
