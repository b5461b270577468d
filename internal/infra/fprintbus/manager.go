package fprintbus

import (
	"context"
	"io"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/jotuel/cosmic-fprint/internal/ports"
)

const (
	serviceName      = "net.reactivated.Fprint"
	managerPath      = "/net/reactivated/Fprint/Manager"
	managerInterface = "net.reactivated.Fprint.Manager"
	deviceInterface  = "net.reactivated.Fprint.Device"
	propsInterface   = "org.freedesktop.DBus.Properties"

	enrollStatusMember = "EnrollStatus"
)

// Manager talks to the fprint device manager object.
type Manager struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	log  *slog.Logger
}

var _ ports.DeviceManager = (*Manager)(nil)

func NewManager(conn *dbus.Conn, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Manager{
		conn: conn,
		obj:  conn.Object(serviceName, managerPath),
		log:  log,
	}
}

func (m *Manager) GetDefaultDevice(ctx context.Context) (string, error) {
	var path dbus.ObjectPath
	call := m.obj.CallWithContext(ctx, managerInterface+".GetDefaultDevice", 0)
	if err := call.Store(&path); err != nil {
		return "", wrap(err)
	}
	return string(path), nil
}

// GetDevices lists every reader known to the service.
func (m *Manager) GetDevices(ctx context.Context) ([]string, error) {
	var paths []dbus.ObjectPath
	call := m.obj.CallWithContext(ctx, managerInterface+".GetDevices", 0)
	if err := call.Store(&paths); err != nil {
		return nil, wrap(err)
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, string(p))
	}
	return out, nil
}

func (m *Manager) OpenDevice(_ context.Context, path string) (ports.Device, error) {
	p := dbus.ObjectPath(path)
	if !p.IsValid() {
		return nil, wrap(&dbus.Error{
			Name: "org.freedesktop.DBus.Error.InvalidArgs",
			Body: []interface{}{"invalid object path " + path},
		})
	}
	return newDevice(m.conn, p, m.log), nil
}
