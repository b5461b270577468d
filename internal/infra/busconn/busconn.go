package busconn

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

type dialer func(opts ...dbus.ConnOption) (*dbus.Conn, error)

var dialers = map[domain.BusKind]dialer{
	domain.BusSystem:  dbus.ConnectSystemBus,
	domain.BusSession: dbus.ConnectSessionBus,
}

// Connect opens a private connection to the selected bus.
// Failures are reported as a ConnectDbus error carrying the transport text.
func Connect(kind domain.BusKind) (*dbus.Conn, error) {
	return connect(kind, dialers)
}

func connect(kind domain.BusKind, table map[domain.BusKind]dialer) (*dbus.Conn, error) {
	if kind == "" {
		kind = domain.BusSystem
	}
	dial, ok := table[kind]
	if !ok {
		return nil, domain.ConnectDbus(fmt.Sprintf("unsupported bus %q", kind))
	}

	conn, err := dial()
	if err != nil {
		return nil, domain.ConnectDbus(err.Error())
	}
	return conn, nil
}
