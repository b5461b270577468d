package accountsbus

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

const (
	serviceName    = "org.freedesktop.Accounts"
	rootPath       = "/org/freedesktop/Accounts"
	rootInterface  = "org.freedesktop.Accounts"
	userInterface  = "org.freedesktop.Accounts.User"
	propsInterface = "org.freedesktop.DBus.Properties"
)

// Directory reads accounts from the account service.
type Directory struct {
	conn *dbus.Conn
}

var _ ports.AccountDirectory = (*Directory)(nil)

func NewDirectory(conn *dbus.Conn) *Directory {
	return &Directory{conn: conn}
}

func (d *Directory) ListCachedUsers(ctx context.Context) ([]string, error) {
	var paths []dbus.ObjectPath
	call := d.conn.Object(serviceName, rootPath).CallWithContext(ctx, rootInterface+".ListCachedUsers", 0)
	if err := call.Store(&paths); err != nil {
		return nil, fmt.Errorf("list cached users: %w", err)
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, string(p))
	}
	return out, nil
}

// FindUserByName resolves a username to its account object path.
func (d *Directory) FindUserByName(ctx context.Context, name string) (string, error) {
	var path dbus.ObjectPath
	call := d.conn.Object(serviceName, rootPath).CallWithContext(ctx, rootInterface+".FindUserByName", 0, name)
	if err := call.Store(&path); err != nil {
		return "", fmt.Errorf("find user %s: %w", name, err)
	}
	return string(path), nil
}

func (d *Directory) LookupAccount(ctx context.Context, path string) (domain.User, error) {
	p := dbus.ObjectPath(path)
	if !p.IsValid() {
		return domain.User{}, fmt.Errorf("invalid account path %q", path)
	}

	var props map[string]dbus.Variant
	call := d.conn.Object(serviceName, p).CallWithContext(ctx, propsInterface+".GetAll", 0, userInterface)
	if err := call.Store(&props); err != nil {
		return domain.User{}, fmt.Errorf("read account %s: %w", path, err)
	}
	return userFromProps(path, props)
}

// userFromProps builds a User from UserName and RealName.
// A missing or empty UserName is an error; RealName is optional.
func userFromProps(path string, props map[string]dbus.Variant) (domain.User, error) {
	name, _ := stringProp(props, "UserName")
	if strings.TrimSpace(name) == "" {
		return domain.User{}, fmt.Errorf("account %s has no user name", path)
	}
	realName, _ := stringProp(props, "RealName")
	return domain.User{Username: name, DisplayName: strings.TrimSpace(realName)}, nil
}

func stringProp(props map[string]dbus.Variant, key string) (string, bool) {
	v, ok := props[key]
	if !ok {
		return "", false
	}
	s, ok := v.Value().(string)
	return s, ok
}
