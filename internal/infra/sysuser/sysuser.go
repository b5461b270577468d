package sysuser

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// Lookup resolves the account running this process from the local user database.
type Lookup struct {
	current func() (*user.User, error)
}

var _ ports.LocalUserLookup = (*Lookup)(nil)

func New() *Lookup {
	return &Lookup{current: user.Current}
}

func (l *Lookup) CurrentUser() (domain.User, error) {
	u, err := l.current()
	if err != nil {
		return domain.User{}, fmt.Errorf("current user: %w", err)
	}
	return fromOS(u), nil
}

// fromOS keeps the first comma-separated field of the GECOS name.
func fromOS(u *user.User) domain.User {
	name := u.Name
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return domain.User{
		Username:    u.Username,
		DisplayName: strings.TrimSpace(name),
	}
}
