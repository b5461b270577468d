package ports

import (
	"context"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

// AccountDirectory lists system accounts known to the accounts service.
type AccountDirectory interface {
	ListCachedUsers(ctx context.Context) ([]string, error)
	LookupAccount(ctx context.Context, path string) (domain.User, error)
	// FindUserByName resolves accounts that are not in the cached list.
	FindUserByName(ctx context.Context, name string) (path string, err error)
}

// LocalUserLookup returns the account running this process.
type LocalUserLookup interface {
	CurrentUser() (domain.User, error)
}
