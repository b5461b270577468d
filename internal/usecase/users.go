package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

type ResolveUsers struct {
	directory ports.AccountDirectory
	local     ports.LocalUserLookup
	limit     int
	log       *slog.Logger
}

type ResolveUsersOption func(*ResolveUsers)

// WithLookupLimit bounds the number of in-flight account lookups.
func WithLookupLimit(n int) ResolveUsersOption {
	return func(uc *ResolveUsers) {
		if n > 0 {
			uc.limit = n
		}
	}
}

func NewResolveUsers(dir ports.AccountDirectory, local ports.LocalUserLookup, log *slog.Logger, opts ...ResolveUsersOption) *ResolveUsers {
	uc := &ResolveUsers{
		directory: dir,
		local:     local,
		limit:     domain.DefaultLookupConcurrency,
		log:       orDiscard(log),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute lists system accounts. Accounts whose lookup fails are dropped.
// When nothing is left the invoking OS user is returned instead.
// The order of the result is not stable.
func (uc *ResolveUsers) Execute(ctx context.Context) []domain.User {
	var users []domain.User

	if uc.directory != nil {
		paths, err := uc.directory.ListCachedUsers(ctx)
		if err != nil {
			uc.log.Warn("users.list_cached.failed", "err", err)
		} else {
			users = uc.lookupAll(ctx, paths)
		}
	}

	if len(users) > 0 {
		uc.log.Debug("users.resolved", "count", len(users))
		return users
	}

	return uc.fallback()
}

func (uc *ResolveUsers) lookupAll(ctx context.Context, paths []string) []domain.User {
	var (
		mu  sync.Mutex
		out = make([]domain.User, 0, len(paths))
	)

	var g errgroup.Group
	g.SetLimit(uc.limit)

	for _, p := range paths {
		p := p
		g.Go(func() error {
			u, err := uc.directory.LookupAccount(ctx, p)
			if err != nil {
				uc.log.Debug("users.lookup.failed", "path", p, "err", err)
				return nil
			}
			if strings.TrimSpace(u.Username) == "" {
				return nil
			}

			mu.Lock()
			out = append(out, u)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return out
}

// Find resolves one account by name, including accounts the service has not
// cached.
func (uc *ResolveUsers) Find(ctx context.Context, username string) (domain.User, error) {
	if uc.directory == nil {
		return domain.User{}, domain.Unknown("accounts service unavailable")
	}
	path, err := uc.directory.FindUserByName(ctx, username)
	if err != nil {
		uc.log.Debug("users.find.failed", "user", username, "err", err)
		return domain.User{}, err
	}
	return uc.directory.LookupAccount(ctx, path)
}

func (uc *ResolveUsers) fallback() []domain.User {
	if uc.local == nil {
		return []domain.User{}
	}
	u, err := uc.local.CurrentUser()
	if err != nil || strings.TrimSpace(u.Username) == "" {
		uc.log.Warn("users.fallback.failed", "err", err)
		return []domain.User{}
	}
	uc.log.Info("users.fallback", "user", u.Username)
	return []domain.User{u}
}
