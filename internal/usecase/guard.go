package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// ClaimGuard scopes device operations to an exclusive claim.
type ClaimGuard struct {
	log *slog.Logger
}

func NewClaimGuard(log *slog.Logger) *ClaimGuard {
	return &ClaimGuard{log: orDiscard(log)}
}

// Run claims dev for username, runs body, and releases exactly once.
//
// A claim failure is returned as-is and body never runs. Release happens on
// every exit path, including panics and a cancelled ctx. A body error always
// wins over a release error; the release error is then only logged.
func (g *ClaimGuard) Run(ctx context.Context, dev ports.Device, username string, body func(ctx context.Context) error) (err error) {
	if cerr := dev.Claim(ctx, username); cerr != nil {
		g.log.Warn("guard.claim.failed", "user", username, "err", cerr)
		return cerr
	}

	defer func() {
		rerr := dev.Release(context.WithoutCancel(ctx))
		if rerr == nil {
			return
		}
		if err != nil {
			g.log.Warn("guard.release.failed", "user", username, "err", rerr, "body_err", err)
			return
		}
		g.log.Warn("guard.release.failed", "user", username, "err", rerr)
		err = rerr
	}()

	return body(ctx)
}

// WithClaimValue is Run for bodies that produce a value.
func WithClaimValue[T any](ctx context.Context, g *ClaimGuard, dev ports.Device, username string, body func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.Run(ctx, dev, username, func(ctx context.Context) error {
		v, err := body(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return log
}
