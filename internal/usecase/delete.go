package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// ManageFingers lists and deletes enrolled prints.
type ManageFingers struct {
	guard *ClaimGuard
	log   *slog.Logger
}

func NewManageFingers(guard *ClaimGuard, log *slog.Logger) *ManageFingers {
	log = orDiscard(log)
	if guard == nil {
		guard = NewClaimGuard(log)
	}
	return &ManageFingers{guard: guard, log: log}
}

// List returns the catalog fingers enrolled for username.
// A user without prints yields an empty list, not an error.
func (uc *ManageFingers) List(ctx context.Context, dev ports.Device, username string) ([]domain.Finger, error) {
	names, err := dev.ListEnrolledFingers(ctx, username)
	if err != nil {
		if domain.IsKind(err, domain.KindNoEnrolledPrints) {
			return []domain.Finger{}, nil
		}
		return nil, err
	}
	return domain.FingersFromNames(names), nil
}

// DeleteOne removes a single finger for username.
func (uc *ManageFingers) DeleteOne(ctx context.Context, dev ports.Device, username string, finger domain.Finger) error {
	if !finger.IsEnrollable() {
		return domain.Unknown(fmt.Sprintf("cannot delete %q as a single finger", finger))
	}
	err := uc.guard.Run(ctx, dev, username, func(ctx context.Context) error {
		return dev.DeleteEnrolledFinger(ctx, string(finger))
	})
	if err != nil {
		uc.log.Warn("delete.one.failed", "user", username, "finger", string(finger), "err", err)
		return err
	}
	uc.log.Info("delete.one.ok", "user", username, "finger", string(finger))
	return nil
}

// DeleteAllForUser removes every finger enrolled for username.
func (uc *ManageFingers) DeleteAllForUser(ctx context.Context, dev ports.Device, username string) error {
	err := uc.guard.Run(ctx, dev, username, func(ctx context.Context) error {
		return dev.DeleteEnrolledFingers(ctx, username)
	})
	if err != nil {
		uc.log.Warn("delete.user.failed", "user", username, "err", err)
		return err
	}
	uc.log.Info("delete.user.ok", "user", username)
	return nil
}

// ClearAllUsers deletes every enrolled finger of every listed user.
//
// Failures do not stop the batch: a user whose claim fails is skipped, a
// finger that cannot be deleted is skipped. The last recorded failure is
// returned, not an aggregate.
func (uc *ManageFingers) ClearAllUsers(ctx context.Context, dev ports.Device, usernames []string) error {
	var last error
	record := func(err error, args ...any) {
		uc.log.Warn("clear.failed", append(args, "err", err)...)
		last = err
	}

	for _, username := range usernames {
		if err := dev.Claim(ctx, username); err != nil {
			record(err, "user", username, "step", "claim")
			continue
		}

		fingers, err := uc.List(ctx, dev, username)
		if err != nil {
			record(err, "user", username, "step", "list")
		}
		for _, f := range fingers {
			if err := dev.DeleteEnrolledFinger(ctx, string(f)); err != nil {
				record(err, "user", username, "step", "delete", "finger", string(f))
			}
		}

		if err := dev.Release(context.WithoutCancel(ctx)); err != nil {
			record(err, "user", username, "step", "release")
		}
		uc.log.Info("clear.user.done", "user", username, "fingers", len(fingers))
	}

	if last == nil {
		return nil
	}
	return domain.AsError(last)
}
