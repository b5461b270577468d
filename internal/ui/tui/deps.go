package tui

import (
	"context"
	"log/slog"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

// Orchestrator is the request surface the UI drives. Results arrive as
// events on Deps.Events.
type Orchestrator interface {
	Discover(ctx context.Context) error
	RefreshUsers(ctx context.Context) []domain.User
	SelectUser(ctx context.Context, username string) error
	RefreshFingers(ctx context.Context) error
	Enroll(ctx context.Context, finger domain.Finger) domain.EnrollOutcome
	CancelEnrollment() bool
	Delete(ctx context.Context, finger domain.Finger) error
	ClearAllUsers(ctx context.Context) error
}

type Deps struct {
	Orchestrator Orchestrator
	Events       *EventSink

	Logger *slog.Logger
	Debug  bool
}
