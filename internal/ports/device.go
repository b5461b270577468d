package ports

import (
	"context"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

// DeviceManager resolves fingerprint devices.
type DeviceManager interface {
	GetDefaultDevice(ctx context.Context) (path string, err error)
	GetDevices(ctx context.Context) ([]string, error)
	OpenDevice(ctx context.Context, path string) (Device, error)
}

// Device is the capability set of one fingerprint reader.
// Adapters return *domain.Error values for remote failures.
type Device interface {
	Claim(ctx context.Context, username string) error
	Release(ctx context.Context) error

	ListEnrolledFingers(ctx context.Context, username string) ([]string, error)
	DeleteEnrolledFinger(ctx context.Context, finger string) error
	DeleteEnrolledFingers(ctx context.Context, username string) error

	EnrollStart(ctx context.Context, finger string) error
	EnrollStop(ctx context.Context) error
	NumEnrollStages(ctx context.Context) (int32, error)
	ScanType(ctx context.Context) (string, error)

	// SubscribeEnrollStatus starts delivering EnrollStatus signals.
	SubscribeEnrollStatus(ctx context.Context) (StatusStream, error)
}

// StatusStream is a lazy sequence of enroll status signals.
// Signals is closed when the remote side goes away or after Close.
type StatusStream interface {
	Signals() <-chan domain.EnrollSignal
	Close() error
}
