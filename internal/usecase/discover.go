package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

type DiscoverDevice struct {
	manager ports.DeviceManager
	log     *slog.Logger
}

func NewDiscoverDevice(manager ports.DeviceManager, log *slog.Logger) *DiscoverDevice {
	return &DiscoverDevice{manager: manager, log: orDiscard(log)}
}

// Execute resolves the default device and opens a proxy for it.
// Every failure is reported as DeviceNotFound: "no reader" is the common case.
func (uc *DiscoverDevice) Execute(ctx context.Context) (domain.DeviceRef, ports.Device, error) {
	if uc.manager == nil {
		return domain.DeviceRef{}, nil, domain.NewError(domain.KindDeviceNotFound)
	}

	path, err := uc.manager.GetDefaultDevice(ctx)
	if err != nil {
		uc.log.Info("discover.default_device.failed", "err", err)
		return domain.DeviceRef{}, nil, domain.NewError(domain.KindDeviceNotFound)
	}
	if strings.TrimSpace(path) == "" {
		uc.log.Info("discover.default_device.empty")
		return domain.DeviceRef{}, nil, domain.NewError(domain.KindDeviceNotFound)
	}

	dev, err := uc.manager.OpenDevice(ctx, path)
	if err != nil || dev == nil {
		uc.log.Warn("discover.open_device.failed", "path", path, "err", err)
		return domain.DeviceRef{}, nil, domain.NewError(domain.KindDeviceNotFound)
	}

	uc.log.Info("discover.ok", "path", path)
	return domain.DeviceRef{Path: path}, dev, nil
}
