package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/application/integration/dto"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

type DiscoverDevicesCommand struct {
	UserID        uint
	IntegrationID string
	Payload       map[string]interface{}
}

type DiscoverDevicesUseCase struct {
	integrationRepo integration.IntegrationRepository
	deviceRepo      integration.DeviceRepository
	registry        *adapters.Registry
	disabled        map[vo.Provider]bool
	logger          logger.Interface
}

func NewDiscoverDevicesUseCase(
	integrationRepo integration.IntegrationRepository,
	deviceRepo integration.DeviceRepository,
	registry *adapters.Registry,
	disabled map[vo.Provider]bool,
	logger logger.Interface,
) *DiscoverDevicesUseCase {
	return &DiscoverDevicesUseCase{
		integrationRepo: integrationRepo,
		deviceRepo:      deviceRepo,
		registry:        registry,
		disabled:        disabled,
		logger:          logger,
	}
}

// Execute runs provider discovery and reconciles the result into the device
// registry. Discovery is an upsert: known devices refresh their descriptive
// fields, new ones are created as discovered. Pool links survive refreshes.
func (uc *DiscoverDevicesUseCase) Execute(ctx context.Context, cmd DiscoverDevicesCommand) ([]*dto.DeviceDTO, error) {
	itg, err := uc.integrationRepo.GetBySID(ctx, cmd.IntegrationID)
	if err != nil {
		return nil, err
	}
	if itg.UserID() != cmd.UserID {
		return nil, apperrors.NewNotFoundError("integration not found")
	}
	if err := checkProviderUsable(itg.Provider(), uc.disabled); err != nil {
		return nil, err
	}

	adapter := uc.registry.ForProvider(itg.Provider())
	discovered, err := adapter.DiscoverDevices(ctx, cmd.Payload, itg.Credentials())
	if err != nil {
		uc.logger.Errorw("device discovery failed", "error", err, "integration_id", cmd.IntegrationID)
		return nil, err
	}

	for _, d := range discovered {
		if err := uc.upsertDevice(ctx, itg.ID(), d); err != nil {
			return nil, err
		}
	}

	devices, err := uc.deviceRepo.ListByIntegration(ctx, itg.ID())
	if err != nil {
		uc.logger.Errorw("failed to list devices", "error", err, "integration_id", cmd.IntegrationID)
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	uc.logger.Infow("device discovery completed",
		"integration_id", cmd.IntegrationID,
		"discovered", len(discovered),
		"total", len(devices),
	)
	return dto.ToDeviceDTOList(devices), nil
}

func (uc *DiscoverDevicesUseCase) upsertDevice(ctx context.Context, integrationID uint, d adapters.DiscoveredDevice) error {
	existing, err := uc.deviceRepo.GetByIntegrationAndProviderDeviceID(ctx, integrationID, d.ProviderDeviceID)
	if err != nil {
		return fmt.Errorf("failed to look up device: %w", err)
	}

	if existing != nil {
		existing.Refresh(d.DeviceType, d.Label, d.Metadata)
		if err := uc.deviceRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to refresh device: %w", err)
		}
		return nil
	}

	device, err := integration.NewDevice(integrationID, d.ProviderDeviceID, d.DeviceType, d.Label, d.Metadata)
	if err != nil {
		return err
	}
	if err := uc.deviceRepo.Create(ctx, device); err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}
