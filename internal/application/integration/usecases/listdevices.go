package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/integration/dto"
	"poolhub/internal/domain/integration"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

type ListDevicesCommand struct {
	UserID        uint
	IntegrationID string
}

type ListDevicesUseCase struct {
	integrationRepo integration.IntegrationRepository
	deviceRepo      integration.DeviceRepository
	logger          logger.Interface
}

func NewListDevicesUseCase(
	integrationRepo integration.IntegrationRepository,
	deviceRepo integration.DeviceRepository,
	logger logger.Interface,
) *ListDevicesUseCase {
	return &ListDevicesUseCase{
		integrationRepo: integrationRepo,
		deviceRepo:      deviceRepo,
		logger:          logger,
	}
}

func (uc *ListDevicesUseCase) Execute(ctx context.Context, cmd ListDevicesCommand) ([]*dto.DeviceDTO, error) {
	itg, err := uc.integrationRepo.GetBySID(ctx, cmd.IntegrationID)
	if err != nil {
		return nil, err
	}
	if itg.UserID() != cmd.UserID {
		return nil, apperrors.NewNotFoundError("integration not found")
	}

	devices, err := uc.deviceRepo.ListByIntegration(ctx, itg.ID())
	if err != nil {
		uc.logger.Errorw("failed to list devices", "error", err, "integration_id", cmd.IntegrationID)
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return dto.ToDeviceDTOList(devices), nil
}
