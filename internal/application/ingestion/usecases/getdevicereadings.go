package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/ingestion/dto"
	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

type GetDeviceReadingsCommand struct {
	UserID        uint
	IntegrationID string
	DeviceID      string
	Limit         int
}

type GetDeviceReadingsUseCase struct {
	integrationRepo integration.IntegrationRepository
	deviceRepo      integration.DeviceRepository
	readingRepo     ingestion.SensorReadingRepository
	logger          logger.Interface
}

func NewGetDeviceReadingsUseCase(
	integrationRepo integration.IntegrationRepository,
	deviceRepo integration.DeviceRepository,
	readingRepo ingestion.SensorReadingRepository,
	logger logger.Interface,
) *GetDeviceReadingsUseCase {
	return &GetDeviceReadingsUseCase{
		integrationRepo: integrationRepo,
		deviceRepo:      deviceRepo,
		readingRepo:     readingRepo,
		logger:          logger,
	}
}

func (uc *GetDeviceReadingsUseCase) Execute(ctx context.Context, cmd GetDeviceReadingsCommand) ([]*dto.ReadingDTO, error) {
	itg, err := uc.integrationRepo.GetBySID(ctx, cmd.IntegrationID)
	if err != nil {
		return nil, err
	}
	if itg.UserID() != cmd.UserID {
		return nil, apperrors.NewNotFoundError("integration not found")
	}

	device, err := uc.deviceRepo.GetBySID(ctx, cmd.DeviceID)
	if err != nil {
		return nil, err
	}
	if device.IntegrationID() != itg.ID() {
		return nil, apperrors.NewNotFoundError("device not found")
	}

	limit := cmd.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	readings, err := uc.readingRepo.ListByDevice(ctx, device.ID(), limit)
	if err != nil {
		uc.logger.Errorw("failed to list readings", "error", err, "device_id", cmd.DeviceID)
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return dto.ToReadingDTOList(readings), nil
}
