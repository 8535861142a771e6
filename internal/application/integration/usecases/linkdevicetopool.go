package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/integration/dto"
	"poolhub/internal/domain/integration"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

// PoolAccessChecker answers whether a user may attach devices to a pool.
// Implementations distinguish a missing pool from one owned by someone else.
type PoolAccessChecker interface {
	CheckAccess(ctx context.Context, userID, poolID uint) error
}

type LinkDeviceToPoolCommand struct {
	UserID        uint
	IntegrationID string
	DeviceID      string
	PoolID        uint
}

type LinkDeviceToPoolUseCase struct {
	integrationRepo integration.IntegrationRepository
	deviceRepo      integration.DeviceRepository
	poolAccess      PoolAccessChecker
	logger          logger.Interface
}

func NewLinkDeviceToPoolUseCase(
	integrationRepo integration.IntegrationRepository,
	deviceRepo integration.DeviceRepository,
	poolAccess PoolAccessChecker,
	logger logger.Interface,
) *LinkDeviceToPoolUseCase {
	return &LinkDeviceToPoolUseCase{
		integrationRepo: integrationRepo,
		deviceRepo:      deviceRepo,
		poolAccess:      poolAccess,
		logger:          logger,
	}
}

func (uc *LinkDeviceToPoolUseCase) Execute(ctx context.Context, cmd LinkDeviceToPoolCommand) (*dto.DeviceDTO, error) {
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

	if err := uc.poolAccess.CheckAccess(ctx, cmd.UserID, cmd.PoolID); err != nil {
		return nil, err
	}

	if err := device.LinkToPool(cmd.PoolID); err != nil {
		return nil, err
	}
	if err := uc.deviceRepo.Update(ctx, device); err != nil {
		uc.logger.Errorw("failed to link device", "error", err, "device_id", cmd.DeviceID, "pool_id", cmd.PoolID)
		return nil, fmt.Errorf("failed to link device: %w", err)
	}

	uc.logger.Infow("device linked to pool", "device_id", cmd.DeviceID, "pool_id", cmd.PoolID, "user_id", cmd.UserID)
	return dto.ToDeviceDTO(device), nil
}
