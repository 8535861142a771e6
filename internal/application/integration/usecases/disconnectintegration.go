package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/domain/integration"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

type DisconnectIntegrationCommand struct {
	UserID        uint
	IntegrationID string
}

type DisconnectIntegrationUseCase struct {
	integrationRepo integration.IntegrationRepository
	logger          logger.Interface
}

func NewDisconnectIntegrationUseCase(
	integrationRepo integration.IntegrationRepository,
	logger logger.Interface,
) *DisconnectIntegrationUseCase {
	return &DisconnectIntegrationUseCase{
		integrationRepo: integrationRepo,
		logger:          logger,
	}
}

func (uc *DisconnectIntegrationUseCase) Execute(ctx context.Context, cmd DisconnectIntegrationCommand) error {
	itg, err := uc.integrationRepo.GetBySID(ctx, cmd.IntegrationID)
	if err != nil {
		return err
	}

	deleted, err := uc.integrationRepo.DeleteByIDAndUser(ctx, itg.ID(), cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to delete integration", "error", err, "integration_id", cmd.IntegrationID)
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	if !deleted {
		// row belongs to another user; do not leak its existence
		return apperrors.NewNotFoundError("integration not found")
	}

	uc.logger.Infow("integration disconnected", "integration_id", cmd.IntegrationID, "user_id", cmd.UserID)
	return nil
}
