package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/integration/dto"
	"poolhub/internal/domain/integration"
	"poolhub/internal/shared/logger"
)

type ListIntegrationsUseCase struct {
	integrationRepo integration.IntegrationRepository
	logger          logger.Interface
}

func NewListIntegrationsUseCase(
	integrationRepo integration.IntegrationRepository,
	logger logger.Interface,
) *ListIntegrationsUseCase {
	return &ListIntegrationsUseCase{
		integrationRepo: integrationRepo,
		logger:          logger,
	}
}

func (uc *ListIntegrationsUseCase) Execute(ctx context.Context, userID uint) ([]*dto.IntegrationDTO, error) {
	items, err := uc.integrationRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list integrations", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return dto.ToIntegrationDTOList(items), nil
}
