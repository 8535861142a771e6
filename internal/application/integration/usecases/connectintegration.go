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

type ConnectIntegrationCommand struct {
	UserID   uint
	Provider string
	Payload  map[string]interface{}
	// Callback marks the second leg of a two-step provider handshake.
	Callback bool
}

type ConnectIntegrationUseCase struct {
	integrationRepo integration.IntegrationRepository
	registry        *adapters.Registry
	disabled        map[vo.Provider]bool
	logger          logger.Interface
}

func NewConnectIntegrationUseCase(
	integrationRepo integration.IntegrationRepository,
	registry *adapters.Registry,
	disabled map[vo.Provider]bool,
	logger logger.Interface,
) *ConnectIntegrationUseCase {
	return &ConnectIntegrationUseCase{
		integrationRepo: integrationRepo,
		registry:        registry,
		disabled:        disabled,
		logger:          logger,
	}
}

func (uc *ConnectIntegrationUseCase) Execute(ctx context.Context, cmd ConnectIntegrationCommand) (*dto.IntegrationDTO, error) {
	provider := vo.Provider(cmd.Provider)
	if err := checkProviderUsable(provider, uc.disabled); err != nil {
		return nil, err
	}

	existing, err := uc.integrationRepo.GetByUserAndProvider(ctx, cmd.UserID, provider)
	if err != nil {
		uc.logger.Errorw("failed to load integration", "error", err, "user_id", cmd.UserID, "provider", provider)
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}

	var existingCreds vo.Credentials
	if existing != nil {
		existingCreds = existing.Credentials()
	}

	adapter := uc.registry.ForProvider(provider)
	var result *adapters.ConnectResult
	if cmd.Callback {
		result, err = adapter.Callback(ctx, cmd.UserID, cmd.Payload, existingCreds)
	} else {
		result, err = adapter.Connect(ctx, cmd.UserID, cmd.Payload, existingCreds)
	}
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.ApplyConnectResult(result.ExternalAccountID, result.Scopes, result.Credentials)
		if err := uc.integrationRepo.Update(ctx, existing); err != nil {
			uc.logger.Errorw("failed to update integration", "error", err, "integration_id", existing.ID())
			return nil, fmt.Errorf("failed to update integration: %w", err)
		}
		uc.logger.Infow("integration reconnected", "integration_id", existing.SID(), "provider", provider, "user_id", cmd.UserID)
		return dto.ToIntegrationDTO(existing), nil
	}

	itg, err := integration.NewIntegration(cmd.UserID, provider)
	if err != nil {
		return nil, err
	}
	itg.ApplyConnectResult(result.ExternalAccountID, result.Scopes, result.Credentials)

	if err := uc.integrationRepo.Create(ctx, itg); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("integration already exists for this provider")
		}
		uc.logger.Errorw("failed to create integration", "error", err, "user_id", cmd.UserID, "provider", provider)
		return nil, fmt.Errorf("failed to create integration: %w", err)
	}

	uc.logger.Infow("integration connected", "integration_id", itg.SID(), "provider", provider, "user_id", cmd.UserID)
	return dto.ToIntegrationDTO(itg), nil
}

// checkProviderUsable enforces the availability catalog plus the runtime
// disable switch. Removed providers answer with a terminal error so callers
// stop retrying.
func checkProviderUsable(provider vo.Provider, disabled map[vo.Provider]bool) error {
	if provider.IsRemoved() {
		return apperrors.NewProviderRemovedError(provider.String())
	}
	if !provider.IsKnown() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown provider: %s", provider))
	}
	if disabled[provider] {
		return apperrors.NewProviderDisabledError(provider.String())
	}
	return nil
}
