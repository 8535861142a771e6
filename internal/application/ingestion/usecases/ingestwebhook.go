package usecases

import (
	"context"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

type IngestWebhookCommand struct {
	Provider string
	Headers  map[string]string
	Payload  []byte
}

// IngestWebhookResult mirrors the webhook response contract: a delivery is
// either accepted and counted, or parked on the retry queue with its
// failure ID so the sweep can pick it up.
type IngestWebhookResult struct {
	Accepted       bool   `json:"accepted"`
	Ingested       int    `json:"ingested"`
	QueuedForRetry bool   `json:"queued_for_retry,omitempty"`
	FailureID      string `json:"failure_id,omitempty"`
}

type IngestWebhookUseCase struct {
	registry    *adapters.Registry
	failureRepo ingestion.FailureRepository
	resolver    *readingResolver
	disabled    map[vo.Provider]bool
	logger      logger.Interface
}

func NewIngestWebhookUseCase(
	registry *adapters.Registry,
	deviceRepo integration.DeviceRepository,
	readingRepo ingestion.SensorReadingRepository,
	failureRepo ingestion.FailureRepository,
	disabled map[vo.Provider]bool,
	logger logger.Interface,
) *IngestWebhookUseCase {
	return &IngestWebhookUseCase{
		registry:    registry,
		failureRepo: failureRepo,
		resolver:    newReadingResolver(deviceRepo, readingRepo, logger),
		disabled:    disabled,
		logger:      logger,
	}
}

// Execute runs the intake state machine. Signature verification failures are
// returned as errors so the transport layer can answer 401; everything after
// verification resolves to a 2xx, with storage-side failures parked on the
// retry queue instead of bounced back to the provider.
func (uc *IngestWebhookUseCase) Execute(ctx context.Context, cmd IngestWebhookCommand) (*IngestWebhookResult, error) {
	provider := vo.Provider(cmd.Provider)
	if provider.IsRemoved() {
		return nil, apperrors.NewProviderRemovedError(provider.String())
	}
	if !provider.IsKnown() {
		return nil, apperrors.NewNotFoundError("unknown provider")
	}
	if uc.disabled[provider] {
		return nil, apperrors.NewProviderDisabledError(provider.String())
	}

	adapter := uc.registry.ForProvider(provider)
	if err := adapter.VerifyWebhook(cmd.Headers, cmd.Payload); err != nil {
		return nil, err
	}

	result, err := adapter.Webhook(cmd.Headers, cmd.Payload)
	if err != nil {
		return uc.park(ctx, cmd, err)
	}
	if !result.Accepted {
		// malformed or empty delivery; retrying the same bytes cannot help
		return &IngestWebhookResult{Accepted: false}, nil
	}

	ingested, err := uc.resolver.store(ctx, provider, result.Readings)
	if err != nil {
		if !apperrors.IsRetryable(err) {
			uc.logger.Warnw("webhook rejected without retry", "error", err, "provider", provider)
			return &IngestWebhookResult{Accepted: false}, nil
		}
		return uc.park(ctx, cmd, err)
	}

	uc.logger.Infow("webhook ingested", "provider", provider, "readings", ingested)
	return &IngestWebhookResult{Accepted: true, Ingested: ingested}, nil
}

// park stores the verified delivery on the retry queue. If even that write
// fails the delivery is lost and the error surfaces to the transport layer.
func (uc *IngestWebhookUseCase) park(ctx context.Context, cmd IngestWebhookCommand, cause error) (*IngestWebhookResult, error) {
	failure, err := ingestion.NewFailure(cmd.Provider, cmd.Headers, cmd.Payload, cause)
	if err != nil {
		return nil, err
	}
	if err := uc.failureRepo.Create(ctx, failure); err != nil {
		uc.logger.Errorw("failed to enqueue ingestion failure", "error", err, "provider", cmd.Provider)
		return nil, err
	}

	uc.logger.Warnw("webhook parked for retry",
		"provider", cmd.Provider,
		"failure_id", failure.SID(),
		"cause", cause.Error(),
	)
	return &IngestWebhookResult{
		Accepted:       false,
		QueuedForRetry: true,
		FailureID:      failure.SID(),
	}, nil
}
