package usecases

import (
	"context"
	"fmt"
	"time"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/biztime"
	"poolhub/internal/shared/logger"
)

type PollReadingsResult struct {
	Polled   int `json:"polled"`
	Ingested int `json:"ingested"`
	Errors   int `json:"errors"`
}

// PollReadingsUseCase pulls latest readings for providers that expose a poll
// API. Only integrations whose poll interval has elapsed are touched; the
// interval comes from the stored credentials with a configured default.
type PollReadingsUseCase struct {
	integrationRepo integration.IntegrationRepository
	deviceRepo      integration.DeviceRepository
	registry        *adapters.Registry
	resolver        *readingResolver
	defaultInterval time.Duration
	logger          logger.Interface
}

func NewPollReadingsUseCase(
	integrationRepo integration.IntegrationRepository,
	deviceRepo integration.DeviceRepository,
	readingRepo ingestion.SensorReadingRepository,
	registry *adapters.Registry,
	defaultInterval time.Duration,
	logger logger.Interface,
) *PollReadingsUseCase {
	return &PollReadingsUseCase{
		integrationRepo: integrationRepo,
		deviceRepo:      deviceRepo,
		registry:        registry,
		resolver:        newReadingResolver(deviceRepo, readingRepo, logger),
		defaultInterval: defaultInterval,
		logger:          logger,
	}
}

func (uc *PollReadingsUseCase) Execute(ctx context.Context, provider vo.Provider) (*PollReadingsResult, error) {
	if !provider.SupportsPolling() {
		return &PollReadingsResult{}, nil
	}

	integrations, err := uc.integrationRepo.ListConnectedByProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	now := biztime.NowUTC()
	result := &PollReadingsResult{}
	for _, itg := range integrations {
		if !itg.PollDue(now, uc.defaultInterval) {
			continue
		}
		result.Polled++
		uc.pollOne(ctx, itg, result)
	}

	if result.Polled > 0 {
		uc.logger.Infow("poll cycle completed",
			"provider", provider,
			"polled", result.Polled,
			"ingested", result.Ingested,
			"errors", result.Errors,
		)
	}
	return result, nil
}

// pollOne fetches readings for every linked device of one integration. Poll
// errors are transient by construction (the breaker guards the upstream), so
// they are logged and retried on the next cycle rather than dead-lettered.
func (uc *PollReadingsUseCase) pollOne(ctx context.Context, itg *integration.Integration, result *PollReadingsResult) {
	adapter := uc.registry.ForProvider(itg.Provider())

	devices, err := uc.deviceRepo.ListByIntegration(ctx, itg.ID())
	if err != nil {
		result.Errors++
		uc.logger.Errorw("failed to list devices for poll", "error", err, "integration_id", itg.SID())
		return
	}

	failed := false
	for _, device := range devices {
		if !device.IsLinked() {
			continue
		}

		readings, err := adapter.PollReadings(ctx, device, itg.Credentials())
		if err != nil {
			failed = true
			uc.logger.Warnw("device poll failed",
				"error", err,
				"integration_id", itg.SID(),
				"device_id", device.SID(),
			)
			continue
		}

		stored, err := uc.resolver.storeForDevice(ctx, itg.Provider(), device, readings)
		if err != nil {
			failed = true
			uc.logger.Errorw("failed to store polled readings", "error", err, "device_id", device.SID())
			continue
		}
		result.Ingested += stored
	}

	if failed {
		result.Errors++
	}

	itg.MarkPolled(biztime.NowUTC())
	if err := uc.integrationRepo.Update(ctx, itg); err != nil {
		uc.logger.Errorw("failed to record poll time", "error", err, "integration_id", itg.SID())
	}
}
