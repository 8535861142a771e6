package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/biztime"
	"poolhub/internal/shared/logger"
)

// readingResolver maps normalized provider readings onto linked devices and
// persists them. Readings for devices that are unknown or not yet linked to
// a pool are dropped; linking is the owner's consent to store telemetry.
type readingResolver struct {
	deviceRepo  integration.DeviceRepository
	readingRepo ingestion.SensorReadingRepository
	logger      logger.Interface
}

func newReadingResolver(
	deviceRepo integration.DeviceRepository,
	readingRepo ingestion.SensorReadingRepository,
	logger logger.Interface,
) *readingResolver {
	return &readingResolver{
		deviceRepo:  deviceRepo,
		readingRepo: readingRepo,
		logger:      logger,
	}
}

func (r *readingResolver) store(ctx context.Context, provider vo.Provider, normalized []adapters.NormalizedReading) (int, error) {
	if len(normalized) == 0 {
		return 0, nil
	}

	linked, err := r.deviceRepo.ListLinkedByProvider(ctx, provider)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve linked devices: %w", err)
	}
	byProviderID := make(map[string]*integration.Device, len(linked))
	for _, d := range linked {
		byProviderID[d.ProviderDeviceID()] = d
	}

	readings := make([]*ingestion.SensorReading, 0, len(normalized))
	dropped := 0
	for _, n := range normalized {
		device, ok := byProviderID[n.ProviderDeviceID]
		if !ok {
			dropped++
			continue
		}

		recordedAt := biztime.NowUTC()
		if n.RecordedAt != nil {
			recordedAt = biztime.ToUTC(*n.RecordedAt)
		}

		reading, err := ingestion.NewSensorReading(
			*device.PoolID(),
			device.IntegrationID(),
			device.ID(),
			n.Metric,
			n.Value,
			n.Unit,
			recordedAt,
			provider.String(),
			n.Quality,
			n.RawPayload,
		)
		if err != nil {
			return 0, err
		}
		readings = append(readings, reading)
	}

	if dropped > 0 {
		r.logger.Debugw("dropped readings for unlinked devices", "provider", provider, "dropped", dropped)
	}
	if len(readings) == 0 {
		return 0, nil
	}

	if err := r.readingRepo.CreateBatch(ctx, readings); err != nil {
		return 0, fmt.Errorf("failed to store readings: %w", err)
	}
	return len(readings), nil
}

// storeForDevice persists poll results that already target a known device.
func (r *readingResolver) storeForDevice(ctx context.Context, provider vo.Provider, device *integration.Device, normalized []adapters.NormalizedReading) (int, error) {
	if len(normalized) == 0 || !device.IsLinked() {
		return 0, nil
	}

	readings := make([]*ingestion.SensorReading, 0, len(normalized))
	for _, n := range normalized {
		recordedAt := biztime.NowUTC()
		if n.RecordedAt != nil {
			recordedAt = biztime.ToUTC(*n.RecordedAt)
		}

		reading, err := ingestion.NewSensorReading(
			*device.PoolID(),
			device.IntegrationID(),
			device.ID(),
			n.Metric,
			n.Value,
			n.Unit,
			recordedAt,
			provider.String(),
			n.Quality,
			n.RawPayload,
		)
		if err != nil {
			return 0, err
		}
		readings = append(readings, reading)
	}

	if err := r.readingRepo.CreateBatch(ctx, readings); err != nil {
		return 0, fmt.Errorf("failed to store readings: %w", err)
	}
	return len(readings), nil
}
