package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
)

const testSecret = "whsec_topsecret"

func newIngestUseCase(deviceRepo *fakeDeviceRepo, readingRepo *fakeReadingRepo, failureRepo *fakeFailureRepo) *IngestWebhookUseCase {
	cfg := adapters.Config{WebhookSecret: testSecret}
	registry := adapters.NewRegistry(
		adapters.NewDefaultAdapter(vo.Provider("generic"), cfg),
		adapters.NewWeatherStationAdapter(cfg, nil),
		adapters.NewSmartMeterAdapter(cfg),
	)
	return NewIngestWebhookUseCase(registry, deviceRepo, readingRepo, failureRepo, nil, testLogger())
}

func signedCommand(payload string) IngestWebhookCommand {
	return IngestWebhookCommand{
		Provider: "weather_station",
		Headers:  map[string]string{"X-Webhook-Signature": testSecret},
		Payload:  []byte(payload),
	}
}

func linkedDevices() []*integration.Device {
	return []*integration.Device{linkedDevice(10, 1, "st-1", 7)}
}

func TestIngestWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("stores readings for linked devices", func(t *testing.T) {
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		failureRepo := newFakeFailureRepo()
		uc := newIngestUseCase(deviceRepo, readingRepo, failureRepo)

		result, err := uc.Execute(ctx, signedCommand(`{"events":[
			{"device_id":"st-1","type":"temperature","value":82.4},
			{"device_id":"st-1","type":"humidity","value":41}
		]}`))
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Equal(t, 2, result.Ingested)
		assert.False(t, result.QueuedForRetry)
		assert.Equal(t, 2, readingRepo.total())
		assert.Empty(t, failureRepo.failures)

		require.Len(t, readingRepo.batches, 1)
		for _, reading := range readingRepo.batches[0] {
			assert.Equal(t, "weather_station", reading.Source())
		}
	})

	t.Run("rejects invalid signature before any write", func(t *testing.T) {
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		failureRepo := newFakeFailureRepo()
		uc := newIngestUseCase(deviceRepo, readingRepo, failureRepo)

		cmd := signedCommand(`{"events":[{"device_id":"st-1","type":"temperature","value":82.4}]}`)
		cmd.Headers = map[string]string{"X-Webhook-Signature": "forged"}

		_, err := uc.Execute(ctx, cmd)
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorizedError(err))
		assert.Zero(t, readingRepo.total())
		assert.Empty(t, failureRepo.failures)
	})

	t.Run("drops readings for unlinked devices", func(t *testing.T) {
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		failureRepo := newFakeFailureRepo()
		uc := newIngestUseCase(deviceRepo, readingRepo, failureRepo)

		result, err := uc.Execute(ctx, signedCommand(`{"events":[
			{"device_id":"st-1","type":"temperature","value":82.4},
			{"device_id":"st-unknown","type":"temperature","value":70}
		]}`))
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Equal(t, 1, result.Ingested)
		assert.Equal(t, 1, readingRepo.total())
	})

	t.Run("parks delivery when storage fails", func(t *testing.T) {
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{createErr: errStorage}
		failureRepo := newFakeFailureRepo()
		uc := newIngestUseCase(deviceRepo, readingRepo, failureRepo)

		result, err := uc.Execute(ctx, signedCommand(`{"events":[{"device_id":"st-1","type":"temperature","value":82.4}]}`))
		require.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.True(t, result.QueuedForRetry)
		assert.NotEmpty(t, result.FailureID)

		require.Len(t, failureRepo.failures, 1)
		for _, failure := range failureRepo.failures {
			assert.Equal(t, ingestion.FailureStatusPending, failure.Status())
			assert.Equal(t, 1, failure.Attempts())
			assert.Equal(t, "weather_station", failure.Provider())
		}
	})

	t.Run("malformed payload is not parked", func(t *testing.T) {
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		failureRepo := newFakeFailureRepo()
		uc := newIngestUseCase(deviceRepo, readingRepo, failureRepo)

		result, err := uc.Execute(ctx, signedCommand(`{"events":`))
		require.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.False(t, result.QueuedForRetry)
		assert.Empty(t, failureRepo.failures)
	})

	t.Run("removed provider is terminal", func(t *testing.T) {
		uc := newIngestUseCase(&fakeDeviceRepo{}, &fakeReadingRepo{}, newFakeFailureRepo())

		cmd := signedCommand(`{}`)
		cmd.Provider = "aqua_legacy"

		_, err := uc.Execute(ctx, cmd)
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeProviderRemoved, appErr.Type)
	})

	t.Run("unknown provider is not found", func(t *testing.T) {
		uc := newIngestUseCase(&fakeDeviceRepo{}, &fakeReadingRepo{}, newFakeFailureRepo())

		cmd := signedCommand(`{}`)
		cmd.Provider = "mystery"

		_, err := uc.Execute(ctx, cmd)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}
