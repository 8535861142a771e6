package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
)

type fakeIntegrationRepo struct {
	integration.IntegrationRepository

	connected []*integration.Integration
	updated   []*integration.Integration
}

func (f *fakeIntegrationRepo) ListConnectedByProvider(ctx context.Context, provider vo.Provider) ([]*integration.Integration, error) {
	return f.connected, nil
}

func (f *fakeIntegrationRepo) Update(ctx context.Context, itg *integration.Integration) error {
	f.updated = append(f.updated, itg)
	return nil
}

// stubPollAdapter serves canned poll results so the cycle can run without an
// upstream.
type stubPollAdapter struct {
	adapters.Adapter

	provider vo.Provider
	readings []adapters.NormalizedReading
	pollErr  error
	polled   []string
}

func (s *stubPollAdapter) Provider() vo.Provider {
	return s.provider
}

func (s *stubPollAdapter) PollReadings(ctx context.Context, device *integration.Device, credentials vo.Credentials) ([]adapters.NormalizedReading, error) {
	s.polled = append(s.polled, device.ProviderDeviceID())
	if s.pollErr != nil {
		return nil, s.pollErr
	}
	return s.readings, nil
}

func pollIntegration(id uint, lastPolledAt *time.Time, creds vo.Credentials) *integration.Integration {
	now := time.Now().UTC()
	if creds == nil {
		creds = vo.WeatherStationCredentials{APIKey: "wsk_1234567890"}
	}
	return integration.ReconstructIntegration(integration.IntegrationReconstructParams{
		ID:           id,
		SID:          "itg_poll",
		UserID:       1,
		Provider:     vo.ProviderWeatherStation,
		Status:       vo.IntegrationStatusConnected,
		Credentials:  creds,
		LastPolledAt: lastPolledAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func newPollUseCase(integrationRepo *fakeIntegrationRepo, deviceRepo *fakeDeviceRepo, readingRepo *fakeReadingRepo, adapter *stubPollAdapter) *PollReadingsUseCase {
	registry := adapters.NewRegistry(
		adapters.NewDefaultAdapter(vo.Provider("generic"), adapters.Config{}),
		adapter,
	)
	return NewPollReadingsUseCase(integrationRepo, deviceRepo, readingRepo, registry, 15*time.Minute, testLogger())
}

func TestPollReadings(t *testing.T) {
	ctx := context.Background()

	canned := []adapters.NormalizedReading{
		{Metric: "air_temp_f", Value: 82.4},
		{Metric: "humidity_pct", Value: 41},
	}

	t.Run("polls due integrations and stores readings", func(t *testing.T) {
		integrationRepo := &fakeIntegrationRepo{connected: []*integration.Integration{
			pollIntegration(1, nil, nil),
		}}
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		adapter := &stubPollAdapter{provider: vo.ProviderWeatherStation, readings: canned}

		uc := newPollUseCase(integrationRepo, deviceRepo, readingRepo, adapter)
		result, err := uc.Execute(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Polled)
		assert.Equal(t, 2, result.Ingested)
		assert.Zero(t, result.Errors)
		assert.Equal(t, []string{"st-1"}, adapter.polled)

		require.Len(t, readingRepo.batches, 1)
		for _, reading := range readingRepo.batches[0] {
			assert.Equal(t, "weather_station", reading.Source())
		}

		// the poll time was recorded
		require.Len(t, integrationRepo.updated, 1)
		assert.NotNil(t, integrationRepo.updated[0].LastPolledAt())
	})

	t.Run("skips integrations inside their poll interval", func(t *testing.T) {
		recent := time.Now().UTC().Add(-5 * time.Minute)
		integrationRepo := &fakeIntegrationRepo{connected: []*integration.Integration{
			pollIntegration(1, &recent, nil),
		}}
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		adapter := &stubPollAdapter{provider: vo.ProviderWeatherStation, readings: canned}

		uc := newPollUseCase(integrationRepo, deviceRepo, readingRepo, adapter)
		result, err := uc.Execute(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)

		assert.Zero(t, result.Polled)
		assert.Empty(t, adapter.polled)
		assert.Empty(t, integrationRepo.updated)
	})

	t.Run("credential interval overrides the default", func(t *testing.T) {
		recent := time.Now().UTC().Add(-2 * time.Minute)
		creds := vo.WeatherStationCredentials{APIKey: "wsk_1234567890", PollIntervalMinutes: 1}
		integrationRepo := &fakeIntegrationRepo{connected: []*integration.Integration{
			pollIntegration(1, &recent, creds),
		}}
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		adapter := &stubPollAdapter{provider: vo.ProviderWeatherStation, readings: canned}

		uc := newPollUseCase(integrationRepo, deviceRepo, readingRepo, adapter)
		result, err := uc.Execute(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Polled)
	})

	t.Run("unlinked devices are not polled", func(t *testing.T) {
		unlinked := integration.ReconstructDevice(integration.DeviceReconstructParams{
			ID:               11,
			SID:              "dev_unlinked",
			IntegrationID:    1,
			ProviderDeviceID: "st-2",
			DeviceType:       "weather_sensor",
			Status:           vo.DeviceStatusDiscovered,
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		})
		integrationRepo := &fakeIntegrationRepo{connected: []*integration.Integration{
			pollIntegration(1, nil, nil),
		}}
		deviceRepo := &fakeDeviceRepo{linked: append(linkedDevices(), unlinked)}
		readingRepo := &fakeReadingRepo{}
		adapter := &stubPollAdapter{provider: vo.ProviderWeatherStation, readings: canned}

		uc := newPollUseCase(integrationRepo, deviceRepo, readingRepo, adapter)
		result, err := uc.Execute(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)

		assert.Equal(t, []string{"st-1"}, adapter.polled)
		assert.Equal(t, 2, result.Ingested)
	})

	t.Run("poll errors are counted and the cycle continues", func(t *testing.T) {
		integrationRepo := &fakeIntegrationRepo{connected: []*integration.Integration{
			pollIntegration(1, nil, nil),
		}}
		deviceRepo := &fakeDeviceRepo{linked: linkedDevices()}
		readingRepo := &fakeReadingRepo{}
		adapter := &stubPollAdapter{provider: vo.ProviderWeatherStation, pollErr: errors.New("upstream unavailable")}

		uc := newPollUseCase(integrationRepo, deviceRepo, readingRepo, adapter)
		result, err := uc.Execute(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Polled)
		assert.Equal(t, 1, result.Errors)
		assert.Zero(t, result.Ingested)
		// the poll time still advances so a flapping upstream is not hammered
		require.Len(t, integrationRepo.updated, 1)
	})

	t.Run("providers without a poll API are a no-op", func(t *testing.T) {
		integrationRepo := &fakeIntegrationRepo{connected: []*integration.Integration{
			pollIntegration(1, nil, nil),
		}}
		uc := newPollUseCase(integrationRepo, &fakeDeviceRepo{}, &fakeReadingRepo{}, &stubPollAdapter{provider: vo.ProviderSmartMeter})

		result, err := uc.Execute(ctx, vo.ProviderSmartMeter)
		require.NoError(t, err)
		assert.Zero(t, result.Polled)
	})
}
