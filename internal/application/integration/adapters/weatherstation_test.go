package adapters

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
)

func signedHeaders(secret string) map[string]string {
	return map[string]string{"X-Webhook-Signature": secret}
}

func TestWeatherStationVerifyWebhook(t *testing.T) {
	adapter := NewWeatherStationAdapter(Config{WebhookSecret: "whsec_topsecret"}, nil)

	t.Run("valid signature", func(t *testing.T) {
		err := adapter.VerifyWebhook(signedHeaders("whsec_topsecret"), []byte(`{}`))
		assert.NoError(t, err)
	})

	t.Run("missing signature", func(t *testing.T) {
		err := adapter.VerifyWebhook(map[string]string{}, []byte(`{}`))
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	})

	t.Run("wrong signature", func(t *testing.T) {
		err := adapter.VerifyWebhook(signedHeaders("whsec_forged"), []byte(`{}`))
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	})

	t.Run("no secret configured fails closed", func(t *testing.T) {
		bare := NewWeatherStationAdapter(Config{}, nil)
		err := bare.VerifyWebhook(signedHeaders("anything"), []byte(`{}`))
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("test-mode bypass skips verification", func(t *testing.T) {
		bypass := NewWeatherStationAdapter(Config{AllowUnverified: true}, nil)
		assert.NoError(t, bypass.VerifyWebhook(map[string]string{}, []byte(`{}`)))
	})
}

func TestWeatherStationWebhook(t *testing.T) {
	adapter := NewWeatherStationAdapter(Config{WebhookSecret: "whsec_topsecret"}, nil)

	t.Run("renames and rescales metrics", func(t *testing.T) {
		payload := []byte(`{"events":[
			{"device_id":"st-1","type":"temperature","value":82.4,"recorded_at":"2026-07-01T12:00:00Z"},
			{"device_id":"st-1","type":"pressure","value":1013.25},
			{"device_id":"st-1","type":"wind_speed","value":"7.5","quality":0.92}
		]}`)

		result, err := adapter.Webhook(nil, payload)
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		require.Len(t, result.Readings, 3)

		temp := result.Readings[0]
		assert.Equal(t, "air_temp_f", temp.Metric)
		assert.InDelta(t, 82.4, temp.Value, 0.001)
		require.NotNil(t, temp.Unit)
		assert.Equal(t, "F", *temp.Unit)
		require.NotNil(t, temp.RecordedAt)
		assert.Equal(t, "2026-07-01T12:00:00Z", temp.RecordedAt.Format("2006-01-02T15:04:05Z07:00"))

		pressure := result.Readings[1]
		assert.Equal(t, "pressure_inhg", pressure.Metric)
		assert.InDelta(t, 1013.25*0.02953, pressure.Value, 0.001)

		wind := result.Readings[2]
		assert.Equal(t, "wind_mph", wind.Metric)
		assert.InDelta(t, 7.5, wind.Value, 0.001)
		require.NotNil(t, wind.Quality)
		assert.InDelta(t, 0.92, *wind.Quality, 0.001)
	})

	t.Run("unknown metric passes through unmapped", func(t *testing.T) {
		payload := []byte(`{"events":[{"device_id":"st-1","type":"uv_index","value":6}]}`)
		result, err := adapter.Webhook(nil, payload)
		require.NoError(t, err)
		require.Len(t, result.Readings, 1)
		assert.Equal(t, "uv_index", result.Readings[0].Metric)
		assert.Nil(t, result.Readings[0].Unit)
	})

	t.Run("unparsable value is dropped", func(t *testing.T) {
		payload := []byte(`{"events":[
			{"device_id":"st-1","type":"temperature","value":"not-a-number"},
			{"device_id":"st-1","type":"humidity","value":55}
		]}`)
		result, err := adapter.Webhook(nil, payload)
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		require.Len(t, result.Readings, 1)
		assert.Equal(t, "humidity_pct", result.Readings[0].Metric)
	})

	t.Run("missing device id is dropped", func(t *testing.T) {
		payload := []byte(`{"events":[{"type":"temperature","value":70}]}`)
		result, err := adapter.Webhook(nil, payload)
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Empty(t, result.Readings)
	})

	t.Run("ping with no events is not accepted", func(t *testing.T) {
		result, err := adapter.Webhook(nil, []byte(`{"events":[]}`))
		require.NoError(t, err)
		assert.False(t, result.Accepted)
	})

	t.Run("malformed body is not accepted", func(t *testing.T) {
		result, err := adapter.Webhook(nil, []byte(`{"events":`))
		require.NoError(t, err)
		assert.False(t, result.Accepted)
	})
}

func TestWeatherStationConnect(t *testing.T) {
	adapter := NewWeatherStationAdapter(Config{WebhookSecret: "whsec_topsecret"}, nil)
	ctx := context.Background()

	t.Run("builds credentials from payload", func(t *testing.T) {
		payload := map[string]interface{}{
			"external_account_id": "acct-99",
			"scopes":              []interface{}{"readings:read"},
			"credentials": map[string]interface{}{
				"api_key":               "wsk_1234567890",
				"poll_interval_minutes": float64(30),
			},
		}
		result, err := adapter.Connect(ctx, 1, payload, nil)
		require.NoError(t, err)
		require.NotNil(t, result.ExternalAccountID)
		assert.Equal(t, "acct-99", *result.ExternalAccountID)
		assert.Equal(t, []string{"readings:read"}, result.Scopes)

		creds, ok := result.Credentials.(vo.WeatherStationCredentials)
		require.True(t, ok)
		assert.Equal(t, "wsk_1234567890", creds.APIKey)
		assert.Equal(t, 30, creds.PollIntervalMinutes)
	})

	t.Run("keeps existing credentials when payload omits them", func(t *testing.T) {
		existing := vo.WeatherStationCredentials{APIKey: "wsk_1234567890", PollIntervalMinutes: 15}
		result, err := adapter.Connect(ctx, 1, map[string]interface{}{}, existing)
		require.NoError(t, err)
		creds, ok := result.Credentials.(vo.WeatherStationCredentials)
		require.True(t, ok)
		assert.Equal(t, 15, creds.PollIntervalMinutes)
	})

	t.Run("rejects out-of-range poll interval", func(t *testing.T) {
		payload := map[string]interface{}{
			"credentials": map[string]interface{}{"poll_interval_minutes": float64(2)},
		}
		_, err := adapter.Connect(ctx, 1, payload, nil)
		require.Error(t, err)
	})

	t.Run("rejects fractional poll interval", func(t *testing.T) {
		payload := map[string]interface{}{
			"credentials": map[string]interface{}{"poll_interval_minutes": 7.5},
		}
		_, err := adapter.Connect(ctx, 1, payload, nil)
		require.Error(t, err)
	})
}

func TestSmartMeterWebhook(t *testing.T) {
	adapter := NewSmartMeterAdapter(Config{WebhookSecret: "whsec_meter"})

	t.Run("maps energy and power metrics", func(t *testing.T) {
		payload := []byte(`{"measurements":[
			{"meter_id":"m-1","kind":"energy","value":12.5},
			{"meter_id":"m-1","kind":"power","value":2400}
		]}`)
		result, err := adapter.Webhook(nil, payload)
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		require.Len(t, result.Readings, 2)
		assert.Equal(t, "energy_kwh", result.Readings[0].Metric)
		require.NotNil(t, result.Readings[0].Unit)
		assert.Equal(t, "kWh", *result.Readings[0].Unit)
		assert.Equal(t, "power_w", result.Readings[1].Metric)
	})

	t.Run("empty measurements are not accepted", func(t *testing.T) {
		result, err := adapter.Webhook(nil, []byte(`{"measurements":[]}`))
		require.NoError(t, err)
		assert.False(t, result.Accepted)
	})

	t.Run("poll is a no-op", func(t *testing.T) {
		readings, err := adapter.PollReadings(context.Background(), nil, nil)
		assert.NoError(t, err)
		assert.Nil(t, readings)
	})
}

func TestSmartMeterDiscoverDevices(t *testing.T) {
	adapter := NewSmartMeterAdapter(Config{})
	payload := map[string]interface{}{
		"meters": []interface{}{
			map[string]interface{}{"meter_id": "m-1", "name": "Pump house"},
			map[string]interface{}{"name": "missing id"},
		},
	}
	devices, err := adapter.DiscoverDevices(context.Background(), payload, nil)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "m-1", devices[0].ProviderDeviceID)
	assert.Equal(t, "energy_meter", devices[0].DeviceType)
}

func TestRegistryForProvider(t *testing.T) {
	ws := NewWeatherStationAdapter(Config{}, nil)
	fallback := NewDefaultAdapter(vo.Provider("generic"), Config{})
	registry := NewRegistry(fallback, ws)

	t.Run("returns registered adapter", func(t *testing.T) {
		adapter := registry.ForProvider(vo.ProviderWeatherStation)
		assert.Same(t, Adapter(ws), adapter)
	})

	t.Run("unknown provider falls back", func(t *testing.T) {
		adapter := registry.ForProvider(vo.Provider("mystery"))
		assert.Same(t, Adapter(fallback), adapter)
	})
}

func TestDefaultAdapterWebhook(t *testing.T) {
	adapter := NewDefaultAdapter(vo.Provider("generic"), Config{AllowUnverified: true})

	payload := map[string]interface{}{
		"readings": []interface{}{
			map[string]interface{}{
				"provider_device_id": "d-1",
				"metric":             "ph",
				"value":              7.2,
				"unit":               "pH",
			},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	result, err := adapter.Webhook(nil, raw)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	require.Len(t, result.Readings, 1)
	assert.Equal(t, "ph", result.Readings[0].Metric)
	assert.InDelta(t, 7.2, result.Readings[0].Value, 0.001)
}
