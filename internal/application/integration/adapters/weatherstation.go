package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/biztime"
	apperrors "poolhub/internal/shared/errors"
)

// metricMapping renames a raw provider metric into the pipeline's canonical
// vocabulary, optionally rescaling the value.
type metricMapping struct {
	name  string
	unit  string
	scale float64
}

// weatherStationMetrics maps the vendor's raw metric names. Pressure arrives
// in hPa and is rescaled to inches of mercury.
var weatherStationMetrics = map[string]metricMapping{
	"temperature": {name: "air_temp_f", unit: "F", scale: 1},
	"humidity":    {name: "humidity_pct", unit: "%", scale: 1},
	"pressure":    {name: "pressure_inhg", unit: "inHg", scale: 0.02953},
	"wind_speed":  {name: "wind_mph", unit: "mph", scale: 1},
}

// WeatherStationAdapter integrates the weather-station vendor: webhook push
// plus an out-of-band poll API guarded by the bounded poll-interval tunable.
type WeatherStationAdapter struct {
	cfg  Config
	poll *pollClient
}

func NewWeatherStationAdapter(cfg Config, client *http.Client) *WeatherStationAdapter {
	return &WeatherStationAdapter{
		cfg:  cfg,
		poll: newPollClient("weather_station", client),
	}
}

func (a *WeatherStationAdapter) Provider() vo.Provider {
	return vo.ProviderWeatherStation
}

func (a *WeatherStationAdapter) Connect(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error) {
	result := &ConnectResult{
		ExternalAccountID: optionalString(payload, "external_account_id"),
		Scopes:            stringSlice(payload["scopes"]),
	}

	current, _ := existing.(vo.WeatherStationCredentials)

	rawCreds, present := payload["credentials"]
	if !present {
		result.Credentials = current
		return result, nil
	}
	credsMap, ok := rawCreds.(map[string]interface{})
	if !ok {
		return nil, apperrors.NewValidationError("credentials must be an object")
	}

	next := current
	if apiKey, ok := credsMap["api_key"]; ok {
		key, ok := apiKey.(string)
		if !ok {
			return nil, apperrors.NewValidationError("api_key must be a string")
		}
		next.APIKey = key
	}

	if rawInterval, ok := credsMap["poll_interval_minutes"]; ok {
		interval, ok := toNumericInt(rawInterval)
		if !ok {
			return nil, apperrors.NewValidationError("poll_interval_minutes must be a number")
		}
		merged, err := next.WithPollInterval(interval, biztime.NowUTC())
		if err != nil {
			return nil, err
		}
		next = merged
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}

	result.Credentials = next
	return result, nil
}

func (a *WeatherStationAdapter) Callback(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error) {
	return a.Connect(ctx, userID, payload, existing)
}

func (a *WeatherStationAdapter) DiscoverDevices(ctx context.Context, payload map[string]interface{}, credentials vo.Credentials) ([]DiscoveredDevice, error) {
	devices := make([]DiscoveredDevice, 0)
	for _, item := range sliceField(payload, "stations") {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		stationID := stringField(entry, "station_id")
		if stationID == "" {
			continue
		}
		deviceType := stringField(entry, "model")
		if deviceType == "" {
			deviceType = "weather_sensor"
		}
		devices = append(devices, DiscoveredDevice{
			ProviderDeviceID: stationID,
			DeviceType:       deviceType,
			Label:            optionalString(entry, "name"),
			Metadata:         mapField(entry, "metadata"),
		})
	}
	return devices, nil
}

func (a *WeatherStationAdapter) VerifyWebhook(headers map[string]string, payload []byte) error {
	return verifySignature(headers, a.cfg.WebhookSecret, a.cfg.AllowUnverified)
}

func (a *WeatherStationAdapter) Webhook(headers map[string]string, payload []byte) (*WebhookResult, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return &WebhookResult{Accepted: false}, nil
	}

	// the vendor sends periodic pings with no events
	events := sliceField(body, "events")
	if len(events) == 0 {
		return &WebhookResult{Accepted: false}, nil
	}

	readings := make([]NormalizedReading, 0, len(events))
	for _, item := range events {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		deviceID := stringField(entry, "device_id")
		if deviceID == "" {
			continue
		}
		reading, ok := a.normalizeEvent(deviceID, entry)
		if !ok {
			continue
		}
		readings = append(readings, reading)
	}

	return &WebhookResult{Accepted: true, Readings: readings}, nil
}

func (a *WeatherStationAdapter) normalizeEvent(deviceID string, entry map[string]interface{}) (NormalizedReading, bool) {
	rawMetric := stringField(entry, "type")
	if rawMetric == "" {
		rawMetric = stringField(entry, "metric")
	}
	if rawMetric == "" {
		return NormalizedReading{}, false
	}

	value, ok := parseNumeric(entry["value"])
	if !ok {
		// unparsable values are dropped, not failed
		return NormalizedReading{}, false
	}

	reading := NormalizedReading{
		ProviderDeviceID: deviceID,
		Metric:           rawMetric,
		Value:            value,
		RecordedAt:       recordedAt(entry),
		RawPayload:       entry,
	}

	if mapping, ok := weatherStationMetrics[rawMetric]; ok {
		reading.Metric = mapping.name
		reading.Value = value * mapping.scale
		unit := mapping.unit
		reading.Unit = &unit
	}

	if q, ok := parseNumeric(entry["quality"]); ok {
		reading.Quality = &q
	}

	return reading, true
}

func (a *WeatherStationAdapter) PollReadings(ctx context.Context, device *integration.Device, credentials vo.Credentials) ([]NormalizedReading, error) {
	creds, ok := credentials.(vo.WeatherStationCredentials)
	if !ok || creds.APIKey == "" {
		return nil, apperrors.NewValidationError("weather station API key is not configured")
	}
	if a.cfg.PollBaseURL == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/v1/stations/%s/latest", a.cfg.PollBaseURL, url.PathEscape(device.ProviderDeviceID()))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := a.poll.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("weather station poll failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Readings []map[string]interface{} `json:"readings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode poll response: %w", err)
	}

	readings := make([]NormalizedReading, 0, len(payload.Readings))
	for _, entry := range payload.Readings {
		reading, ok := a.normalizeEvent(device.ProviderDeviceID(), entry)
		if !ok {
			continue
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

// toNumericInt accepts int-valued JSON numbers only; fractional intervals
// are rejected.
func toNumericInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
