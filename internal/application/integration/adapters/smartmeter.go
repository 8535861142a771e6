package adapters

import (
	"context"
	"encoding/json"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
)

var smartMeterMetrics = map[string]metricMapping{
	"energy": {name: "energy_kwh", unit: "kWh", scale: 1},
	"power":  {name: "power_w", unit: "W", scale: 1},
}

// SmartMeterAdapter integrates the smart-meter vendor. Webhook push only;
// the vendor exposes no poll API.
type SmartMeterAdapter struct {
	cfg Config
}

func NewSmartMeterAdapter(cfg Config) *SmartMeterAdapter {
	return &SmartMeterAdapter{cfg: cfg}
}

func (a *SmartMeterAdapter) Provider() vo.Provider {
	return vo.ProviderSmartMeter
}

func (a *SmartMeterAdapter) Connect(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error) {
	result := &ConnectResult{
		ExternalAccountID: optionalString(payload, "external_account_id"),
		Scopes:            stringSlice(payload["scopes"]),
	}

	current, _ := existing.(vo.SmartMeterCredentials)

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
	if token, ok := credsMap["api_token"]; ok {
		s, ok := token.(string)
		if !ok {
			return nil, apperrors.NewValidationError("api_token must be a string")
		}
		next.APIToken = s
	}
	if meter, ok := credsMap["meter_number"]; ok {
		s, ok := meter.(string)
		if !ok {
			return nil, apperrors.NewValidationError("meter_number must be a string")
		}
		next.MeterNumber = s
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}

	result.Credentials = next
	return result, nil
}

func (a *SmartMeterAdapter) Callback(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error) {
	return a.Connect(ctx, userID, payload, existing)
}

func (a *SmartMeterAdapter) DiscoverDevices(ctx context.Context, payload map[string]interface{}, credentials vo.Credentials) ([]DiscoveredDevice, error) {
	devices := make([]DiscoveredDevice, 0)
	for _, item := range sliceField(payload, "meters") {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		meterID := stringField(entry, "meter_id")
		if meterID == "" {
			continue
		}
		devices = append(devices, DiscoveredDevice{
			ProviderDeviceID: meterID,
			DeviceType:       "energy_meter",
			Label:            optionalString(entry, "name"),
			Metadata:         mapField(entry, "metadata"),
		})
	}
	return devices, nil
}

func (a *SmartMeterAdapter) VerifyWebhook(headers map[string]string, payload []byte) error {
	return verifySignature(headers, a.cfg.WebhookSecret, a.cfg.AllowUnverified)
}

func (a *SmartMeterAdapter) Webhook(headers map[string]string, payload []byte) (*WebhookResult, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return &WebhookResult{Accepted: false}, nil
	}

	measurements := sliceField(body, "measurements")
	if len(measurements) == 0 {
		return &WebhookResult{Accepted: false}, nil
	}

	readings := make([]NormalizedReading, 0, len(measurements))
	for _, item := range measurements {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		meterID := stringField(entry, "meter_id")
		rawMetric := stringField(entry, "kind")
		value, numOK := parseNumeric(entry["value"])
		if meterID == "" || rawMetric == "" || !numOK {
			continue
		}

		reading := NormalizedReading{
			ProviderDeviceID: meterID,
			Metric:           rawMetric,
			Value:            value,
			RecordedAt:       recordedAt(entry),
			RawPayload:       entry,
		}
		if mapping, ok := smartMeterMetrics[rawMetric]; ok {
			reading.Metric = mapping.name
			reading.Value = value * mapping.scale
			unit := mapping.unit
			reading.Unit = &unit
		}
		readings = append(readings, reading)
	}

	return &WebhookResult{Accepted: true, Readings: readings}, nil
}

func (a *SmartMeterAdapter) PollReadings(ctx context.Context, device *integration.Device, credentials vo.Credentials) ([]NormalizedReading, error) {
	return nil, nil
}
