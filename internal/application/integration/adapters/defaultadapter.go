package adapters

import (
	"context"
	"encoding/json"
	"time"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/biztime"
)

// Config carries per-adapter settings resolved from configuration.
type Config struct {
	WebhookSecret string
	PollBaseURL   string
	// AllowUnverified bypasses the fail-closed secret check. Test mode only.
	AllowUnverified bool
}

// DefaultAdapter serves providers without bespoke behavior: pass-through
// connect, generic webhook normalization, empty discovery and polling,
// opaque credentials.
type DefaultAdapter struct {
	provider vo.Provider
	cfg      Config
}

func NewDefaultAdapter(provider vo.Provider, cfg Config) *DefaultAdapter {
	return &DefaultAdapter{provider: provider, cfg: cfg}
}

func (a *DefaultAdapter) Provider() vo.Provider {
	return a.provider
}

func (a *DefaultAdapter) Connect(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error) {
	result := &ConnectResult{
		ExternalAccountID: optionalString(payload, "external_account_id"),
		Scopes:            stringSlice(payload["scopes"]),
	}

	if creds := mapField(payload, "credentials"); creds != nil {
		result.Credentials = vo.OpaqueCredentials(creds)
	}

	return result, nil
}

func (a *DefaultAdapter) Callback(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error) {
	return a.Connect(ctx, userID, payload, existing)
}

func (a *DefaultAdapter) DiscoverDevices(ctx context.Context, payload map[string]interface{}, credentials vo.Credentials) ([]DiscoveredDevice, error) {
	devices := make([]DiscoveredDevice, 0)
	for _, item := range sliceField(payload, "devices") {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		deviceID := stringField(entry, "device_id")
		if deviceID == "" {
			// entries without a provider device id are non-fatal
			continue
		}
		devices = append(devices, DiscoveredDevice{
			ProviderDeviceID: deviceID,
			DeviceType:       stringField(entry, "type"),
			Label:            optionalString(entry, "label"),
			Metadata:         mapField(entry, "metadata"),
		})
	}
	return devices, nil
}

func (a *DefaultAdapter) VerifyWebhook(headers map[string]string, payload []byte) error {
	return verifySignature(headers, a.cfg.WebhookSecret, a.cfg.AllowUnverified)
}

func (a *DefaultAdapter) Webhook(headers map[string]string, payload []byte) (*WebhookResult, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return &WebhookResult{Accepted: false}, nil
	}

	raw := sliceField(body, "readings")
	if len(raw) == 0 {
		return &WebhookResult{Accepted: false}, nil
	}

	readings := make([]NormalizedReading, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		deviceID := stringField(entry, "provider_device_id")
		metric := stringField(entry, "metric")
		value, numOK := parseNumeric(entry["value"])
		if deviceID == "" || metric == "" || !numOK {
			continue
		}
		readings = append(readings, NormalizedReading{
			ProviderDeviceID: deviceID,
			Metric:           metric,
			Value:            value,
			Unit:             optionalString(entry, "unit"),
			RecordedAt:       recordedAt(entry),
			RawPayload:       entry,
		})
	}

	return &WebhookResult{Accepted: true, Readings: readings}, nil
}

func (a *DefaultAdapter) PollReadings(ctx context.Context, device *integration.Device, credentials vo.Credentials) ([]NormalizedReading, error) {
	return nil, nil
}

// recordedAt parses an RFC3339 recorded_at field, defaulting to now.
func recordedAt(entry map[string]interface{}) *time.Time {
	if v, ok := entry["recorded_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	now := biztime.NowUTC()
	return &now
}
