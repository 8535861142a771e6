// Package adapters isolates all provider quirks behind a single capability
// set, keeping the ingestion engine provider-agnostic. One concrete variant
// exists per supported provider, plus a default variant for providers
// without bespoke behavior.
package adapters

import (
	"context"
	"time"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
)

// ConnectResult is the adapter's normalized output of a connect or callback
// round-trip.
type ConnectResult struct {
	ExternalAccountID *string
	Scopes            []string
	Credentials       vo.Credentials
}

// DiscoveredDevice is one device reported by a provider account.
type DiscoveredDevice struct {
	ProviderDeviceID string
	DeviceType       string
	Label            *string
	Metadata         map[string]interface{}
}

// NormalizedReading is a provider-agnostic measurement produced by an
// adapter from a webhook or poll payload. Metric names are already renamed
// into the pipeline's canonical vocabulary.
type NormalizedReading struct {
	ProviderDeviceID string
	Metric           string
	Value            float64
	Unit             *string
	RecordedAt       *time.Time
	Quality          *float64
	RawPayload       map[string]interface{}
}

// WebhookResult is the normalized outcome of a webhook payload. Accepted
// false means the provider had nothing to ingest (e.g. a ping), not a
// failure.
type WebhookResult struct {
	Accepted bool
	Readings []NormalizedReading
}

// Adapter is the per-provider capability set.
type Adapter interface {
	Provider() vo.Provider

	// Connect normalizes a connect payload. Malformed optional fields are
	// ignored; invalid structured credentials fail with a validation error.
	// existing carries the current credentials so provider-specific merge
	// rules can apply.
	Connect(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error)

	// Callback handles the second round-trip of a connect flow. The default
	// implementation delegates to Connect.
	Callback(ctx context.Context, userID uint, payload map[string]interface{}, existing vo.Credentials) (*ConnectResult, error)

	// DiscoverDevices returns the devices visible to the provider account.
	// Entries without a provider device ID are silently skipped.
	DiscoverDevices(ctx context.Context, payload map[string]interface{}, credentials vo.Credentials) ([]DiscoveredDevice, error)

	// VerifyWebhook is the authenticity gate for webhook deliveries.
	VerifyWebhook(headers map[string]string, payload []byte) error

	// Webhook normalizes a verified webhook payload into readings.
	Webhook(headers map[string]string, payload []byte) (*WebhookResult, error)

	// PollReadings fetches readings out of band for polling providers.
	PollReadings(ctx context.Context, device *integration.Device, credentials vo.Credentials) ([]NormalizedReading, error)
}
