package dto

import "time"

// IntegrationDTO is the external view of an integration. Credentials are
// always masked; raw secrets never leave the application layer.
type IntegrationDTO struct {
	ID                string                 `json:"id"`
	Provider          string                 `json:"provider"`
	Status            string                 `json:"status"`
	Scopes            []string               `json:"scopes"`
	ExternalAccountID *string                `json:"external_account_id,omitempty"`
	Credentials       map[string]interface{} `json:"credentials"`
	LastPolledAt      *time.Time             `json:"last_polled_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

type DeviceDTO struct {
	ID               string                 `json:"id"`
	ProviderDeviceID string                 `json:"provider_device_id"`
	DeviceType       string                 `json:"device_type"`
	Label            *string                `json:"label,omitempty"`
	PoolID           *uint                  `json:"pool_id,omitempty"`
	Status           string                 `json:"status"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ProviderDTO describes a provider from the availability catalog.
type ProviderDTO struct {
	Name            string `json:"name"`
	Available       bool   `json:"available"`
	SupportsPolling bool   `json:"supports_polling"`
	SupportsWebhook bool   `json:"supports_webhook"`
}
