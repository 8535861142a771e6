package integration

import (
	"context"

	vo "poolhub/internal/domain/integration/valueobjects"
)

type IntegrationRepository interface {
	Create(ctx context.Context, integration *Integration) error
	Update(ctx context.Context, integration *Integration) error
	GetByID(ctx context.Context, id uint) (*Integration, error)
	GetBySID(ctx context.Context, sid string) (*Integration, error)
	// GetByUserAndProvider returns nil, nil when no row exists.
	GetByUserAndProvider(ctx context.Context, userID uint, provider vo.Provider) (*Integration, error)
	ListByUser(ctx context.Context, userID uint) ([]*Integration, error)
	ListConnectedByProvider(ctx context.Context, provider vo.Provider) ([]*Integration, error)
	// DeleteByIDAndUser deletes the row scoped to the owning user and
	// reports whether a row existed.
	DeleteByIDAndUser(ctx context.Context, id, userID uint) (bool, error)
}

type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	Update(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, id uint) (*Device, error)
	GetBySID(ctx context.Context, sid string) (*Device, error)
	// GetByIntegrationAndProviderDeviceID returns nil, nil when no row exists.
	GetByIntegrationAndProviderDeviceID(ctx context.Context, integrationID uint, providerDeviceID string) (*Device, error)
	ListByIntegration(ctx context.Context, integrationID uint) ([]*Device, error)
	// ListLinkedByProvider resolves linked devices across all integrations
	// of the given provider, keyed by provider device ID.
	ListLinkedByProvider(ctx context.Context, provider vo.Provider) ([]*Device, error)
}
