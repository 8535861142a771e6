package models

import (
	"time"

	"gorm.io/datatypes"

	"poolhub/internal/shared/constants"
)

// IntegrationDeviceModel represents the database persistence model for
// provider-discovered devices.
type IntegrationDeviceModel struct {
	ID               uint    `gorm:"primarykey"`
	SID              string  `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: dev_xxx"`
	IntegrationID    uint    `gorm:"not null;uniqueIndex:idx_integration_provider_device,priority:1"`
	ProviderDeviceID string  `gorm:"not null;size:191;uniqueIndex:idx_integration_provider_device,priority:2"`
	DeviceType       string  `gorm:"not null;size:50"`
	Label            *string `gorm:"size:191"`
	PoolID           *uint   `gorm:"index:idx_pool"`
	Status           string  `gorm:"not null;size:20"`
	Metadata         datatypes.JSON
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (IntegrationDeviceModel) TableName() string {
	return constants.TableIntegrationDevices
}
