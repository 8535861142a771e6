package models

import (
	"time"

	"gorm.io/datatypes"

	"poolhub/internal/shared/constants"
)

// IntegrationModel represents the database persistence model for provider
// integrations. This is the anti-corruption layer between domain and database.
type IntegrationModel struct {
	ID                uint   `gorm:"primarykey"`
	SID               string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: itg_xxx"`
	UserID            uint   `gorm:"not null;uniqueIndex:idx_user_provider,priority:1"`
	Provider          string `gorm:"not null;size:50;uniqueIndex:idx_user_provider,priority:2;index:idx_provider_status,priority:1"`
	Status            string `gorm:"not null;size:20;index:idx_provider_status,priority:2"`
	Scopes            datatypes.JSON
	ExternalAccountID *string `gorm:"size:191"`
	Credentials       datatypes.JSON
	LastPolledAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (IntegrationModel) TableName() string {
	return constants.TableIntegrations
}
