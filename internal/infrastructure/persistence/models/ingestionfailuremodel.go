package models

import (
	"time"

	"gorm.io/datatypes"

	"poolhub/internal/shared/constants"
)

// IngestionFailureModel represents the retry queue table. The stored headers
// and payload are the verified delivery exactly as received.
type IngestionFailureModel struct {
	ID            uint   `gorm:"primarykey"`
	SID           string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: igf_xxx"`
	Provider      string `gorm:"not null;size:50;index:idx_failure_provider"`
	Headers       datatypes.JSON
	Payload       []byte    `gorm:"type:mediumblob"`
	Status        string    `gorm:"not null;size:20;index:idx_status_next_attempt,priority:1"`
	Attempts      int       `gorm:"not null;default:0"`
	LastError     string    `gorm:"size:512"`
	NextAttemptAt time.Time `gorm:"not null;index:idx_status_next_attempt,priority:2"`
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (IngestionFailureModel) TableName() string {
	return constants.TableIngestionFailures
}
