package models

import (
	"time"

	"gorm.io/datatypes"

	"poolhub/internal/shared/constants"
)

// SensorReadingModel represents the append-only telemetry table. Rows are
// inserted in batches and never updated; there is no soft delete.
type SensorReadingModel struct {
	ID            uint      `gorm:"primarykey"`
	PoolID        uint      `gorm:"not null;index:idx_pool_metric_time,priority:1"`
	IntegrationID uint      `gorm:"not null;index:idx_integration"`
	DeviceID      uint      `gorm:"not null;index:idx_device_time,priority:1"`
	Metric        string    `gorm:"not null;size:50;index:idx_pool_metric_time,priority:2"`
	Value         float64   `gorm:"not null"`
	Unit          *string   `gorm:"size:20"`
	RecordedAt    time.Time `gorm:"not null;index:idx_device_time,priority:2;index:idx_pool_metric_time,priority:3"`
	Source        string    `gorm:"not null;size:20"`
	Quality       *float64
	RawPayload    datatypes.JSON
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM
func (SensorReadingModel) TableName() string {
	return constants.TableSensorReadings
}
