package models

import (
	"time"

	"poolhub/internal/shared/constants"
)

// PoolModel is the minimal pool table consulted by the link consent check.
// Pool management itself lives in another service; this table is a local
// projection keyed by owner.
type PoolModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index:idx_pool_user"`
	Name      string `gorm:"not null;size:191"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (PoolModel) TableName() string {
	return constants.TablePools
}
