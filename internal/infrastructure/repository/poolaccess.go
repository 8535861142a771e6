package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"poolhub/internal/application/integration/usecases"
	"poolhub/internal/infrastructure/persistence/models"
	"poolhub/internal/shared/db"
	"poolhub/internal/shared/errors"
)

// PoolAccessCheckerImpl answers link consent checks against the local pools
// projection. A pool that exists but belongs to someone else is a forbidden,
// not a not-found: the caller named a real pool they cannot use.
type PoolAccessCheckerImpl struct {
	db *gorm.DB
}

func NewPoolAccessChecker(database *gorm.DB) usecases.PoolAccessChecker {
	return &PoolAccessCheckerImpl{db: database}
}

func (c *PoolAccessCheckerImpl) CheckAccess(ctx context.Context, userID, poolID uint) error {
	var model models.PoolModel
	if err := db.GetTxFromContext(ctx, c.db).First(&model, poolID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("pool not found")
		}
		return fmt.Errorf("failed to get pool: %w", err)
	}

	if model.UserID != userID {
		return errors.NewForbiddenError("pool belongs to another user")
	}
	return nil
}
