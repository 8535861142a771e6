package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/infrastructure/persistence/mappers"
	"poolhub/internal/infrastructure/persistence/models"
	"poolhub/internal/shared/db"
	"poolhub/internal/shared/errors"
)

type IntegrationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IntegrationMapper
}

func NewIntegrationRepository(database *gorm.DB) integration.IntegrationRepository {
	return &IntegrationRepositoryImpl{
		db:     database,
		mapper: mappers.NewIntegrationMapper(),
	}
}

func (r *IntegrationRepositoryImpl) Create(ctx context.Context, entity *integration.Integration) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map integration entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create integration: %w", err)
	}

	entity.SetID(model.ID)
	return nil
}

func (r *IntegrationRepositoryImpl) Update(ctx context.Context, entity *integration.Integration) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map integration entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update integration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("integration not found")
	}
	return nil
}

func (r *IntegrationRepositoryImpl) GetByID(ctx context.Context, id uint) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("integration not found")
		}
		return nil, fmt.Errorf("failed to get integration by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationRepositoryImpl) GetBySID(ctx context.Context, sid string) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("integration not found")
		}
		return nil, fmt.Errorf("failed to get integration by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationRepositoryImpl) GetByUserAndProvider(ctx context.Context, userID uint, provider vo.Provider) (*integration.Integration, error) {
	var model models.IntegrationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND provider = ?", userID, provider.String()).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get integration by user and provider: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*integration.Integration, error) {
	var modelList []*models.IntegrationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations by user: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *IntegrationRepositoryImpl) ListConnectedByProvider(ctx context.Context, provider vo.Provider) ([]*integration.Integration, error) {
	var modelList []*models.IntegrationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND status = ?", provider.String(), vo.IntegrationStatusConnected.String()).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations by provider: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *IntegrationRepositoryImpl) DeleteByIDAndUser(ctx context.Context, id, userID uint) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.IntegrationModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete integration: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
