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

type IntegrationDeviceRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IntegrationDeviceMapper
}

func NewIntegrationDeviceRepository(database *gorm.DB) integration.DeviceRepository {
	return &IntegrationDeviceRepositoryImpl{
		db:     database,
		mapper: mappers.NewIntegrationDeviceMapper(),
	}
}

func (r *IntegrationDeviceRepositoryImpl) Create(ctx context.Context, entity *integration.Device) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map device entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	entity.SetID(model.ID)
	return nil
}

func (r *IntegrationDeviceRepositoryImpl) Update(ctx context.Context, entity *integration.Device) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map device entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("device not found")
	}
	return nil
}

func (r *IntegrationDeviceRepositoryImpl) GetByID(ctx context.Context, id uint) (*integration.Device, error) {
	var model models.IntegrationDeviceModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("device not found")
		}
		return nil, fmt.Errorf("failed to get device by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationDeviceRepositoryImpl) GetBySID(ctx context.Context, sid string) (*integration.Device, error) {
	var model models.IntegrationDeviceModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("device not found")
		}
		return nil, fmt.Errorf("failed to get device by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationDeviceRepositoryImpl) GetByIntegrationAndProviderDeviceID(ctx context.Context, integrationID uint, providerDeviceID string) (*integration.Device, error) {
	var model models.IntegrationDeviceModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("integration_id = ? AND provider_device_id = ?", integrationID, providerDeviceID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get device by provider device ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationDeviceRepositoryImpl) ListByIntegration(ctx context.Context, integrationID uint) ([]*integration.Device, error) {
	var modelList []*models.IntegrationDeviceModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("integration_id = ?", integrationID).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list devices by integration: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *IntegrationDeviceRepositoryImpl) ListLinkedByProvider(ctx context.Context, provider vo.Provider) ([]*integration.Device, error) {
	var modelList []*models.IntegrationDeviceModel
	err := db.GetTxFromContext(ctx, r.db).
		Joins("JOIN integrations ON integrations.id = integration_devices.integration_id").
		Where("integrations.provider = ? AND integration_devices.status = ? AND integration_devices.pool_id IS NOT NULL",
			provider.String(), vo.DeviceStatusLinked.String()).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list linked devices by provider: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
