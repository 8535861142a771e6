package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"poolhub/internal/domain/ingestion"
	"poolhub/internal/infrastructure/persistence/mappers"
	"poolhub/internal/infrastructure/persistence/models"
	"poolhub/internal/shared/db"
)

type SensorReadingRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SensorReadingMapper
}

func NewSensorReadingRepository(database *gorm.DB) ingestion.SensorReadingRepository {
	return &SensorReadingRepositoryImpl{
		db:     database,
		mapper: mappers.NewSensorReadingMapper(),
	}
}

func (r *SensorReadingRepositoryImpl) CreateBatch(ctx context.Context, readings []*ingestion.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}

	modelList := make([]*models.SensorReadingModel, 0, len(readings))
	for _, reading := range readings {
		model, err := r.mapper.ToModel(reading)
		if err != nil {
			return fmt.Errorf("failed to map reading entity to model: %w", err)
		}
		modelList = append(modelList, model)
	}

	if err := db.GetTxFromContext(ctx, r.db).CreateInBatches(modelList, 100).Error; err != nil {
		return fmt.Errorf("failed to create readings: %w", err)
	}

	for i, model := range modelList {
		readings[i].SetID(model.ID)
	}
	return nil
}

func (r *SensorReadingRepositoryImpl) ListByDevice(ctx context.Context, deviceID uint, limit int) ([]*ingestion.SensorReading, error) {
	var modelList []*models.SensorReadingModel
	query := db.GetTxFromContext(ctx, r.db).
		Where("device_id = ?", deviceID).
		Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list readings by device: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
