package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"poolhub/internal/domain/ingestion"
	"poolhub/internal/infrastructure/persistence/models"
)

type SensorReadingMapper interface {
	ToEntity(model *models.SensorReadingModel) (*ingestion.SensorReading, error)
	ToModel(entity *ingestion.SensorReading) (*models.SensorReadingModel, error)
	ToEntities(models []*models.SensorReadingModel) ([]*ingestion.SensorReading, error)
}

type SensorReadingMapperImpl struct{}

func NewSensorReadingMapper() SensorReadingMapper {
	return &SensorReadingMapperImpl{}
}

func (m *SensorReadingMapperImpl) ToEntity(model *models.SensorReadingModel) (*ingestion.SensorReading, error) {
	if model == nil {
		return nil, nil
	}

	var rawPayload map[string]interface{}
	if model.RawPayload != nil {
		if err := json.Unmarshal(model.RawPayload, &rawPayload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raw payload: %w", err)
		}
	}

	return ingestion.ReconstructSensorReading(ingestion.SensorReadingReconstructParams{
		ID:            model.ID,
		PoolID:        model.PoolID,
		IntegrationID: model.IntegrationID,
		DeviceID:      model.DeviceID,
		Metric:        model.Metric,
		Value:         model.Value,
		Unit:          model.Unit,
		RecordedAt:    model.RecordedAt,
		Source:        model.Source,
		Quality:       model.Quality,
		RawPayload:    rawPayload,
		CreatedAt:     model.CreatedAt,
	}), nil
}

func (m *SensorReadingMapperImpl) ToModel(entity *ingestion.SensorReading) (*models.SensorReadingModel, error) {
	if entity == nil {
		return nil, nil
	}

	var rawPayload datatypes.JSON
	if len(entity.RawPayload()) > 0 {
		raw, err := json.Marshal(entity.RawPayload())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal raw payload: %w", err)
		}
		rawPayload = raw
	}

	return &models.SensorReadingModel{
		ID:            entity.ID(),
		PoolID:        entity.PoolID(),
		IntegrationID: entity.IntegrationID(),
		DeviceID:      entity.DeviceID(),
		Metric:        entity.Metric(),
		Value:         entity.Value(),
		Unit:          entity.Unit(),
		RecordedAt:    entity.RecordedAt(),
		Source:        entity.Source(),
		Quality:       entity.Quality(),
		RawPayload:    rawPayload,
		CreatedAt:     entity.CreatedAt(),
	}, nil
}

func (m *SensorReadingMapperImpl) ToEntities(list []*models.SensorReadingModel) ([]*ingestion.SensorReading, error) {
	entities := make([]*ingestion.SensorReading, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
