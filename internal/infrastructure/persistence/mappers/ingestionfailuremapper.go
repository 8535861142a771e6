package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"poolhub/internal/domain/ingestion"
	"poolhub/internal/infrastructure/persistence/models"
)

type IngestionFailureMapper interface {
	ToEntity(model *models.IngestionFailureModel) (*ingestion.Failure, error)
	ToModel(entity *ingestion.Failure) (*models.IngestionFailureModel, error)
	ToEntities(models []*models.IngestionFailureModel) ([]*ingestion.Failure, error)
}

type IngestionFailureMapperImpl struct{}

func NewIngestionFailureMapper() IngestionFailureMapper {
	return &IngestionFailureMapperImpl{}
}

func (m *IngestionFailureMapperImpl) ToEntity(model *models.IngestionFailureModel) (*ingestion.Failure, error) {
	if model == nil {
		return nil, nil
	}

	status, err := ingestion.NewFailureStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var headers map[string]string
	if model.Headers != nil {
		if err := json.Unmarshal(model.Headers, &headers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal headers: %w", err)
		}
	}

	return ingestion.ReconstructFailure(ingestion.FailureReconstructParams{
		ID:            model.ID,
		SID:           model.SID,
		Provider:      model.Provider,
		Headers:       headers,
		Payload:       model.Payload,
		Status:        status,
		Attempts:      model.Attempts,
		LastError:     model.LastError,
		NextAttemptAt: model.NextAttemptAt,
		ResolvedAt:    model.ResolvedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}), nil
}

func (m *IngestionFailureMapperImpl) ToModel(entity *ingestion.Failure) (*models.IngestionFailureModel, error) {
	if entity == nil {
		return nil, nil
	}

	headers, err := json.Marshal(entity.Headers())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal headers: %w", err)
	}

	return &models.IngestionFailureModel{
		ID:            entity.ID(),
		SID:           entity.SID(),
		Provider:      entity.Provider(),
		Headers:       datatypes.JSON(headers),
		Payload:       entity.Payload(),
		Status:        entity.Status().String(),
		Attempts:      entity.Attempts(),
		LastError:     entity.LastError(),
		NextAttemptAt: entity.NextAttemptAt(),
		ResolvedAt:    entity.ResolvedAt(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *IngestionFailureMapperImpl) ToEntities(list []*models.IngestionFailureModel) ([]*ingestion.Failure, error) {
	entities := make([]*ingestion.Failure, 0, len(list))
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
