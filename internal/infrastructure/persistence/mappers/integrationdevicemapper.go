package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/infrastructure/persistence/models"
)

type IntegrationDeviceMapper interface {
	ToEntity(model *models.IntegrationDeviceModel) (*integration.Device, error)
	ToModel(entity *integration.Device) (*models.IntegrationDeviceModel, error)
	ToEntities(models []*models.IntegrationDeviceModel) ([]*integration.Device, error)
}

type IntegrationDeviceMapperImpl struct{}

func NewIntegrationDeviceMapper() IntegrationDeviceMapper {
	return &IntegrationDeviceMapperImpl{}
}

func (m *IntegrationDeviceMapperImpl) ToEntity(model *models.IntegrationDeviceModel) (*integration.Device, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewDeviceStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return integration.ReconstructDevice(integration.DeviceReconstructParams{
		ID:               model.ID,
		SID:              model.SID,
		IntegrationID:    model.IntegrationID,
		ProviderDeviceID: model.ProviderDeviceID,
		DeviceType:       model.DeviceType,
		Label:            model.Label,
		PoolID:           model.PoolID,
		Status:           status,
		Metadata:         metadata,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}), nil
}

func (m *IntegrationDeviceMapperImpl) ToModel(entity *integration.Device) (*models.IntegrationDeviceModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadata datatypes.JSON
	if len(entity.Metadata()) > 0 {
		raw, err := json.Marshal(entity.Metadata())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = raw
	}

	return &models.IntegrationDeviceModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		IntegrationID:    entity.IntegrationID(),
		ProviderDeviceID: entity.ProviderDeviceID(),
		DeviceType:       entity.DeviceType(),
		Label:            entity.Label(),
		PoolID:           entity.PoolID(),
		Status:           entity.Status().String(),
		Metadata:         metadata,
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *IntegrationDeviceMapperImpl) ToEntities(list []*models.IntegrationDeviceModel) ([]*integration.Device, error) {
	entities := make([]*integration.Device, 0, len(list))
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
