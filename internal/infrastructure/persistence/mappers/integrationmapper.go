package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/infrastructure/persistence/models"
)

type IntegrationMapper interface {
	ToEntity(model *models.IntegrationModel) (*integration.Integration, error)
	ToModel(entity *integration.Integration) (*models.IntegrationModel, error)
	ToEntities(models []*models.IntegrationModel) ([]*integration.Integration, error)
}

type IntegrationMapperImpl struct{}

func NewIntegrationMapper() IntegrationMapper {
	return &IntegrationMapperImpl{}
}

func (m *IntegrationMapperImpl) ToEntity(model *models.IntegrationModel) (*integration.Integration, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewIntegrationStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var scopes []string
	if model.Scopes != nil {
		if err := json.Unmarshal(model.Scopes, &scopes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scopes: %w", err)
		}
	}

	var credentials vo.Credentials
	if model.Credentials != nil {
		var raw map[string]interface{}
		if err := json.Unmarshal(model.Credentials, &raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
		}
		credentials = vo.CredentialsFromMap(vo.Provider(model.Provider), raw)
	}

	return integration.ReconstructIntegration(integration.IntegrationReconstructParams{
		ID:                model.ID,
		SID:               model.SID,
		UserID:            model.UserID,
		Provider:          vo.Provider(model.Provider),
		Status:            status,
		Scopes:            scopes,
		ExternalAccountID: model.ExternalAccountID,
		Credentials:       credentials,
		LastPolledAt:      model.LastPolledAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}), nil
}

func (m *IntegrationMapperImpl) ToModel(entity *integration.Integration) (*models.IntegrationModel, error) {
	if entity == nil {
		return nil, nil
	}

	scopes, err := json.Marshal(entity.Scopes())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scopes: %w", err)
	}

	var credentials datatypes.JSON
	if creds := entity.Credentials(); creds != nil {
		raw, err := json.Marshal(creds.ToMap())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal credentials: %w", err)
		}
		credentials = raw
	}

	return &models.IntegrationModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		UserID:            entity.UserID(),
		Provider:          entity.Provider().String(),
		Status:            entity.Status().String(),
		Scopes:            scopes,
		ExternalAccountID: entity.ExternalAccountID(),
		Credentials:       credentials,
		LastPolledAt:      entity.LastPolledAt(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}, nil
}

func (m *IntegrationMapperImpl) ToEntities(list []*models.IntegrationModel) ([]*integration.Integration, error) {
	entities := make([]*integration.Integration, 0, len(list))
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
