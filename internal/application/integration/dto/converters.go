package dto

import (
	"poolhub/internal/domain/integration"
)

func ToIntegrationDTO(itg *integration.Integration) *IntegrationDTO {
	if itg == nil {
		return nil
	}

	masked := map[string]interface{}{}
	if creds := itg.Credentials(); creds != nil {
		masked = creds.Masked()
	}

	scopes := itg.Scopes()
	if scopes == nil {
		scopes = []string{}
	}

	return &IntegrationDTO{
		ID:                itg.SID(),
		Provider:          itg.Provider().String(),
		Status:            itg.Status().String(),
		Scopes:            scopes,
		ExternalAccountID: itg.ExternalAccountID(),
		Credentials:       masked,
		LastPolledAt:      itg.LastPolledAt(),
		CreatedAt:         itg.CreatedAt(),
		UpdatedAt:         itg.UpdatedAt(),
	}
}

func ToIntegrationDTOList(items []*integration.Integration) []*IntegrationDTO {
	dtos := make([]*IntegrationDTO, 0, len(items))
	for _, item := range items {
		if item != nil {
			dtos = append(dtos, ToIntegrationDTO(item))
		}
	}
	return dtos
}

func ToDeviceDTO(device *integration.Device) *DeviceDTO {
	if device == nil {
		return nil
	}

	return &DeviceDTO{
		ID:               device.SID(),
		ProviderDeviceID: device.ProviderDeviceID(),
		DeviceType:       device.DeviceType(),
		Label:            device.Label(),
		PoolID:           device.PoolID(),
		Status:           device.Status().String(),
		Metadata:         device.Metadata(),
		CreatedAt:        device.CreatedAt(),
		UpdatedAt:        device.UpdatedAt(),
	}
}

func ToDeviceDTOList(devices []*integration.Device) []*DeviceDTO {
	dtos := make([]*DeviceDTO, 0, len(devices))
	for _, device := range devices {
		if device != nil {
			dtos = append(dtos, ToDeviceDTO(device))
		}
	}
	return dtos
}
