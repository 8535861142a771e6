package handlers

import (
	"context"

	ingdto "poolhub/internal/application/ingestion/dto"
	ingestionUC "poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/application/integration/dto"
	"poolhub/internal/application/integration/usecases"
)

// Use case interfaces for IntegrationHandler

type connectIntegrationUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConnectIntegrationCommand) (*dto.IntegrationDTO, error)
}

type disconnectIntegrationUseCase interface {
	Execute(ctx context.Context, cmd usecases.DisconnectIntegrationCommand) error
}

type listIntegrationsUseCase interface {
	Execute(ctx context.Context, userID uint) ([]*dto.IntegrationDTO, error)
}

type discoverDevicesUseCase interface {
	Execute(ctx context.Context, cmd usecases.DiscoverDevicesCommand) ([]*dto.DeviceDTO, error)
}

type listDevicesUseCase interface {
	Execute(ctx context.Context, cmd usecases.ListDevicesCommand) ([]*dto.DeviceDTO, error)
}

type linkDeviceToPoolUseCase interface {
	Execute(ctx context.Context, cmd usecases.LinkDeviceToPoolCommand) (*dto.DeviceDTO, error)
}

type getDeviceReadingsUseCase interface {
	Execute(ctx context.Context, cmd ingestionUC.GetDeviceReadingsCommand) ([]*ingdto.ReadingDTO, error)
}
