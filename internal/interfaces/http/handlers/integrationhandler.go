package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ingestionUC "poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/application/integration/usecases"
	"poolhub/internal/interfaces/http/middleware"
	"poolhub/internal/shared/logger"
	"poolhub/internal/shared/utils"
)

// IntegrationHandler handles integration lifecycle HTTP requests
type IntegrationHandler struct {
	connectUseCase     connectIntegrationUseCase
	disconnectUseCase  disconnectIntegrationUseCase
	listUseCase        listIntegrationsUseCase
	discoverUseCase    discoverDevicesUseCase
	listDevicesUseCase listDevicesUseCase
	linkUseCase        linkDeviceToPoolUseCase
	readingsUseCase    getDeviceReadingsUseCase
	logger             logger.Interface
}

func NewIntegrationHandler(
	connectUseCase connectIntegrationUseCase,
	disconnectUseCase disconnectIntegrationUseCase,
	listUseCase listIntegrationsUseCase,
	discoverUseCase discoverDevicesUseCase,
	listDevicesUseCase listDevicesUseCase,
	linkUseCase linkDeviceToPoolUseCase,
	readingsUseCase getDeviceReadingsUseCase,
	logger logger.Interface,
) *IntegrationHandler {
	return &IntegrationHandler{
		connectUseCase:     connectUseCase,
		disconnectUseCase:  disconnectUseCase,
		listUseCase:        listUseCase,
		discoverUseCase:    discoverUseCase,
		listDevicesUseCase: listDevicesUseCase,
		linkUseCase:        linkUseCase,
		readingsUseCase:    readingsUseCase,
		logger:             logger,
	}
}

// Connect handles POST /integrations/:provider/connect
func (h *IntegrationHandler) Connect(c *gin.Context) {
	h.connect(c, false)
}

// Callback handles POST /integrations/:provider/callback
func (h *IntegrationHandler) Callback(c *gin.Context) {
	h.connect(c, true)
}

func (h *IntegrationHandler) connect(c *gin.Context, callback bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// the route wildcard is shared with the SID-scoped routes, so the
	// provider name arrives under "id"
	cmd := usecases.ConnectIntegrationCommand{
		UserID:   userID,
		Provider: c.Param("id"),
		Payload:  payload,
		Callback: callback,
	}

	result, err := h.connectUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("integration connect failed", "provider", cmd.Provider, "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// List handles GET /integrations
func (h *IntegrationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Disconnect handles DELETE /integrations/:id
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	cmd := usecases.DisconnectIntegrationCommand{
		UserID:        userID,
		IntegrationID: c.Param("id"),
	}

	if err := h.disconnectUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// DiscoverDevices handles POST /integrations/:id/devices/discover
func (h *IntegrationHandler) DiscoverDevices(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := usecases.DiscoverDevicesCommand{
		UserID:        userID,
		IntegrationID: c.Param("id"),
		Payload:       payload,
	}

	result, err := h.discoverUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListDevices handles GET /integrations/:id/devices
func (h *IntegrationHandler) ListDevices(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	cmd := usecases.ListDevicesCommand{
		UserID:        userID,
		IntegrationID: c.Param("id"),
	}

	result, err := h.listDevicesUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// LinkDevice handles POST /integrations/:id/devices/:deviceId/link
func (h *IntegrationHandler) LinkDevice(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var body struct {
		PoolID uint `json:"pool_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "pool_id is required")
		return
	}

	cmd := usecases.LinkDeviceToPoolCommand{
		UserID:        userID,
		IntegrationID: c.Param("id"),
		DeviceID:      c.Param("deviceId"),
		PoolID:        body.PoolID,
	}

	result, err := h.linkUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DeviceReadings handles GET /integrations/:id/devices/:deviceId/readings
func (h *IntegrationHandler) DeviceReadings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	cmd := ingestionUC.GetDeviceReadingsCommand{
		UserID:        userID,
		IntegrationID: c.Param("id"),
		DeviceID:      c.Param("deviceId"),
		Limit:         limit,
	}

	result, err := h.readingsUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
