package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/shared/logger"
	"poolhub/internal/shared/utils"
)

// maxWebhookBody caps provider payloads at 1 MiB.
const maxWebhookBody = 1 << 20

type ingestWebhookUseCase interface {
	Execute(ctx context.Context, cmd usecases.IngestWebhookCommand) (*usecases.IngestWebhookResult, error)
}

// WebhookHandler handles inbound provider webhook deliveries
type WebhookHandler struct {
	ingestUseCase ingestWebhookUseCase
	logger        logger.Interface
}

func NewWebhookHandler(ingestUseCase ingestWebhookUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		ingestUseCase: ingestUseCase,
		logger:        logger,
	}
}

// Receive handles POST /webhooks/:provider
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := c.Param("provider")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxWebhookBody {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}

	cmd := usecases.IngestWebhookCommand{
		Provider: provider,
		Headers:  headers,
		Payload:  body,
	}

	result, err := h.ingestUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("webhook rejected", "provider", provider, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
