package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"poolhub/internal/application/ingestion/dto"
	"poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/shared/logger"
	"poolhub/internal/shared/utils"
)

type listFailuresUseCase interface {
	Execute(ctx context.Context, cmd usecases.ListFailuresCommand) ([]*dto.FailureDTO, error)
}

type retryFailuresUseCase interface {
	Execute(ctx context.Context, cmd usecases.RetryFailuresCommand) (*usecases.RetryFailuresResult, error)
}

// IngestionAdminHandler exposes the retry queue to operators
type IngestionAdminHandler struct {
	listUseCase  listFailuresUseCase
	retryUseCase retryFailuresUseCase
	logger       logger.Interface
}

func NewIngestionAdminHandler(
	listUseCase listFailuresUseCase,
	retryUseCase retryFailuresUseCase,
	logger logger.Interface,
) *IngestionAdminHandler {
	return &IngestionAdminHandler{
		listUseCase:  listUseCase,
		retryUseCase: retryUseCase,
		logger:       logger,
	}
}

// ListFailures handles GET /admin/ingestion-failures
func (h *IngestionAdminHandler) ListFailures(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	cmd := usecases.ListFailuresCommand{
		Status: c.Query("status"),
		Limit:  limit,
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RetryFailures handles POST /admin/ingestion-failures/retry
func (h *IngestionAdminHandler) RetryFailures(c *gin.Context) {
	var body struct {
		FailureIDs  []string `json:"failure_ids"`
		Limit       int      `json:"limit"`
		MaxAttempts int      `json:"max_attempts"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	cmd := usecases.RetryFailuresCommand{
		Limit:       body.Limit,
		MaxAttempts: body.MaxAttempts,
		FailureIDs:  body.FailureIDs,
	}

	result, err := h.retryUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("manual retry sweep finished",
		"processed", result.Processed,
		"resolved", result.Resolved,
		"dead", result.Dead,
	)

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
