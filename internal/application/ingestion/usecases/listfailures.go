package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/ingestion/dto"
	"poolhub/internal/domain/ingestion"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

type ListFailuresCommand struct {
	// Status filters by lifecycle state. Empty means all states.
	Status string
	Limit  int
}

type ListFailuresUseCase struct {
	failureRepo ingestion.FailureRepository
	logger      logger.Interface
}

func NewListFailuresUseCase(
	failureRepo ingestion.FailureRepository,
	logger logger.Interface,
) *ListFailuresUseCase {
	return &ListFailuresUseCase{
		failureRepo: failureRepo,
		logger:      logger,
	}
}

func (uc *ListFailuresUseCase) Execute(ctx context.Context, cmd ListFailuresCommand) ([]*dto.FailureDTO, error) {
	var status *ingestion.FailureStatus
	if cmd.Status != "" {
		s, err := ingestion.NewFailureStatus(cmd.Status)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		status = &s
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = 100
	}

	failures, err := uc.failureRepo.ListByStatus(ctx, status, limit)
	if err != nil {
		uc.logger.Errorw("failed to list ingestion failures", "error", err)
		return nil, fmt.Errorf("failed to list ingestion failures: %w", err)
	}
	return dto.ToFailureDTOList(failures), nil
}
