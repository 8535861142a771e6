package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"poolhub/internal/domain/ingestion"
	"poolhub/internal/infrastructure/persistence/mappers"
	"poolhub/internal/infrastructure/persistence/models"
	"poolhub/internal/shared/biztime"
	"poolhub/internal/shared/db"
	"poolhub/internal/shared/errors"
)

// staleClaimAge is how long a processing row may sit untouched before the
// sweep treats its claim as abandoned. A worker that crashed between claiming
// and recording the outcome leaves the row in processing; after this long it
// becomes claimable again.
const staleClaimAge = 10 * time.Minute

type IngestionFailureRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IngestionFailureMapper
}

func NewIngestionFailureRepository(database *gorm.DB) ingestion.FailureRepository {
	return &IngestionFailureRepositoryImpl{
		db:     database,
		mapper: mappers.NewIngestionFailureMapper(),
	}
}

func (r *IngestionFailureRepositoryImpl) Create(ctx context.Context, entity *ingestion.Failure) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map failure entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ingestion failure: %w", err)
	}

	entity.SetID(model.ID)
	return nil
}

func (r *IngestionFailureRepositoryImpl) Update(ctx context.Context, entity *ingestion.Failure) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map failure entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ingestion failure: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("ingestion failure not found")
	}
	return nil
}

func (r *IngestionFailureRepositoryImpl) GetByID(ctx context.Context, id uint) (*ingestion.Failure, error) {
	var model models.IngestionFailureModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ingestion failure not found")
		}
		return nil, fmt.Errorf("failed to get ingestion failure by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IngestionFailureRepositoryImpl) GetBySID(ctx context.Context, sid string) (*ingestion.Failure, error) {
	var model models.IngestionFailureModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ingestion failure not found")
		}
		return nil, fmt.Errorf("failed to get ingestion failure by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IngestionFailureRepositoryImpl) ListByStatus(ctx context.Context, status *ingestion.FailureStatus, limit int) ([]*ingestion.Failure, error) {
	var modelList []*models.IngestionFailureModel
	query := db.GetTxFromContext(ctx, r.db).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", status.String())
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingestion failures: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *IngestionFailureRepositoryImpl) ListDue(ctx context.Context, limit int) ([]*ingestion.Failure, error) {
	now := biztime.NowUTC()
	var modelList []*models.IngestionFailureModel
	query := db.GetTxFromContext(ctx, r.db).
		Where("(status = ? AND next_attempt_at <= ?) OR (status = ? AND updated_at <= ?)",
			ingestion.FailureStatusPending.String(), now,
			ingestion.FailureStatusProcessing.String(), now.Add(-staleClaimAge)).
		Order("next_attempt_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list due ingestion failures: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

// Claim flips one pending row to processing with a conditional update. The
// attempts guard makes the claim race-safe across workers: whoever updates
// the row first wins, everyone else sees zero rows affected. A processing
// row can be reclaimed once its claim has gone stale; the winner's update
// refreshes updated_at, which invalidates the staleness condition for
// everyone else.
func (r *IngestionFailureRepositoryImpl) Claim(ctx context.Context, id uint, attempts int) (bool, error) {
	now := biztime.NowUTC()
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.IngestionFailureModel{}).
		Where("id = ? AND attempts = ? AND (status = ? OR (status = ? AND updated_at <= ?))",
			id, attempts,
			ingestion.FailureStatusPending.String(),
			ingestion.FailureStatusProcessing.String(), now.Add(-staleClaimAge)).
		Updates(map[string]interface{}{
			"status":     ingestion.FailureStatusProcessing.String(),
			"updated_at": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim ingestion failure: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
