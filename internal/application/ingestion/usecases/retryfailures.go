package usecases

import (
	"context"
	"fmt"

	"poolhub/internal/application/integration/adapters"
	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/goroutine"
	"poolhub/internal/shared/logger"
)

// DeadLetterNotifier alerts operators when a failure exhausts its attempts.
// Notification is best effort; a delivery stays dead either way.
type DeadLetterNotifier interface {
	NotifyDead(ctx context.Context, failure *ingestion.Failure) error
}

type RetryFailuresCommand struct {
	// Limit bounds one sweep. Zero means the configured default.
	Limit int
	// MaxAttempts overrides the configured dead-letter ceiling for this
	// sweep. Zero means the configured default.
	MaxAttempts int
	// FailureIDs forces specific rows regardless of their backoff window.
	// Empty means sweep everything due.
	FailureIDs []string
}

type RetryFailuresResult struct {
	Processed int `json:"processed"`
	Resolved  int `json:"resolved"`
	Dead      int `json:"dead"`
	Pending   int `json:"pending"`
}

type RetryFailuresUseCase struct {
	registry    *adapters.Registry
	failureRepo ingestion.FailureRepository
	resolver    *readingResolver
	notifier    DeadLetterNotifier
	disabled    map[vo.Provider]bool
	maxAttempts int
	sweepLimit  int
	logger      logger.Interface
}

func NewRetryFailuresUseCase(
	registry *adapters.Registry,
	deviceRepo integration.DeviceRepository,
	readingRepo ingestion.SensorReadingRepository,
	failureRepo ingestion.FailureRepository,
	notifier DeadLetterNotifier,
	disabled map[vo.Provider]bool,
	maxAttempts int,
	sweepLimit int,
	logger logger.Interface,
) *RetryFailuresUseCase {
	return &RetryFailuresUseCase{
		registry:    registry,
		failureRepo: failureRepo,
		resolver:    newReadingResolver(deviceRepo, readingRepo, logger),
		notifier:    notifier,
		disabled:    disabled,
		maxAttempts: maxAttempts,
		sweepLimit:  sweepLimit,
		logger:      logger,
	}
}

func (uc *RetryFailuresUseCase) Execute(ctx context.Context, cmd RetryFailuresCommand) (*RetryFailuresResult, error) {
	failures, err := uc.collect(ctx, cmd)
	if err != nil {
		return nil, err
	}

	maxAttempts := cmd.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = uc.maxAttempts
	}

	result := &RetryFailuresResult{}
	for _, failure := range failures {
		claimed, err := uc.failureRepo.Claim(ctx, failure.ID(), failure.Attempts())
		if err != nil {
			uc.logger.Errorw("failed to claim failure", "error", err, "failure_id", failure.SID())
			continue
		}
		if !claimed {
			// another worker got there first
			continue
		}

		result.Processed++
		uc.retryOne(ctx, failure, maxAttempts, result)
	}

	if result.Processed > 0 {
		uc.logger.Infow("retry sweep completed",
			"processed", result.Processed,
			"resolved", result.Resolved,
			"dead", result.Dead,
			"pending", result.Pending,
		)
	}
	return result, nil
}

func (uc *RetryFailuresUseCase) collect(ctx context.Context, cmd RetryFailuresCommand) ([]*ingestion.Failure, error) {
	if len(cmd.FailureIDs) > 0 {
		failures := make([]*ingestion.Failure, 0, len(cmd.FailureIDs))
		for _, sid := range cmd.FailureIDs {
			failure, err := uc.failureRepo.GetBySID(ctx, sid)
			if err != nil {
				return nil, err
			}
			if failure.Status().IsTerminal() {
				return nil, apperrors.NewConflictError(fmt.Sprintf("failure %s is already %s", sid, failure.Status()))
			}
			failures = append(failures, failure)
		}
		return failures, nil
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = uc.sweepLimit
	}
	failures, err := uc.failureRepo.ListDue(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due failures: %w", err)
	}
	return failures, nil
}

// retryOne replays one stored delivery. The payload was verified at intake,
// so the replay skips signature checks and goes straight to parsing. The
// provider policy does get re-checked: a removed provider can never accept
// the delivery again, and a disabled one must wait until it is re-enabled.
func (uc *RetryFailuresUseCase) retryOne(ctx context.Context, failure *ingestion.Failure, maxAttempts int, result *RetryFailuresResult) {
	provider := vo.Provider(failure.Provider())
	if provider.IsRemoved() {
		uc.killFailure(ctx, failure, apperrors.NewProviderRemovedError(provider.String()), result)
		return
	}

	var replayErr error
	if uc.disabled[provider] {
		replayErr = apperrors.NewProviderDisabledError(provider.String())
	} else {
		replayErr = uc.replay(ctx, uc.registry.ForProvider(provider), provider, failure)
	}
	if replayErr == nil {
		if err := failure.MarkResolved(); err != nil {
			uc.logger.Errorw("failed to resolve failure", "error", err, "failure_id", failure.SID())
			return
		}
		if err := uc.failureRepo.Update(ctx, failure); err != nil {
			uc.logger.Errorw("failed to persist resolved failure", "error", err, "failure_id", failure.SID())
			return
		}
		result.Resolved++
		return
	}

	if err := failure.RegisterRetryFailure(replayErr, maxAttempts); err != nil {
		uc.logger.Errorw("failed to register retry outcome", "error", err, "failure_id", failure.SID())
		return
	}
	if err := uc.failureRepo.Update(ctx, failure); err != nil {
		uc.logger.Errorw("failed to persist retry outcome", "error", err, "failure_id", failure.SID())
		return
	}

	if failure.Status() == ingestion.FailureStatusDead {
		result.Dead++
		uc.notifyDead(failure)
		return
	}
	result.Pending++
}

// killFailure dead-letters a delivery without burning an attempt; no number
// of retries can make the replay succeed.
func (uc *RetryFailuresUseCase) killFailure(ctx context.Context, failure *ingestion.Failure, cause error, result *RetryFailuresResult) {
	if err := failure.MarkDead(cause); err != nil {
		uc.logger.Errorw("failed to dead-letter failure", "error", err, "failure_id", failure.SID())
		return
	}
	if err := uc.failureRepo.Update(ctx, failure); err != nil {
		uc.logger.Errorw("failed to persist dead failure", "error", err, "failure_id", failure.SID())
		return
	}
	result.Dead++
	uc.notifyDead(failure)
}

// notifyDead alerts operators in the background. The notification is best
// effort and must not block the sweep, and the sweep context may already be
// gone by the time the mail goes out.
func (uc *RetryFailuresUseCase) notifyDead(failure *ingestion.Failure) {
	uc.logger.Warnw("failure moved to dead letter",
		"failure_id", failure.SID(),
		"provider", failure.Provider(),
		"attempts", failure.Attempts(),
	)
	if uc.notifier == nil {
		return
	}
	goroutine.SafeGo(uc.logger, "dead-letter-notify", func() {
		if err := uc.notifier.NotifyDead(context.Background(), failure); err != nil {
			uc.logger.Warnw("dead letter notification failed", "error", err, "failure_id", failure.SID())
		}
	})
}

func (uc *RetryFailuresUseCase) replay(ctx context.Context, adapter adapters.Adapter, provider vo.Provider, failure *ingestion.Failure) error {
	parsed, err := adapter.Webhook(failure.Headers(), failure.Payload())
	if err != nil {
		return err
	}
	if !parsed.Accepted {
		return apperrors.NewValidationError("stored payload no longer parses")
	}
	if _, err := uc.resolver.store(ctx, provider, parsed.Readings); err != nil {
		return err
	}
	return nil
}
