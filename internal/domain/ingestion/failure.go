package ingestion

import (
	"fmt"
	"time"

	"poolhub/internal/shared/biztime"
	"poolhub/internal/shared/id"
	"poolhub/internal/shared/utils/logutil"
)

// FailureStatus is the lifecycle state of an ingestion failure.
// processing is the transient claim marker used by the retry sweep;
// resolved and dead are terminal.
type FailureStatus string

const (
	FailureStatusPending    FailureStatus = "pending"
	FailureStatusProcessing FailureStatus = "processing"
	FailureStatusResolved   FailureStatus = "resolved"
	FailureStatusDead       FailureStatus = "dead"
)

func NewFailureStatus(raw string) (FailureStatus, error) {
	s := FailureStatus(raw)
	switch s {
	case FailureStatusPending, FailureStatusProcessing, FailureStatusResolved, FailureStatusDead:
		return s, nil
	}
	return "", fmt.Errorf("invalid failure status: %s", raw)
}

func (s FailureStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the failure can never be reprocessed.
func (s FailureStatus) IsTerminal() bool {
	return s == FailureStatusResolved || s == FailureStatusDead
}

// Retry backoff parameters: 30s base doubling per attempt, capped at 15 minutes.
const (
	backoffBase = 30 * time.Second
	backoffMax  = 15 * time.Minute

	maxErrorLen = 512
)

// Backoff returns the delay before retry attempt n (1-based).
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := backoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= backoffMax {
			return backoffMax
		}
	}
	return d
}

// Failure is one durable record of a failed webhook-processing attempt.
// Created on first failure, mutated in place on each retry until terminal.
type Failure struct {
	id            uint
	sid           string
	provider      string
	headers       map[string]string
	payload       []byte
	status        FailureStatus
	attempts      int
	lastError     string
	nextAttemptAt time.Time
	resolvedAt    *time.Time

	createdAt time.Time
	updatedAt time.Time
}

// NewFailure records the first failed attempt for a webhook delivery.
func NewFailure(provider string, headers map[string]string, payload []byte, cause error) (*Failure, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if headers == nil {
		headers = make(map[string]string)
	}

	now := biztime.NowUTC()
	return &Failure{
		sid:           id.MustGenerateWithPrefix(id.PrefixIngestionFailure, id.DefaultLength),
		provider:      provider,
		headers:       headers,
		payload:       payload,
		status:        FailureStatusPending,
		attempts:      1,
		lastError:     logutil.TruncateForLog(cause.Error(), maxErrorLen),
		nextAttemptAt: now.Add(Backoff(1)),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// IsDue reports whether the failure is ready for another attempt.
func (f *Failure) IsDue(now time.Time) bool {
	return f.status == FailureStatusPending && !now.Before(f.nextAttemptAt)
}

// MarkResolved terminates the failure after a successful retry.
func (f *Failure) MarkResolved() error {
	if f.status.IsTerminal() {
		return fmt.Errorf("cannot resolve failure with terminal status %s", f.status)
	}
	now := biztime.NowUTC()
	f.status = FailureStatusResolved
	f.lastError = ""
	f.resolvedAt = &now
	f.updatedAt = now
	return nil
}

// MarkDead moves the failure straight to the dead letter without scheduling
// another attempt.
func (f *Failure) MarkDead(cause error) error {
	if f.status.IsTerminal() {
		return fmt.Errorf("cannot dead-letter failure with terminal status %s", f.status)
	}
	f.status = FailureStatusDead
	f.lastError = logutil.TruncateForLog(cause.Error(), maxErrorLen)
	f.updatedAt = biztime.NowUTC()
	return nil
}

// RegisterRetryFailure records another failed attempt. When the attempt
// ceiling is reached the failure goes dead and requires operator
// intervention; otherwise the next attempt is scheduled with backoff.
func (f *Failure) RegisterRetryFailure(cause error, maxAttempts int) error {
	if f.status.IsTerminal() {
		return fmt.Errorf("cannot retry failure with terminal status %s", f.status)
	}

	now := biztime.NowUTC()
	f.attempts++
	f.lastError = logutil.TruncateForLog(cause.Error(), maxErrorLen)
	f.updatedAt = now

	if f.attempts >= maxAttempts {
		f.status = FailureStatusDead
		return nil
	}

	f.status = FailureStatusPending
	f.nextAttemptAt = now.Add(Backoff(f.attempts))
	return nil
}

func (f *Failure) ID() uint {
	return f.id
}

func (f *Failure) SID() string {
	return f.sid
}

func (f *Failure) Provider() string {
	return f.provider
}

func (f *Failure) Headers() map[string]string {
	return f.headers
}

func (f *Failure) Payload() []byte {
	return f.payload
}

func (f *Failure) Status() FailureStatus {
	return f.status
}

func (f *Failure) Attempts() int {
	return f.attempts
}

func (f *Failure) LastError() string {
	return f.lastError
}

func (f *Failure) NextAttemptAt() time.Time {
	return f.nextAttemptAt
}

func (f *Failure) ResolvedAt() *time.Time {
	return f.resolvedAt
}

func (f *Failure) CreatedAt() time.Time {
	return f.createdAt
}

func (f *Failure) UpdatedAt() time.Time {
	return f.updatedAt
}

// SetID sets the failure ID after persistence.
func (f *Failure) SetID(id uint) {
	f.id = id
}

// FailureReconstructParams carries persisted state back into the domain.
type FailureReconstructParams struct {
	ID            uint
	SID           string
	Provider      string
	Headers       map[string]string
	Payload       []byte
	Status        FailureStatus
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructFailure(p FailureReconstructParams) *Failure {
	headers := p.Headers
	if headers == nil {
		headers = make(map[string]string)
	}
	return &Failure{
		id:            p.ID,
		sid:           p.SID,
		provider:      p.Provider,
		headers:       headers,
		payload:       p.Payload,
		status:        p.Status,
		attempts:      p.Attempts,
		lastError:     p.LastError,
		nextAttemptAt: p.NextAttemptAt,
		resolvedAt:    p.ResolvedAt,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}
