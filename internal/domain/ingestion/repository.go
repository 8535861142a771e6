package ingestion

import "context"

type SensorReadingRepository interface {
	CreateBatch(ctx context.Context, readings []*SensorReading) error
	ListByDevice(ctx context.Context, deviceID uint, limit int) ([]*SensorReading, error)
}

type FailureRepository interface {
	Create(ctx context.Context, failure *Failure) error
	Update(ctx context.Context, failure *Failure) error
	GetByID(ctx context.Context, id uint) (*Failure, error)
	GetBySID(ctx context.Context, sid string) (*Failure, error)
	ListByStatus(ctx context.Context, status *FailureStatus, limit int) ([]*Failure, error)
	// ListDue returns pending failures ordered by next attempt time.
	ListDue(ctx context.Context, limit int) ([]*Failure, error)
	// Claim atomically moves a pending failure to processing, guarding the
	// transition on the attempt count observed by the caller. Returns false
	// when another worker claimed the row first.
	Claim(ctx context.Context, id uint, attempts int) (bool, error)
}
