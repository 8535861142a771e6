package dto

import "time"

type ReadingDTO struct {
	PoolID     uint      `json:"pool_id"`
	DeviceID   uint      `json:"device_id"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Unit       *string   `json:"unit,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Source     string    `json:"source"`
	Quality    *float64  `json:"quality,omitempty"`
}

// FailureDTO is the operator view of a dead-letter row. The stored payload is
// omitted; operators inspect it through the database when needed.
type FailureDTO struct {
	ID            string     `json:"id"`
	Provider      string     `json:"provider"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error"`
	NextAttemptAt time.Time  `json:"next_attempt_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
