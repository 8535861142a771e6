package ingestion

import (
	"fmt"
	"time"

	"poolhub/internal/shared/biztime"
)

// SensorReading is an append-only measurement fact. Created only by
// successful ingestion (webhook or poll), never updated or deleted.
// Source carries the name of the provider the reading came from.
type SensorReading struct {
	id            uint
	poolID        uint
	integrationID uint
	deviceID      uint
	metric        string
	value         float64
	unit          *string
	recordedAt    time.Time
	source        string
	quality       *float64
	rawPayload    map[string]interface{}

	createdAt time.Time
}

func NewSensorReading(poolID, integrationID, deviceID uint, metric string, value float64, unit *string, recordedAt time.Time, source string, quality *float64, rawPayload map[string]interface{}) (*SensorReading, error) {
	if poolID == 0 {
		return nil, fmt.Errorf("pool ID is required")
	}
	if integrationID == 0 {
		return nil, fmt.Errorf("integration ID is required")
	}
	if deviceID == 0 {
		return nil, fmt.Errorf("device ID is required")
	}
	if metric == "" {
		return nil, fmt.Errorf("metric is required")
	}
	if recordedAt.IsZero() {
		recordedAt = biztime.NowUTC()
	}

	return &SensorReading{
		poolID:        poolID,
		integrationID: integrationID,
		deviceID:      deviceID,
		metric:        metric,
		value:         value,
		unit:          unit,
		recordedAt:    recordedAt.UTC(),
		source:        source,
		quality:       quality,
		rawPayload:    rawPayload,
		createdAt:     biztime.NowUTC(),
	}, nil
}

func (r *SensorReading) ID() uint {
	return r.id
}

func (r *SensorReading) PoolID() uint {
	return r.poolID
}

func (r *SensorReading) IntegrationID() uint {
	return r.integrationID
}

func (r *SensorReading) DeviceID() uint {
	return r.deviceID
}

func (r *SensorReading) Metric() string {
	return r.metric
}

func (r *SensorReading) Value() float64 {
	return r.value
}

func (r *SensorReading) Unit() *string {
	return r.unit
}

func (r *SensorReading) RecordedAt() time.Time {
	return r.recordedAt
}

func (r *SensorReading) Source() string {
	return r.source
}

func (r *SensorReading) Quality() *float64 {
	return r.quality
}

func (r *SensorReading) RawPayload() map[string]interface{} {
	return r.rawPayload
}

func (r *SensorReading) CreatedAt() time.Time {
	return r.createdAt
}

// SetID sets the reading ID after persistence.
func (r *SensorReading) SetID(id uint) {
	r.id = id
}

// SensorReadingReconstructParams carries persisted state back into the domain.
type SensorReadingReconstructParams struct {
	ID            uint
	PoolID        uint
	IntegrationID uint
	DeviceID      uint
	Metric        string
	Value         float64
	Unit          *string
	RecordedAt    time.Time
	Source        string
	Quality       *float64
	RawPayload    map[string]interface{}
	CreatedAt     time.Time
}

func ReconstructSensorReading(p SensorReadingReconstructParams) *SensorReading {
	return &SensorReading{
		id:            p.ID,
		poolID:        p.PoolID,
		integrationID: p.IntegrationID,
		deviceID:      p.DeviceID,
		metric:        p.Metric,
		value:         p.Value,
		unit:          p.Unit,
		recordedAt:    p.RecordedAt,
		source:        p.Source,
		quality:       p.Quality,
		rawPayload:    p.RawPayload,
		createdAt:     p.CreatedAt,
	}
}
