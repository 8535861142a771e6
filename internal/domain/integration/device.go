package integration

import (
	"fmt"
	"time"

	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/biztime"
	"poolhub/internal/shared/id"
)

// Device is a physical device a provider adapter has reported for an
// integration. Invariant: unique per (integrationID, providerDeviceID).
// A device is invisible to ingestion until it is linked to a pool.
type Device struct {
	id               uint
	sid              string
	integrationID    uint
	providerDeviceID string
	deviceType       string
	label            *string
	poolID           *uint
	status           vo.DeviceStatus
	metadata         map[string]interface{}

	createdAt time.Time
	updatedAt time.Time
}

func NewDevice(integrationID uint, providerDeviceID, deviceType string, label *string, metadata map[string]interface{}) (*Device, error) {
	if integrationID == 0 {
		return nil, fmt.Errorf("integration ID is required")
	}
	if providerDeviceID == "" {
		return nil, fmt.Errorf("provider device ID is required")
	}
	if deviceType == "" {
		deviceType = "unknown"
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	now := biztime.NowUTC()
	return &Device{
		sid:              id.MustGenerateWithPrefix(id.PrefixDevice, id.DefaultLength),
		integrationID:    integrationID,
		providerDeviceID: providerDeviceID,
		deviceType:       deviceType,
		label:            label,
		status:           vo.DeviceStatusDiscovered,
		metadata:         metadata,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Refresh updates mutable discovery fields and resets the device to
// discovered. Re-discovery revokes a stale link only in status, not the
// pool binding itself; a linked device keeps its pool.
func (d *Device) Refresh(deviceType string, label *string, metadata map[string]interface{}) {
	if deviceType != "" {
		d.deviceType = deviceType
	}
	if label != nil {
		d.label = label
	}
	if metadata != nil {
		d.metadata = metadata
	}
	if d.poolID == nil {
		d.status = vo.DeviceStatusDiscovered
	}
	d.updatedAt = biztime.NowUTC()
}

// LinkToPool binds the device to a pool, making it eligible for ingestion.
func (d *Device) LinkToPool(poolID uint) error {
	if poolID == 0 {
		return fmt.Errorf("pool ID is required")
	}
	d.poolID = &poolID
	d.status = vo.DeviceStatusLinked
	d.updatedAt = biztime.NowUTC()
	return nil
}

// IsLinked reports whether the device is bound to a pool.
func (d *Device) IsLinked() bool {
	return d.poolID != nil
}

func (d *Device) ID() uint {
	return d.id
}

func (d *Device) SID() string {
	return d.sid
}

func (d *Device) IntegrationID() uint {
	return d.integrationID
}

func (d *Device) ProviderDeviceID() string {
	return d.providerDeviceID
}

func (d *Device) DeviceType() string {
	return d.deviceType
}

func (d *Device) Label() *string {
	return d.label
}

func (d *Device) PoolID() *uint {
	return d.poolID
}

func (d *Device) Status() vo.DeviceStatus {
	return d.status
}

func (d *Device) Metadata() map[string]interface{} {
	return d.metadata
}

func (d *Device) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Device) UpdatedAt() time.Time {
	return d.updatedAt
}

// SetID sets the device ID after persistence (used by repository after Create)
func (d *Device) SetID(id uint) {
	d.id = id
}

// DeviceReconstructParams carries persisted state back into the domain.
type DeviceReconstructParams struct {
	ID               uint
	SID              string
	IntegrationID    uint
	ProviderDeviceID string
	DeviceType       string
	Label            *string
	PoolID           *uint
	Status           vo.DeviceStatus
	Metadata         map[string]interface{}
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructDevice(p DeviceReconstructParams) *Device {
	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &Device{
		id:               p.ID,
		sid:              p.SID,
		integrationID:    p.IntegrationID,
		providerDeviceID: p.ProviderDeviceID,
		deviceType:       p.DeviceType,
		label:            p.Label,
		poolID:           p.PoolID,
		status:           p.Status,
		metadata:         metadata,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}
}
