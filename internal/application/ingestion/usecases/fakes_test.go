package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLogger()
}

func uintPtr(v uint) *uint { return &v }

func linkedDevice(id uint, integrationID uint, providerDeviceID string, poolID uint) *integration.Device {
	now := time.Now().UTC()
	return integration.ReconstructDevice(integration.DeviceReconstructParams{
		ID:               id,
		SID:              "dev_test",
		IntegrationID:    integrationID,
		ProviderDeviceID: providerDeviceID,
		DeviceType:       "weather_sensor",
		PoolID:           uintPtr(poolID),
		Status:           vo.DeviceStatusLinked,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

type fakeDeviceRepo struct {
	integration.DeviceRepository

	linked    []*integration.Device
	linkedErr error
}

func (f *fakeDeviceRepo) ListLinkedByProvider(ctx context.Context, provider vo.Provider) ([]*integration.Device, error) {
	if f.linkedErr != nil {
		return nil, f.linkedErr
	}
	return f.linked, nil
}

func (f *fakeDeviceRepo) ListByIntegration(ctx context.Context, integrationID uint) ([]*integration.Device, error) {
	return f.linked, nil
}

type fakeReadingRepo struct {
	batches   [][]*ingestion.SensorReading
	createErr error
}

func (f *fakeReadingRepo) CreateBatch(ctx context.Context, readings []*ingestion.SensorReading) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.batches = append(f.batches, readings)
	return nil
}

func (f *fakeReadingRepo) ListByDevice(ctx context.Context, deviceID uint, limit int) ([]*ingestion.SensorReading, error) {
	var out []*ingestion.SensorReading
	for _, batch := range f.batches {
		for _, r := range batch {
			if r.DeviceID() == deviceID {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeReadingRepo) total() int {
	n := 0
	for _, batch := range f.batches {
		n += len(batch)
	}
	return n
}

type fakeFailureRepo struct {
	failures  map[uint]*ingestion.Failure
	nextID    uint
	createErr error
	denyClaim bool
}

func newFakeFailureRepo() *fakeFailureRepo {
	return &fakeFailureRepo{failures: make(map[uint]*ingestion.Failure), nextID: 1}
}

func (f *fakeFailureRepo) Create(ctx context.Context, failure *ingestion.Failure) error {
	if f.createErr != nil {
		return f.createErr
	}
	failure.SetID(f.nextID)
	f.failures[f.nextID] = failure
	f.nextID++
	return nil
}

func (f *fakeFailureRepo) Update(ctx context.Context, failure *ingestion.Failure) error {
	f.failures[failure.ID()] = failure
	return nil
}

func (f *fakeFailureRepo) GetByID(ctx context.Context, id uint) (*ingestion.Failure, error) {
	failure, ok := f.failures[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("failure not found")
	}
	return failure, nil
}

func (f *fakeFailureRepo) GetBySID(ctx context.Context, sid string) (*ingestion.Failure, error) {
	for _, failure := range f.failures {
		if failure.SID() == sid {
			return failure, nil
		}
	}
	return nil, apperrors.NewNotFoundError("failure not found")
}

func (f *fakeFailureRepo) ListByStatus(ctx context.Context, status *ingestion.FailureStatus, limit int) ([]*ingestion.Failure, error) {
	var out []*ingestion.Failure
	for _, failure := range f.failures {
		if status == nil || failure.Status() == *status {
			out = append(out, failure)
		}
	}
	return out, nil
}

func (f *fakeFailureRepo) ListDue(ctx context.Context, limit int) ([]*ingestion.Failure, error) {
	now := time.Now().UTC()
	var out []*ingestion.Failure
	for _, failure := range f.failures {
		if failure.Status() == ingestion.FailureStatusPending && failure.IsDue(now) {
			out = append(out, failure)
		}
	}
	return out, nil
}

func (f *fakeFailureRepo) Claim(ctx context.Context, id uint, attempts int) (bool, error) {
	if f.denyClaim {
		return false, nil
	}
	failure, ok := f.failures[id]
	if !ok || failure.Status() != ingestion.FailureStatusPending || failure.Attempts() != attempts {
		return false, nil
	}
	return true, nil
}

// fakeNotifier is safe for concurrent use; notifications are delivered from
// a background goroutine.
type fakeNotifier struct {
	mu       sync.Mutex
	notified []*ingestion.Failure
}

func (f *fakeNotifier) NotifyDead(ctx context.Context, failure *ingestion.Failure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, failure)
	return nil
}

// waitNotified blocks until n notifications arrived or the test times out.
func (f *fakeNotifier) waitNotified(t *testing.T, n int) []*ingestion.Failure {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		got := make([]*ingestion.Failure, len(f.notified))
		copy(got, f.notified)
		f.mu.Unlock()
		if len(got) >= n {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d dead letter notifications, got %d", n, len(got))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

var errStorage = errors.New("storage unavailable")
