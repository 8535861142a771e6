package ingestion

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 30 * time.Second},
		{2, 60 * time.Second},
		{3, 2 * time.Minute},
		{4, 4 * time.Minute},
		{5, 8 * time.Minute},
		{6, 15 * time.Minute},
		{10, 15 * time.Minute},
		{0, 30 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestNewFailure(t *testing.T) {
	f, err := NewFailure("weather_station",
		map[string]string{"X-Webhook-Signature": "sig"},
		[]byte(`{"events":[]}`),
		errors.New("db down"))
	require.NoError(t, err)

	assert.Equal(t, FailureStatusPending, f.Status())
	assert.Equal(t, 1, f.Attempts())
	assert.Equal(t, "db down", f.LastError())
	assert.NotEmpty(t, f.SID())
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Second), f.NextAttemptAt(), 2*time.Second)
}

func TestNewFailure_RequiresProvider(t *testing.T) {
	_, err := NewFailure("", nil, nil, errors.New("boom"))
	assert.Error(t, err)
}

func TestNewFailure_TruncatesLongError(t *testing.T) {
	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'x'
	}
	f, err := NewFailure("smart_meter", nil, nil, errors.New(string(long)))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(f.LastError()), 512+3)
}

func TestFailure_MarkResolved(t *testing.T) {
	f, _ := NewFailure("weather_station", nil, nil, errors.New("boom"))

	require.NoError(t, f.MarkResolved())
	assert.Equal(t, FailureStatusResolved, f.Status())
	assert.Empty(t, f.LastError())
	require.NotNil(t, f.ResolvedAt())

	// terminal, cannot transition again
	assert.Error(t, f.MarkResolved())
	assert.Error(t, f.RegisterRetryFailure(errors.New("boom"), 5))
}

func TestFailure_MarkDead(t *testing.T) {
	f, _ := NewFailure("aqua_legacy", nil, nil, errors.New("boom"))

	require.NoError(t, f.MarkDead(errors.New("provider removed")))
	assert.Equal(t, FailureStatusDead, f.Status())
	assert.Equal(t, "provider removed", f.LastError())
	// no attempt was consumed
	assert.Equal(t, 1, f.Attempts())

	assert.Error(t, f.MarkDead(errors.New("again")))
	assert.Error(t, f.MarkResolved())
}

func TestFailure_RegisterRetryFailure_SchedulesBackoff(t *testing.T) {
	f, _ := NewFailure("weather_station", nil, nil, errors.New("first"))

	require.NoError(t, f.RegisterRetryFailure(errors.New("second"), 5))
	assert.Equal(t, FailureStatusPending, f.Status())
	assert.Equal(t, 2, f.Attempts())
	assert.Equal(t, "second", f.LastError())
	assert.WithinDuration(t, time.Now().UTC().Add(Backoff(2)), f.NextAttemptAt(), 2*time.Second)
}

func TestFailure_RegisterRetryFailure_GoesDeadAtCeiling(t *testing.T) {
	f, _ := NewFailure("weather_station", nil, nil, errors.New("first"))

	require.NoError(t, f.RegisterRetryFailure(errors.New("second"), 3))
	require.NoError(t, f.RegisterRetryFailure(errors.New("third"), 3))

	assert.Equal(t, FailureStatusDead, f.Status())
	assert.Equal(t, 3, f.Attempts())
	assert.True(t, f.Status().IsTerminal())

	assert.Error(t, f.RegisterRetryFailure(errors.New("fourth"), 3))
}

func TestFailure_IsDue(t *testing.T) {
	f, _ := NewFailure("weather_station", nil, nil, errors.New("boom"))

	assert.False(t, f.IsDue(time.Now().UTC()))
	assert.True(t, f.IsDue(time.Now().UTC().Add(time.Minute)))

	require.NoError(t, f.MarkResolved())
	assert.False(t, f.IsDue(time.Now().UTC().Add(time.Hour)))
}
