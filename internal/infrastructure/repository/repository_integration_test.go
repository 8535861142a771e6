package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"poolhub/internal/domain/ingestion"
	"poolhub/internal/domain/integration"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/infrastructure/persistence/models"
	"poolhub/internal/shared/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.IntegrationModel{},
		&models.IntegrationDeviceModel{},
		&models.SensorReadingModel{},
		&models.IngestionFailureModel{},
		&models.PoolModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestIntegration(t *testing.T, repo integration.IntegrationRepository, userID uint, provider vo.Provider) *integration.Integration {
	t.Helper()
	itg, err := integration.NewIntegration(userID, provider)
	require.NoError(t, err)
	itg.ApplyConnectResult(nil, []string{"readings:read"}, vo.WeatherStationCredentials{APIKey: "wsk_1234567890"})
	require.NoError(t, repo.Create(context.Background(), itg))
	require.NotZero(t, itg.ID())
	return itg
}

func TestIntegrationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIntegrationRepository(db)
	ctx := context.Background()

	t.Run("create and load round trip", func(t *testing.T) {
		itg := createTestIntegration(t, repo, 1, vo.ProviderWeatherStation)

		found, err := repo.GetByID(ctx, itg.ID())
		require.NoError(t, err)
		assert.Equal(t, itg.SID(), found.SID())
		assert.Equal(t, vo.ProviderWeatherStation, found.Provider())
		assert.Equal(t, vo.IntegrationStatusConnected, found.Status())

		creds, ok := found.Credentials().(vo.WeatherStationCredentials)
		require.True(t, ok)
		assert.Equal(t, "wsk_1234567890", creds.APIKey)
	})

	t.Run("lookup by SID", func(t *testing.T) {
		itg := createTestIntegration(t, repo, 2, vo.ProviderSmartMeter)

		found, err := repo.GetBySID(ctx, itg.SID())
		require.NoError(t, err)
		assert.Equal(t, itg.ID(), found.ID())

		_, err = repo.GetBySID(ctx, "itg_missing")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("user and provider lookup returns nil when absent", func(t *testing.T) {
		found, err := repo.GetByUserAndProvider(ctx, 999, vo.ProviderWeatherStation)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("one integration per user and provider", func(t *testing.T) {
		createTestIntegration(t, repo, 3, vo.ProviderWeatherStation)

		dup, err := integration.NewIntegration(3, vo.ProviderWeatherStation)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, dup))
	})

	t.Run("delete scoped to owner", func(t *testing.T) {
		itg := createTestIntegration(t, repo, 4, vo.ProviderWeatherStation)

		deleted, err := repo.DeleteByIDAndUser(ctx, itg.ID(), 999)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = repo.DeleteByIDAndUser(ctx, itg.ID(), 4)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("list connected by provider", func(t *testing.T) {
		createTestIntegration(t, repo, 5, vo.ProviderWeatherStation)
		list, err := repo.ListConnectedByProvider(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)
		assert.NotEmpty(t, list)
		for _, itg := range list {
			assert.Equal(t, vo.IntegrationStatusConnected, itg.Status())
		}
	})
}

func TestIntegrationDeviceRepository(t *testing.T) {
	db := setupTestDB(t)
	integrationRepo := NewIntegrationRepository(db)
	deviceRepo := NewIntegrationDeviceRepository(db)
	ctx := context.Background()

	itg := createTestIntegration(t, integrationRepo, 1, vo.ProviderWeatherStation)

	t.Run("discovery upsert is idempotent per provider device", func(t *testing.T) {
		device, err := integration.NewDevice(itg.ID(), "st-1", "weather_sensor", nil, nil)
		require.NoError(t, err)
		require.NoError(t, deviceRepo.Create(ctx, device))

		dup, err := integration.NewDevice(itg.ID(), "st-1", "weather_sensor", nil, nil)
		require.NoError(t, err)
		assert.Error(t, deviceRepo.Create(ctx, dup))

		found, err := deviceRepo.GetByIntegrationAndProviderDeviceID(ctx, itg.ID(), "st-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, device.ID(), found.ID())
	})

	t.Run("unknown provider device returns nil", func(t *testing.T) {
		found, err := deviceRepo.GetByIntegrationAndProviderDeviceID(ctx, itg.ID(), "st-missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("linked devices resolve by provider", func(t *testing.T) {
		device, err := integration.NewDevice(itg.ID(), "st-2", "weather_sensor", nil, nil)
		require.NoError(t, err)
		require.NoError(t, deviceRepo.Create(ctx, device))

		linked, err := deviceRepo.ListLinkedByProvider(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)
		assert.Empty(t, linked)

		require.NoError(t, device.LinkToPool(7))
		require.NoError(t, deviceRepo.Update(ctx, device))

		linked, err = deviceRepo.ListLinkedByProvider(ctx, vo.ProviderWeatherStation)
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, "st-2", linked[0].ProviderDeviceID())
		require.NotNil(t, linked[0].PoolID())
		assert.Equal(t, uint(7), *linked[0].PoolID())
	})
}

func TestSensorReadingRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSensorReadingRepository(db)
	ctx := context.Background()

	unit := "F"
	first, err := ingestion.NewSensorReading(7, 1, 10, "air_temp_f", 82.4, &unit, time.Now().UTC().Add(-time.Hour), "weather_station", nil, nil)
	require.NoError(t, err)
	second, err := ingestion.NewSensorReading(7, 1, 10, "air_temp_f", 83.1, &unit, time.Now().UTC(), "weather_station", nil, nil)
	require.NoError(t, err)

	require.NoError(t, repo.CreateBatch(ctx, []*ingestion.SensorReading{first, second}))
	assert.NotZero(t, first.ID())
	assert.NotZero(t, second.ID())

	readings, err := repo.ListByDevice(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	// newest first
	assert.InDelta(t, 83.1, readings[0].Value(), 0.001)
}

func TestIngestionFailureRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIngestionFailureRepository(db)
	ctx := context.Background()

	newPendingFailure := func(t *testing.T) *ingestion.Failure {
		t.Helper()
		failure, err := ingestion.NewFailure("weather_station", map[string]string{"X-Webhook-Signature": "sig"}, []byte(`{"events":[]}`), assert.AnError)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, failure))
		return failure
	}

	t.Run("round trip preserves delivery", func(t *testing.T) {
		failure := newPendingFailure(t)

		found, err := repo.GetBySID(ctx, failure.SID())
		require.NoError(t, err)
		assert.Equal(t, failure.Payload(), found.Payload())
		assert.Equal(t, "sig", found.Headers()["X-Webhook-Signature"])
		assert.Equal(t, ingestion.FailureStatusPending, found.Status())
		assert.Equal(t, 1, found.Attempts())
	})

	t.Run("claim succeeds exactly once", func(t *testing.T) {
		failure := newPendingFailure(t)

		claimed, err := repo.Claim(ctx, failure.ID(), failure.Attempts())
		require.NoError(t, err)
		assert.True(t, claimed)

		// second claim sees the processing marker and loses
		claimed, err = repo.Claim(ctx, failure.ID(), failure.Attempts())
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("claim guards on observed attempts", func(t *testing.T) {
		failure := newPendingFailure(t)

		claimed, err := repo.Claim(ctx, failure.ID(), failure.Attempts()+1)
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("stale claims become reclaimable", func(t *testing.T) {
		failure := newPendingFailure(t)

		claimed, err := repo.Claim(ctx, failure.ID(), failure.Attempts())
		require.NoError(t, err)
		require.True(t, claimed)

		// a live claim stays invisible to the sweep
		due, err := repo.ListDue(ctx, 0)
		require.NoError(t, err)
		for _, f := range due {
			assert.NotEqual(t, failure.ID(), f.ID())
		}

		// age the claim as if the worker died mid-retry
		stale := time.Now().UTC().Add(-staleClaimAge - time.Minute)
		require.NoError(t, db.Model(&models.IngestionFailureModel{}).
			Where("id = ?", failure.ID()).
			UpdateColumn("updated_at", stale).Error)

		due, err = repo.ListDue(ctx, 0)
		require.NoError(t, err)
		found := false
		for _, f := range due {
			if f.ID() == failure.ID() {
				found = true
			}
		}
		assert.True(t, found, "abandoned claim should be due again")

		claimed, err = repo.Claim(ctx, failure.ID(), failure.Attempts())
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("due listing skips future attempts", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewIngestionFailureRepository(db)

		failure, err := ingestion.NewFailure("weather_station", nil, []byte(`{}`), assert.AnError)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, failure))

		// first attempt is scheduled 30s out, so nothing is due yet
		due, err := repo.ListDue(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestPoolAccessChecker(t *testing.T) {
	db := setupTestDB(t)
	checker := NewPoolAccessChecker(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.PoolModel{UserID: 1, Name: "Backyard"}).Error)

	t.Run("owner has access", func(t *testing.T) {
		assert.NoError(t, checker.CheckAccess(ctx, 1, 1))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		err := checker.CheckAccess(ctx, 2, 1)
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
	})

	t.Run("missing pool is not found", func(t *testing.T) {
		err := checker.CheckAccess(ctx, 1, 99)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}
