package services

import (
	"testing"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func accrue(t *testing.T, db *gorm.DB, svc EarningsService, agentID string, at time.Time) *models.Earnings {
	var row *models.Earnings
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = svc.Accrue(tx, agentID, at)
		return err
	})
	require.NoError(t, err)
	return row
}

func TestAccrueFirstDelivery(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)
	svc := NewEarningsService(db, defaultEarnings)

	row := accrue(t, db, svc, "DA001", time.Now().UTC())
	assert.Equal(t, "E001", row.EarningsID)
	assert.Equal(t, 1, row.TripsCount)
	assert.Equal(t, 50.0, row.BasePay)
	assert.Equal(t, 0.0, row.Bonus)
}

func TestAccrueBonusOnFifthTrip(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)
	svc := NewEarningsService(db, defaultEarnings)
	now := time.Now().UTC()

	var row *models.Earnings
	for i := 0; i < 5; i++ {
		row = accrue(t, db, svc, "DA001", now)
	}
	assert.Equal(t, 5, row.TripsCount)
	assert.Equal(t, 250.0, row.BasePay)
	assert.Equal(t, 100.0, row.Bonus)

	// No second bonus until the tenth trip.
	row = accrue(t, db, svc, "DA001", now)
	assert.Equal(t, 6, row.TripsCount)
	assert.Equal(t, 100.0, row.Bonus)
}

func TestAccrueCarriesTotalsForward(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)
	svc := NewEarningsService(db, defaultEarnings)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	for i := 0; i < 3; i++ {
		accrue(t, db, svc, "DA001", yesterday)
	}

	today := accrue(t, db, svc, "DA001", time.Now().UTC())
	// New day, fresh trip counter, cumulative pay.
	assert.Equal(t, 1, today.TripsCount)
	assert.Equal(t, 200.0, today.BasePay)

	var count int64
	require.NoError(t, db.Model(&models.Earnings{}).Where("delivery_agent_id = ?", "DA001").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

// Two deliveries completing at once on an agent's first trip of the day must
// still produce a single ledger row; the agent row lock serializes them.
func TestAccrueConcurrentFirstDelivery(t *testing.T) {
	db := setupFileDB(t)
	seedAgent(t, db, "DA001", true)
	svc := NewEarningsService(db, defaultEarnings)
	now := time.Now().UTC()

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- db.Transaction(func(tx *gorm.DB) error {
				_, err := svc.Accrue(tx, "DA001", now)
				return err
			})
		}()
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-results)
	}

	var rows []models.Earnings
	require.NoError(t, db.Where("delivery_agent_id = ?", "DA001").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TripsCount)
	assert.Equal(t, 100.0, rows[0].BasePay)
}

func TestAccrueUnknownAgent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db, defaultEarnings)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.Accrue(tx, "DA404", time.Now().UTC())
		return err
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAccrueKeepsAgentsSeparate(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)
	seedAgent(t, db, "DA002", true)
	svc := NewEarningsService(db, defaultEarnings)
	now := time.Now().UTC()

	accrue(t, db, svc, "DA001", now)
	row := accrue(t, db, svc, "DA002", now)
	assert.Equal(t, 1, row.TripsCount)
	assert.Equal(t, 50.0, row.BasePay)
}

func TestTodayReturnsZeroRowWhenAbsent(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)
	svc := NewEarningsService(db, defaultEarnings)

	row, err := svc.Today("DA001")
	require.NoError(t, err)
	assert.Equal(t, 0, row.TripsCount)
	assert.Equal(t, 0.0, row.BasePay)

	recent, err := svc.Recent("DA001")
	require.NoError(t, err)
	assert.Nil(t, recent)
}
