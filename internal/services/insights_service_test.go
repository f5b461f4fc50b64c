package services

import (
	"testing"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDeliveredOrder(t *testing.T, db *gorm.DB, id, agentID string, minutes int, price float64) {
	created := time.Now().UTC().Add(-2 * time.Hour)
	delivered := created.Add(time.Duration(minutes) * time.Minute)
	aid := agentID
	require.NoError(t, db.Create(&models.Order{
		OrderID:          id,
		CustomerID:       "U001",
		DeliveryAgentID:  &aid,
		DeliveryStatus:   models.StatusDelivered,
		TotalPrice:       price,
		DeliveryLocation: "12 Baker Street, Pune, MH 411001",
		CreatedAt:        created,
		DeliveredAt:      &delivered,
	}).Error)
}

func TestInsightsSnapshot(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")
	seedAgent(t, db, "DA001", true)

	seedDeliveredOrder(t, db, "O001", "DA001", 30, 200.0)
	seedDeliveredOrder(t, db, "O002", "DA001", 60, 400.0)
	seedOrder(t, db, "O003", "U001", models.StatusRefunded, nil)

	require.NoError(t, db.Create(&models.DeliveryFeedback{
		DeliveryFeedbackID: "DF001",
		OrderID:            "O001",
		DeliveryAgentID:    "DA001",
		Rating:             4,
		CreatedAt:          time.Now().UTC(),
	}).Error)
	require.NoError(t, db.Create(&models.DeliveryFeedback{
		DeliveryFeedbackID: "DF002",
		OrderID:            "O002",
		DeliveryAgentID:    "DA001",
		Rating:             2,
		CreatedAt:          time.Now().UTC(),
	}).Error)

	svc := NewInsightsService(db, 40*time.Minute)
	snapshot, err := svc.Snapshot()
	require.NoError(t, err)

	assert.InDelta(t, 45.0, snapshot.AverageDeliveryMinutes, 0.01)
	// One of two deliveries within the 40 minute threshold.
	assert.InDelta(t, 50.0, snapshot.OnTimePercentage, 0.01)
	assert.InDelta(t, 300.0, snapshot.RevenuePerDelivery, 0.01)
	// One refund out of three completed-or-refunded orders.
	assert.InDelta(t, 33.33, snapshot.RefundRate, 0.01)

	require.Len(t, snapshot.Agents, 1)
	assert.Equal(t, int64(2), snapshot.Agents[0].Deliveries)
	assert.InDelta(t, 3.0, snapshot.Agents[0].AverageRating, 0.01)
}

func TestInsightsSnapshotEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInsightsService(db, 40*time.Minute)
	snapshot, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Zero(t, snapshot.AverageDeliveryMinutes)
	assert.Zero(t, snapshot.OnTimePercentage)
	assert.Zero(t, snapshot.RefundRate)
	assert.Empty(t, snapshot.Agents)
}
