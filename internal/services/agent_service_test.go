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

func newAgentService(db *gorm.DB) AgentService {
	return NewAgentService(db, NewEarningsService(db, defaultEarnings))
}

func TestAgentApprovalLifecycle(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.DeliveryAgent{
		DeliveryAgentID: "DA001",
		Username:        "ravi",
		Email:           "ravi@example.com",
		Phone:           "8876543210",
		Password:        "hash",
		DeliveryArea:    "Downtown",
		IsApproved:      false,
		IsActive:        true,
	}).Error)

	svc := newAgentService(db)

	agent, err := svc.Approve("DA001")
	require.NoError(t, err)
	assert.True(t, agent.IsApproved)

	agent, err = svc.Deactivate("DA001")
	require.NoError(t, err)
	assert.False(t, agent.IsActive)

	agent, err = svc.Activate("DA001")
	require.NoError(t, err)
	assert.True(t, agent.IsActive)

	_, err = svc.Approve("DA999")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAgentRejectDeletes(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)

	svc := newAgentService(db)
	_, err := svc.Reject("DA001")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.DeliveryAgent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAgentUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	seedAgent(t, db, "DA001", true)

	svc := newAgentService(db)
	bio := "Fast and friendly"
	slots := false
	agent, err := svc.UpdateProfile("DA001", AgentProfilePatch{Bio: &bio, AvailableSlots: &slots})
	require.NoError(t, err)
	assert.Equal(t, "Fast and friendly", agent.Bio)
	assert.False(t, agent.AvailableSlots)
	// Untouched fields survive.
	assert.Equal(t, "Downtown", agent.DeliveryArea)
}

func TestAgentDashboardBuckets(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")
	seedAgent(t, db, "DA001", true)
	agentID := "DA001"
	seedOrder(t, db, "O001", "U001", models.StatusPreparing, &agentID)
	seedOrder(t, db, "O002", "U001", models.StatusAccepted, &agentID)

	delivered := time.Now().UTC()
	require.NoError(t, db.Create(&models.Order{
		OrderID:          "O003",
		CustomerID:       "U001",
		DeliveryAgentID:  &agentID,
		DeliveryStatus:   models.StatusDelivered,
		TotalPrice:       286.0,
		DeliveryLocation: "12 Baker Street, Pune, MH 411001",
		CreatedAt:        delivered.Add(-time.Hour),
		DeliveredAt:      &delivered,
	}).Error)

	svc := newAgentService(db)
	dashboard, err := svc.Dashboard("DA001")
	require.NoError(t, err)

	assert.Len(t, dashboard.PendingOrders, 1)
	assert.Len(t, dashboard.AssignedOrders, 1)
	assert.Len(t, dashboard.CompletedOrders, 1)
	assert.Equal(t, int64(1), dashboard.PendingCount)
	assert.Equal(t, int64(1), dashboard.CompletedCount)
	require.NotNil(t, dashboard.TodayEarnings)
	// No accruals recorded yet, so the ledger view is a zero row.
	assert.Equal(t, 0, dashboard.TodayEarnings.TripsCount)
}
