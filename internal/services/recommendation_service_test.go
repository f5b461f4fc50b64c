package services

import (
	"testing"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrderWithItem(t *testing.T, db *gorm.DB, orderID, customerID, menuItemID string) {
	require.NoError(t, db.Create(&models.Order{
		OrderID:          orderID,
		CustomerID:       customerID,
		DeliveryStatus:   models.StatusDelivered,
		TotalPrice:       100.0,
		DeliveryLocation: "somewhere",
		CreatedAt:        time.Now().UTC(),
	}).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderItemID: "OI-" + orderID,
		OrderID:     orderID,
		MenuItemID:  menuItemID,
		Quantity:    1,
		Price:       100.0,
	}).Error)
}

func TestRecommendationsNewUser(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")

	svc := NewRecommendationService(db)
	recs, err := svc.ForCustomer("U001")
	require.NoError(t, err)
	assert.True(t, recs.IsNewUser)
	assert.Empty(t, recs.Items)
}

func TestRecommendationsExcludeOrderedAndOutOfStock(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")
	seedCatalog(t, db)
	seedMenuItem(t, db, "MI001", "Margherita", 100.0, 10)
	seedMenuItem(t, db, "MI002", "Paneer Pizza", 120.0, 10)
	seedMenuItem(t, db, "MI003", "Farmhouse", 150.0, 0)

	seedOrderWithItem(t, db, "O001", "U001", "MI001")

	svc := NewRecommendationService(db)
	recs, err := svc.ForCustomer("U001")
	require.NoError(t, err)
	assert.False(t, recs.IsNewUser)
	require.Len(t, recs.Items, 1)
	// Same subcategory, not yet ordered, in stock.
	assert.Equal(t, "MI002", recs.Items[0].MenuItemID)
}
