package services

import (
	"testing"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuCreateImmediate(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	svc := NewMenuService(db)
	item, err := svc.Create(MenuItemInput{
		Name:            "Margherita",
		Description:     "Classic",
		Price:           249.0,
		CategoryName:    "veg", // resolved case-insensitively
		SubcategoryName: "PIZZA",
		StockAvailable:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, "MI001", item.MenuItemID)
	assert.Equal(t, "IC001", item.CategoryID)
	assert.Equal(t, "ISC001", item.SubcategoryID)
	assert.Equal(t, 20, item.StockAvailable)
	assert.False(t, item.IsOutOfStock)
	assert.Nil(t, item.PendingUpdate)
}

func TestMenuCreateScheduledIsHiddenPlaceholder(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	svc := NewMenuService(db)
	when := time.Now().UTC().Add(time.Hour)
	item, err := svc.Create(MenuItemInput{
		Name:            "Paneer Tikka Pizza",
		Description:     "Spiced paneer",
		Price:           329.0,
		CategoryName:    "Veg",
		SubcategoryName: "Pizza",
		StockAvailable:  15,
		ScheduledTime:   &when,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pending Item", item.Name)
	assert.True(t, item.IsOutOfStock)
	require.NotNil(t, item.PendingUpdate)
	require.NotNil(t, item.ScheduledUpdateTime)

	update, err := models.DecodePendingUpdate(*item.PendingUpdate)
	require.NoError(t, err)
	require.NotNil(t, update.Name)
	assert.Equal(t, "Paneer Tikka Pizza", *update.Name)
	require.NotNil(t, update.StockAvailable)
	assert.Equal(t, 15, *update.StockAvailable)

	// Placeholder is excluded from the customer menu.
	available, err := svc.ListAvailable()
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestMenuCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewMenuService(db)

	_, err := svc.Create(MenuItemInput{Name: "X"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Create(MenuItemInput{
		Name:            "X",
		Description:     "d",
		Price:           10,
		CategoryName:    "Nope",
		SubcategoryName: "Pizza",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestMenuUpdateImmediateKeepsStockFlagConsistent(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedMenuItem(t, db, "MI001", "Margherita", 249.0, 20)

	svc := NewMenuService(db)
	zero := 0
	item, err := svc.Update("MI001", MenuItemPatch{StockAvailable: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, item.StockAvailable)
	assert.True(t, item.IsOutOfStock)

	ten := 10
	item, err = svc.Update("MI001", MenuItemPatch{StockAvailable: &ten})
	require.NoError(t, err)
	assert.False(t, item.IsOutOfStock)
}

func TestMenuUpdateScheduledStashesPatch(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedMenuItem(t, db, "MI001", "Margherita", 249.0, 20)

	svc := NewMenuService(db)
	price := 299.0
	when := time.Now().UTC().Add(30 * time.Minute)
	item, err := svc.Update("MI001", MenuItemPatch{Price: &price, ScheduledTime: &when})
	require.NoError(t, err)

	// Live fields untouched until the scheduler applies the patch.
	assert.Equal(t, 249.0, item.Price)
	require.NotNil(t, item.PendingUpdate)
	update, err := models.DecodePendingUpdate(*item.PendingUpdate)
	require.NoError(t, err)
	require.NotNil(t, update.Price)
	assert.Equal(t, 299.0, *update.Price)
}

func TestMenuUpdateUnknownCategorySkipped(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedMenuItem(t, db, "MI001", "Margherita", 249.0, 20)

	svc := NewMenuService(db)
	unknown := "Imaginary"
	item, err := svc.Update("MI001", MenuItemPatch{CategoryName: &unknown})
	require.NoError(t, err)
	assert.Equal(t, "IC001", item.CategoryID)
}

func TestMenuDeleteByName(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedMenuItem(t, db, "MI001", "Margherita", 249.0, 20)

	svc := NewMenuService(db)
	require.NoError(t, svc.DeleteByName("Margherita"))

	_, err := svc.GetByID("MI001")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = svc.DeleteByName("Margherita")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
