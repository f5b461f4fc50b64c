package scheduler

import (
	"testing"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Subcategory{}, &models.MenuItem{}))
	require.NoError(t, db.Create(&models.Category{CategoryID: "IC001", Name: "Veg"}).Error)
	require.NoError(t, db.Create(&models.Category{CategoryID: "IC002", Name: "Beverages"}).Error)
	require.NoError(t, db.Create(&models.Subcategory{SubcategoryID: "ISC001", CategoryID: "IC001", Name: "Pizza"}).Error)
	return db
}

func seedScheduledItem(t *testing.T, db *gorm.DB, id string, update models.PendingUpdate, due time.Time) {
	raw, err := update.Encode()
	require.NoError(t, err)
	item := models.MenuItem{
		MenuItemID:          id,
		Name:                "Item " + id,
		Description:         "test",
		Price:               100.0,
		CategoryID:          "IC001",
		SubcategoryID:       "ISC001",
		ScheduledUpdateTime: &due,
		PendingUpdate:       &raw,
	}
	item.SetStock(10)
	require.NoError(t, db.Create(&item).Error)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestRunOnceAppliesDueUpdate(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	seedScheduledItem(t, db, "MI001", models.PendingUpdate{
		Name:           strPtr("Renamed"),
		Price:          floatPtr(149.0),
		StockAvailable: intPtr(0),
		CategoryName:   strPtr("beverages"),
	}, now.Add(-time.Minute))

	p := NewProcessor(db, time.Minute)
	require.NoError(t, p.RunOnce(now))

	var item models.MenuItem
	require.NoError(t, db.First(&item, "menu_item_id = ?", "MI001").Error)
	assert.Equal(t, "Renamed", item.Name)
	assert.Equal(t, 149.0, item.Price)
	assert.Equal(t, 0, item.StockAvailable)
	assert.True(t, item.IsOutOfStock)
	assert.Equal(t, "IC002", item.CategoryID)
	assert.Nil(t, item.PendingUpdate)
	assert.Nil(t, item.ScheduledUpdateTime)
}

func TestRunOnceSkipsFutureUpdate(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	seedScheduledItem(t, db, "MI001", models.PendingUpdate{Name: strPtr("Too Early")}, now.Add(time.Hour))

	p := NewProcessor(db, time.Minute)
	require.NoError(t, p.RunOnce(now))

	var item models.MenuItem
	require.NoError(t, db.First(&item, "menu_item_id = ?", "MI001").Error)
	assert.Equal(t, "Item MI001", item.Name)
	assert.NotNil(t, item.PendingUpdate)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	seedScheduledItem(t, db, "MI001", models.PendingUpdate{Price: floatPtr(149.0)}, now.Add(-time.Minute))

	p := NewProcessor(db, time.Minute)
	require.NoError(t, p.RunOnce(now))
	require.NoError(t, p.RunOnce(now))

	var item models.MenuItem
	require.NoError(t, db.First(&item, "menu_item_id = ?", "MI001").Error)
	assert.Equal(t, 149.0, item.Price)
	assert.Nil(t, item.PendingUpdate)
}

func TestRunOnceUnknownCategoryKeepsCurrent(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	seedScheduledItem(t, db, "MI001", models.PendingUpdate{
		Price:        floatPtr(199.0),
		CategoryName: strPtr("Imaginary"),
	}, now.Add(-time.Minute))

	p := NewProcessor(db, time.Minute)
	require.NoError(t, p.RunOnce(now))

	var item models.MenuItem
	require.NoError(t, db.First(&item, "menu_item_id = ?", "MI001").Error)
	assert.Equal(t, 199.0, item.Price)
	assert.Equal(t, "IC001", item.CategoryID)
	assert.Nil(t, item.PendingUpdate)
}

func TestRunOnceRollsBackOnCorruptPayload(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	seedScheduledItem(t, db, "MI001", models.PendingUpdate{Price: floatPtr(149.0)}, now.Add(-time.Minute))

	// A payload with an unknown key is a decode error, not a silent skip.
	corrupt := `{"price": 10, "mystery_field": true}`
	due := now.Add(-time.Minute)
	item := models.MenuItem{
		MenuItemID:          "MI002",
		Name:                "Item MI002",
		Description:         "test",
		Price:               100.0,
		CategoryID:          "IC001",
		SubcategoryID:       "ISC001",
		ScheduledUpdateTime: &due,
		PendingUpdate:       &corrupt,
	}
	item.SetStock(10)
	require.NoError(t, db.Create(&item).Error)

	p := NewProcessor(db, time.Minute)
	require.Error(t, p.RunOnce(now))

	// The whole pass rolled back, including the valid item.
	var ok models.MenuItem
	require.NoError(t, db.First(&ok, "menu_item_id = ?", "MI001").Error)
	assert.Equal(t, 100.0, ok.Price)
	assert.NotNil(t, ok.PendingUpdate)
}

func TestStartStop(t *testing.T) {
	db := setupTestDB(t)
	p := NewProcessor(db, 10*time.Millisecond)
	p.Start()
	time.Sleep(30 * time.Millisecond)
	p.Stop()
}
