package services

import (
	"path/filepath"
	"testing"

	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	migrateAll(t, db)
	return db
}

// setupFileDB opens a file-backed database for tests that run transactions
// from multiple goroutines. _txlock=immediate takes the write lock at BEGIN
// so contending transactions serialize instead of deadlocking on upgrade;
// _busy_timeout makes the later one wait rather than fail.
func setupFileDB(t *testing.T) *gorm.DB {
	dsn := "file:" + filepath.Join(t.TempDir(), "app.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	migrateAll(t, db)
	return db
}

func migrateAll(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Customer{},
		&models.DeliveryAgent{},
		&models.Address{},
		&models.Category{},
		&models.Subcategory{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
		&models.Earnings{},
		&models.DeliveryFeedback{},
		&models.PasswordReset{},
		&models.Sequence{},
	))
}

func seedCustomer(t *testing.T, db *gorm.DB, id string) {
	require.NoError(t, db.Create(&models.Customer{
		CustomerID: id,
		Username:   "customer-" + id,
		Email:      id + "@example.com",
		Phone:      "9" + id,
		Password:   "hash",
	}).Error)
}

func seedAgent(t *testing.T, db *gorm.DB, id string, active bool) {
	require.NoError(t, db.Create(&models.DeliveryAgent{
		DeliveryAgentID: id,
		Username:        "agent-" + id,
		Email:           id + "@example.com",
		Phone:           "8" + id,
		Password:        "hash",
		DeliveryArea:    "Downtown",
		IsApproved:      true,
		IsActive:        active,
	}).Error)
	// GORM replaces a zero-valued bool with the column's default:true on
	// Create, so IsActive=false must be written with an explicit update.
	require.NoError(t, db.Model(&models.DeliveryAgent{}).
		Where("delivery_agent_id = ?", id).
		Update("is_active", active).Error)
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Create(&models.Category{CategoryID: "IC001", Name: "Veg"}).Error)
	require.NoError(t, db.Create(&models.Subcategory{SubcategoryID: "ISC001", CategoryID: "IC001", Name: "Pizza"}).Error)
}

func seedMenuItem(t *testing.T, db *gorm.DB, id, name string, price float64, stock int) {
	item := models.MenuItem{
		MenuItemID:    id,
		Name:          name,
		Description:   "test item",
		Price:         price,
		CategoryID:    "IC001",
		SubcategoryID: "ISC001",
	}
	item.SetStock(stock)
	require.NoError(t, db.Create(&item).Error)
}

func addCartLine(t *testing.T, db *gorm.DB, customerID, menuItemID string, qty int) {
	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := ids.Next(tx, ids.Cart)
		if err != nil {
			return err
		}
		return tx.Create(&models.Cart{
			CartID:     id,
			CustomerID: customerID,
			MenuItemID: menuItemID,
			Quantity:   qty,
		}).Error
	})
	require.NoError(t, err)
}

// defaultPricing mirrors the production defaults: 18% tax, flat 50 delivery.
var defaultPricing = PricingConfig{TaxRate: 0.18, DeliveryCharge: 50.0}

var defaultEarnings = EarningsConfig{BasePayPerDelivery: 50.0, TripBonusAmount: 100.0, TripBonusEvery: 5}

// checkoutTotal computes the grand total the service expects for a subtotal.
func checkoutTotal(subtotal float64) float64 {
	return subtotal + subtotal*defaultPricing.TaxRate + defaultPricing.DeliveryCharge
}
