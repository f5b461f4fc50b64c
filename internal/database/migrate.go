package database

import (
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

// Migrate runs the schema migration for every application model. Order
// matters: referenced tables must exist before their dependents.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
	)
	if err != nil {
		return err
	}
	log.Info("Database schema migrated")
	return nil
}
