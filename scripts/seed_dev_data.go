package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hifieats/hifi-eats-api/internal/auth"
	"github.com/hifieats/hifi-eats-api/internal/database"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

// Seeds a development database with an admin account, a couple of categories
// and a handful of menu items so the API is usable straight away.
func main() {
	dbPath := flag.String("db", "hifieats.db", "SQLite database path")
	adminEmail := flag.String("admin-email", "admin@hifieats.local", "Admin email")
	adminPassword := flag.String("admin-password", "admin123", "Admin password")
	flag.Parse()

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: *dbPath})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := seedAdmin(tx, *adminEmail, *adminPassword); err != nil {
			return err
		}
		return seedMenu(tx)
	})
	if err != nil {
		log.Fatal("Seeding failed:", err)
	}

	fmt.Println("Development data seeded.")
	fmt.Printf("Admin login: %s / %s\n", *adminEmail, *adminPassword)
}

func seedAdmin(tx *gorm.DB, email, password string) error {
	var existing models.Admin
	if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("Admin %s already exists (%s), skipping\n", email, existing.AdminID)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	id, err := ids.Next(tx, ids.Admin)
	if err != nil {
		return err
	}
	admin := models.Admin{
		AdminID:  id,
		Username: "admin",
		Email:    email,
		Phone:    "9000000001",
		Password: hash,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}
	fmt.Printf("Created admin %s (%s)\n", email, id)
	return nil
}

func seedMenu(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Menu already seeded, skipping")
		return nil
	}

	type seedItem struct {
		name        string
		description string
		price       float64
		stock       int
		bestSeller  bool
	}
	menu := []struct {
		category    string
		subcategory string
		items       []seedItem
	}{
		{"Veg", "Pizza", []seedItem{
			{"Margherita Pizza", "Classic tomato and cheese", 249.0, 40, true},
			{"Paneer Tikka Pizza", "Spiced paneer with onions", 329.0, 25, false},
		}},
		{"Non Veg", "Burgers", []seedItem{
			{"Chicken Burger", "Grilled chicken with lettuce", 189.0, 50, true},
			{"Double Patty Burger", "Two chicken patties, extra cheese", 259.0, 30, false},
		}},
		{"Beverages", "Shakes", []seedItem{
			{"Chocolate Shake", "Thick chocolate milkshake", 129.0, 60, false},
		}},
	}

	for _, group := range menu {
		categoryID, err := ids.Next(tx, ids.Category)
		if err != nil {
			return err
		}
		category := models.Category{CategoryID: categoryID, Name: group.category}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}

		subcategoryID, err := ids.Next(tx, ids.Subcategory)
		if err != nil {
			return err
		}
		subcategory := models.Subcategory{
			SubcategoryID: subcategoryID,
			CategoryID:    categoryID,
			Name:          group.subcategory,
		}
		if err := tx.Create(&subcategory).Error; err != nil {
			return err
		}

		for _, in := range group.items {
			itemID, err := ids.Next(tx, ids.MenuItem)
			if err != nil {
				return err
			}
			item := models.MenuItem{
				MenuItemID:    itemID,
				Name:          in.name,
				Description:   in.description,
				Price:         in.price,
				CategoryID:    categoryID,
				SubcategoryID: subcategoryID,
				IsBestSeller:  in.bestSeller,
			}
			item.SetStock(in.stock)
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			fmt.Printf("Created menu item %s (%s)\n", in.name, itemID)
		}
	}
	return nil
}
