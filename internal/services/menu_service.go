package services

import (
	"strings"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MenuItemInput is the payload for creating a menu item. Category and
// subcategory are referenced by name and resolved case-insensitively.
type MenuItemInput struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Price              float64    `json:"price"`
	ImageURL           string     `json:"image_url"`
	CategoryName       string     `json:"category_name"`
	SubcategoryName    string     `json:"subcategory_name"`
	NutrientValue      string     `json:"nutrient_value"`
	CalorieCount       int        `json:"calorie_count"`
	DiscountPercentage float64    `json:"discount_percentage"`
	IsBestSeller       bool       `json:"is_best_seller"`
	StockAvailable     int        `json:"stock_available"`
	ScheduledTime      *time.Time `json:"scheduled_update_time"`
}

// MenuItemPatch is a partial update. Nil fields are untouched. When
// ScheduledTime is set the patch is stashed as a pending update instead of
// being applied immediately.
type MenuItemPatch struct {
	Name               *string    `json:"name"`
	Description        *string    `json:"description"`
	Price              *float64   `json:"price"`
	StockAvailable     *int       `json:"stock_available"`
	DiscountPercentage *float64   `json:"discount_percentage"`
	IsBestSeller       *bool      `json:"is_best_seller"`
	CategoryName       *string    `json:"category_name"`
	SubcategoryName    *string    `json:"subcategory_name"`
	ScheduledTime      *time.Time `json:"scheduled_update_time"`
}

// MenuService manages the catalog: immediate mutation, and deferred mutation
// via the pending-update mechanism the scheduler applies.
type MenuService interface {
	// ListAvailable returns in-stock items for the customer menu.
	ListAvailable() ([]models.MenuItem, error)
	// ListAll returns every item including pending/scheduled metadata.
	ListAll() ([]models.MenuItem, error)
	// GetByID retrieves one item.
	GetByID(id string) (*models.MenuItem, error)
	// Create adds an item, either live or as a placeholder carrying a
	// pending update when a schedule time is supplied.
	Create(in MenuItemInput) (*models.MenuItem, error)
	// Update applies a patch immediately, or stashes it for the scheduler.
	Update(id string, patch MenuItemPatch) (*models.MenuItem, error)
	// DeleteByName removes an item by its unique name.
	DeleteByName(name string) error
	// Categories lists all categories with their subcategories.
	Categories() ([]models.Category, []models.Subcategory, error)
}

type menuService struct {
	db *gorm.DB
}

// NewMenuService creates a new instance of MenuService
func NewMenuService(db *gorm.DB) MenuService {
	return &menuService{db: db}
}

func (s *menuService) ListAvailable() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.Preload("Category").Preload("Subcategory").
		Where("is_out_of_stock = ?", false).
		Find(&items).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return items, nil
}

func (s *menuService) ListAll() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.Preload("Category").Preload("Subcategory").Find(&items).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return items, nil
}

func (s *menuService) GetByID(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.Preload("Category").Preload("Subcategory").
		Where("menu_item_id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("menu_item_not_found", "menu item not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &item, nil
}

func (s *menuService) Create(in MenuItemInput) (*models.MenuItem, error) {
	if in.Name == "" || in.Description == "" || in.Price <= 0 ||
		in.CategoryName == "" || in.SubcategoryName == "" {
		return nil, apperrors.NewValidation("missing_fields", "name, description, price, category and subcategory are required")
	}

	var created *models.MenuItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := resolveCategory(tx, in.CategoryName)
		if err != nil {
			return err
		}
		if category == nil {
			return apperrors.NewValidation("category_not_found", "category "+in.CategoryName+" not found")
		}
		subcategory, err := resolveSubcategory(tx, in.SubcategoryName)
		if err != nil {
			return err
		}
		if subcategory == nil {
			return apperrors.NewValidation("subcategory_not_found", "subcategory "+in.SubcategoryName+" not found")
		}

		id, err := ids.Next(tx, ids.MenuItem)
		if err != nil {
			return err
		}

		item := models.MenuItem{
			MenuItemID:    id,
			ImageURL:      in.ImageURL,
			CategoryID:    category.CategoryID,
			SubcategoryID: subcategory.SubcategoryID,
			NutrientValue: in.NutrientValue,
			CalorieCount:  in.CalorieCount,
		}

		if in.ScheduledTime != nil {
			// The real values go live when the scheduler applies them;
			// until then the row is a hidden placeholder.
			pu := models.PendingUpdate{
				Name:               &in.Name,
				Description:        &in.Description,
				Price:              &in.Price,
				CategoryName:       &in.CategoryName,
				SubcategoryName:    &in.SubcategoryName,
				DiscountPercentage: &in.DiscountPercentage,
				IsBestSeller:       &in.IsBestSeller,
				StockAvailable:     &in.StockAvailable,
			}
			raw, err := pu.Encode()
			if err != nil {
				return apperrors.NewStore(err)
			}
			item.Name = "Pending Item"
			item.Description = "Pending"
			item.SetStock(0)
			item.PendingUpdate = &raw
			item.ScheduledUpdateTime = in.ScheduledTime
		} else {
			item.Name = in.Name
			item.Description = in.Description
			item.Price = in.Price
			item.DiscountPercentage = in.DiscountPercentage
			item.IsBestSeller = in.IsBestSeller
			item.SetStock(in.StockAvailable)
		}

		if err := tx.Create(&item).Error; err != nil {
			return apperrors.NewStore(err)
		}
		created = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *menuService) Update(id string, patch MenuItemPatch) (*models.MenuItem, error) {
	var updated *models.MenuItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Where("menu_item_id = ?", id).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFound("menu_item_not_found", "menu item not found")
			}
			return apperrors.NewStore(err)
		}

		if patch.ScheduledTime != nil {
			pu := models.PendingUpdate{
				Name:               patch.Name,
				Description:        patch.Description,
				Price:              patch.Price,
				StockAvailable:     patch.StockAvailable,
				DiscountPercentage: patch.DiscountPercentage,
				IsBestSeller:       patch.IsBestSeller,
				CategoryName:       patch.CategoryName,
				SubcategoryName:    patch.SubcategoryName,
			}
			raw, err := pu.Encode()
			if err != nil {
				return apperrors.NewStore(err)
			}
			item.PendingUpdate = &raw
			item.ScheduledUpdateTime = patch.ScheduledTime
		} else {
			if err := applyPatch(tx, &item, &patch); err != nil {
				return err
			}
		}

		if err := tx.Save(&item).Error; err != nil {
			return apperrors.NewStore(err)
		}
		updated = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *menuService) DeleteByName(name string) error {
	if name == "" {
		return apperrors.NewValidation("missing_fields", "item name is required")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Where("name = ?", name).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFound("menu_item_not_found", "item "+name+" not found")
			}
			return apperrors.NewStore(err)
		}
		if err := tx.Delete(&item).Error; err != nil {
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *menuService) Categories() ([]models.Category, []models.Subcategory, error) {
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, nil, apperrors.NewStore(err)
	}
	var subcategories []models.Subcategory
	if err := s.db.Find(&subcategories).Error; err != nil {
		return nil, nil, apperrors.NewStore(err)
	}
	return categories, subcategories, nil
}

// applyPatch mutates the item in place for an immediate (unscheduled) update.
// Category and subcategory names that resolve to nothing are skipped, matching
// the scheduler's soft-failure behavior.
func applyPatch(tx *gorm.DB, item *models.MenuItem, patch *MenuItemPatch) error {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.DiscountPercentage != nil {
		item.DiscountPercentage = *patch.DiscountPercentage
	}
	if patch.IsBestSeller != nil {
		item.IsBestSeller = *patch.IsBestSeller
	}
	if patch.StockAvailable != nil {
		item.SetStock(*patch.StockAvailable)
	}
	if patch.CategoryName != nil {
		category, err := resolveCategory(tx, *patch.CategoryName)
		if err != nil {
			return err
		}
		if category != nil {
			item.CategoryID = category.CategoryID
		} else {
			log.WithField("category_name", *patch.CategoryName).Warn("Unknown category in menu item update, skipping")
		}
	}
	if patch.SubcategoryName != nil {
		subcategory, err := resolveSubcategory(tx, *patch.SubcategoryName)
		if err != nil {
			return err
		}
		if subcategory != nil {
			item.SubcategoryID = subcategory.SubcategoryID
		} else {
			log.WithField("subcategory_name", *patch.SubcategoryName).Warn("Unknown subcategory in menu item update, skipping")
		}
	}
	return nil
}

// resolveCategory looks a category up by name, case-insensitively. A missing
// category returns (nil, nil); callers decide whether that is an error.
func resolveCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &category, nil
}

func resolveSubcategory(tx *gorm.DB, name string) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&subcategory).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &subcategory, nil
}
