package services

import (
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

// CartLine is one basket entry joined with the live menu item data the
// customer sees while shopping. Prices here are informational; the binding
// snapshot is taken at checkout.
type CartLine struct {
	CartID             string  `json:"cart_id"`
	MenuItemID         string  `json:"menu_item_id"`
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// CartItemInput is one line of a whole-cart write.
type CartItemInput struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CartService manages per-customer baskets. There is no merge or append
// operation: every write replaces the whole cart.
type CartService interface {
	// GetCart returns the customer's lines in insertion order.
	GetCart(customerID string) ([]CartLine, error)
	// ReplaceCart deletes all existing lines and inserts the supplied
	// ones. Lines with non-positive quantity are silently dropped.
	ReplaceCart(customerID string, items []CartItemInput) error
	// Count returns the total quantity across the cart, for badges.
	Count(customerID string) (int, error)
}

type cartService struct {
	db *gorm.DB
}

// NewCartService creates a new instance of CartService
func NewCartService(db *gorm.DB) CartService {
	return &cartService{db: db}
}

func (s *cartService) GetCart(customerID string) ([]CartLine, error) {
	var lines []CartLine
	err := s.db.Table("cart").
		Select("cart.cart_id, cart.menu_item_id, cart.quantity, menu_items.name, menu_items.price, menu_items.discount_percentage").
		Joins("JOIN menu_items ON menu_items.menu_item_id = cart.menu_item_id").
		Where("cart.customer_id = ?", customerID).
		Order("cart.cart_id").
		Scan(&lines).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return lines, nil
}

func (s *cartService) ReplaceCart(customerID string, items []CartItemInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customerID).Delete(&models.Cart{}).Error; err != nil {
			return apperrors.NewStore(err)
		}
		for _, in := range items {
			if in.Quantity <= 0 {
				continue
			}
			var item models.MenuItem
			if err := tx.Where("menu_item_id = ?", in.MenuItemID).First(&item).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NewNotFound("menu_item_not_found", "menu item "+in.MenuItemID+" not found")
				}
				return apperrors.NewStore(err)
			}
			id, err := ids.Next(tx, ids.Cart)
			if err != nil {
				return err
			}
			line := models.Cart{
				CartID:     id,
				CustomerID: customerID,
				MenuItemID: in.MenuItemID,
				Quantity:   in.Quantity,
				AddedAt:    time.Now().UTC(),
			}
			if err := tx.Create(&line).Error; err != nil {
				return apperrors.NewStore(err)
			}
		}
		return nil
	})
}

func (s *cartService) Count(customerID string) (int, error) {
	var total *int
	err := s.db.Model(&models.Cart{}).
		Select("SUM(quantity)").
		Where("customer_id = ?", customerID).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.NewStore(err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
