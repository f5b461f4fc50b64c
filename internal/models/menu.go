package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Category groups menu items (e.g. "Veg", "Beverages").
type Category struct {
	CategoryID string `json:"category_id" gorm:"primaryKey;size:10"`
	Name       string `json:"name" gorm:"size:255;not null"`
}

func (Category) TableName() string { return "categories" }

// Subcategory refines a category; deleting a category cascades to its
// subcategories.
type Subcategory struct {
	SubcategoryID string `json:"subcategory_id" gorm:"primaryKey;size:10"`
	Name          string `json:"name" gorm:"size:255;not null"`
	CategoryID    string `json:"category_id" gorm:"size:10;not null"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (Subcategory) TableName() string { return "subcategories" }

// MenuItem is a catalog entry. Invariant: IsOutOfStock is derived from
// StockAvailable and must equal (StockAvailable == 0) after every mutation;
// use SetStock rather than assigning the fields directly.
//
// PendingUpdate and ScheduledUpdateTime are set together or not at all: a
// non-nil pending field-set always carries the time at which the scheduled
// update processor should apply it.
type MenuItem struct {
	MenuItemID          string     `json:"menu_item_id" gorm:"primaryKey;size:10"`
	Name                string     `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description         string     `json:"description" gorm:"not null"`
	Price               float64    `json:"price" gorm:"not null"`
	ImageURL            string     `json:"image_url" gorm:"size:500"`
	CategoryID          string     `json:"category_id" gorm:"size:10;not null"`
	SubcategoryID       string     `json:"subcategory_id" gorm:"size:10;not null"`
	NutrientValue       string     `json:"nutrient_value" gorm:"size:255"`
	CalorieCount        int        `json:"calorie_count"`
	IsBestSeller        bool       `json:"is_best_seller" gorm:"default:false"`
	IsOutOfStock        bool       `json:"is_out_of_stock" gorm:"default:false"`
	DiscountPercentage  float64    `json:"discount_percentage"`
	StockAvailable      int        `json:"stock_available" gorm:"default:100"`
	ScheduledUpdateTime *time.Time `json:"scheduled_update_time"`
	PendingUpdate       *string    `json:"pending_update"`

	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Subcategory *Subcategory `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID;constraint:OnDelete:CASCADE"`
}

func (MenuItem) TableName() string { return "menu_items" }

// SetStock updates the stock count and keeps the out-of-stock flag in sync.
func (m *MenuItem) SetStock(n int) {
	m.StockAvailable = n
	m.IsOutOfStock = n == 0
}

// HasPendingUpdate reports whether a deferred edit is stashed on the item.
func (m *MenuItem) HasPendingUpdate() bool {
	return m.PendingUpdate != nil && m.ScheduledUpdateTime != nil
}

// PendingUpdate is the closed set of menu item fields a deferred edit may
// touch. Nil fields are left unchanged. Unknown keys in the stored JSON are a
// decode error rather than being silently ignored.
type PendingUpdate struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	StockAvailable     *int     `json:"stock_available,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	IsBestSeller       *bool    `json:"is_best_seller,omitempty"`
	CategoryName       *string  `json:"category_name,omitempty"`
	SubcategoryName    *string  `json:"subcategory_name,omitempty"`
}

// DecodePendingUpdate parses the JSON stashed on a menu item row.
func DecodePendingUpdate(raw string) (*PendingUpdate, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var pu PendingUpdate
	if err := dec.Decode(&pu); err != nil {
		return nil, err
	}
	return &pu, nil
}

// Encode renders the field-set back to the storage representation.
func (p *PendingUpdate) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
