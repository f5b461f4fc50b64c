package models

import "time"

// Cart is one line of a customer's basket. The cart is ephemeral: writes
// replace the whole set of lines for the customer, and a successful checkout
// deletes them.
type Cart struct {
	CartID     string    `json:"cart_id" gorm:"primaryKey;size:10"`
	CustomerID string    `json:"customer_id" gorm:"size:10;not null;index"`
	MenuItemID string    `json:"menu_item_id" gorm:"size:10;not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	AddedAt    time.Time `json:"added_at" gorm:"not null"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	MenuItem *MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
}

func (Cart) TableName() string { return "cart" }
