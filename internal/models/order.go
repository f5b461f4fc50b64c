package models

import "time"

// OrderStatus enumerates the delivery lifecycle of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusPreparing      OrderStatus = "Preparing"
	StatusAccepted       OrderStatus = "Accepted"
	StatusPickedUp       OrderStatus = "Picked Up"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
	StatusRefunded       OrderStatus = "Refunded"
	StatusDeclined       OrderStatus = "Declined"
)

// orderTransitions is the single source of truth for legal status changes.
// Guards beyond the shape of the graph (who may perform the change, agent
// availability) live in the order service.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusPreparing, StatusCancelled, StatusDeclined},
	StatusPreparing:      {StatusAccepted, StatusPending},
	StatusAccepted:       {StatusPickedUp},
	StatusPickedUp:       {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {StatusRefunded},
}

// AgentStatusValues is the fixed forward set an agent may submit on the
// status-update endpoint. Anything else is rejected outright.
var AgentStatusValues = []OrderStatus{StatusAccepted, StatusPickedUp, StatusOutForDelivery, StatusDelivered}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusAccepted, StatusPickedUp,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusRefunded, StatusDeclined:
		return true
	}
	return false
}

// CanTransition reports whether the status machine allows s -> to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the delivery flow. Delivered is terminal
// for the agent-facing machine even though an admin refund may still follow.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded, StatusDeclined:
		return true
	}
	return false
}

// Order is an immutable price snapshot of a checkout. DeliveryLocation is
// denormalized text, not a live address reference. Invariant: DeliveredAt is
// non-nil iff DeliveryStatus == Delivered (or Refunded after a delivery).
type Order struct {
	OrderID          string      `json:"order_id" gorm:"primaryKey;size:10"`
	CustomerID       string      `json:"customer_id" gorm:"size:10;not null;index"`
	DeliveryAgentID  *string     `json:"delivery_agent_id" gorm:"size:10;index"`
	DeliveryStatus   OrderStatus `json:"delivery_status" gorm:"size:20;not null;default:'Pending'"`
	TotalPrice       float64     `json:"total_price" gorm:"not null"`
	DeliveryLocation string      `json:"delivery_location" gorm:"not null"`
	CreatedAt        time.Time   `json:"created_at" gorm:"not null"`
	DeliveredAt      *time.Time  `json:"delivered_at"`
	OrderFeedback    *int        `json:"order_feedback"`

	Customer      *Customer      `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	DeliveryAgent *DeliveryAgent `json:"delivery_agent,omitempty" gorm:"foreignKey:DeliveryAgentID;constraint:OnDelete:SET NULL"`
	OrderItems    []OrderItem    `json:"order_items,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem records one menu item line of an order. Price is copied from the
// menu item at checkout time, never read live afterwards.
type OrderItem struct {
	OrderItemID string  `json:"order_item_id" gorm:"primaryKey;size:10"`
	OrderID     string  `json:"order_id" gorm:"size:10;not null;index"`
	MenuItemID  string  `json:"menu_item_id" gorm:"size:10;not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	Price       float64 `json:"price" gorm:"not null"`

	Order    *Order    `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	MenuItem *MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "order_item" }
