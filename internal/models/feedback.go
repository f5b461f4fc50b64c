package models

import "time"

// DeliveryFeedback holds the customer's rating of a delivery. At most one row
// exists per order (unique index); re-submission updates it in place.
type DeliveryFeedback struct {
	DeliveryFeedbackID string    `json:"delivery_feedback_id" gorm:"primaryKey;size:10"`
	OrderID            string    `json:"order_id" gorm:"size:10;not null;uniqueIndex"`
	DeliveryAgentID    string    `json:"delivery_agent_id" gorm:"size:10;not null;index"`
	Rating             int       `json:"rating" gorm:"not null"`
	Feedback           string    `json:"feedback"`
	CreatedAt          time.Time `json:"created_at"`

	Order         *Order         `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveryAgent *DeliveryAgent `json:"-" gorm:"foreignKey:DeliveryAgentID"`
}

func (DeliveryFeedback) TableName() string { return "delivery_feedback" }
