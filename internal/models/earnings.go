package models

import "time"

// Earnings is a cumulative ledger row: one per (agent, calendar day), created
// lazily on the agent's first delivery of that day. BasePay and Bonus are
// running totals carried forward from the most recent prior day, not daily
// deltas.
type Earnings struct {
	EarningsID      string    `json:"earnings_id" gorm:"primaryKey;size:10"`
	DeliveryAgentID string    `json:"delivery_agent_id" gorm:"size:10;not null;index"`
	BasePay         float64   `json:"base_pay" gorm:"not null;default:0"`
	Bonus           float64   `json:"bonus" gorm:"not null;default:0"`
	TripsCount      int       `json:"trips_count" gorm:"not null;default:0"`
	EarnedAt        time.Time `json:"earned_at"`

	DeliveryAgent *DeliveryAgent `json:"-" gorm:"foreignKey:DeliveryAgentID"`
}

func (Earnings) TableName() string { return "earnings" }
