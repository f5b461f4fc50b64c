package models

import "time"

// PasswordReset is a single-use reset token mailed to a customer.
type PasswordReset struct {
	Token      string    `json:"token" gorm:"primaryKey;size:36"`
	CustomerID string    `json:"customer_id" gorm:"size:10;not null;index"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null"`
}

func (PasswordReset) TableName() string { return "password_reset" }
