package models

// Address is a saved delivery address. At most one address per customer is
// marked preferred; setting a new preferred address clears the flag on the
// others.
type Address struct {
	AddressID   string `json:"address_id" gorm:"primaryKey;size:10"`
	CustomerID  string `json:"customer_id" gorm:"size:10;not null;index"`
	Street      string `json:"street" gorm:"size:255;not null"`
	City        string `json:"city" gorm:"size:50;not null"`
	State       string `json:"state" gorm:"size:50;not null"`
	Pincode     string `json:"pincode" gorm:"size:20;not null"`
	IsPreferred bool   `json:"is_preferred" gorm:"default:false"`
}

func (Address) TableName() string { return "address" }
