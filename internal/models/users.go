package models

// Role names carried in JWT claims and checked by the role middleware.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleAgent    = "agent"
)

// Admin represents a marketplace administrator.
type Admin struct {
	AdminID  string `json:"admin_id" gorm:"primaryKey;size:10"`
	Username string `json:"username" gorm:"size:100"`
	Email    string `json:"email" gorm:"size:100;uniqueIndex"`
	Password string `json:"-" gorm:"size:100;not null"`
	Phone    string `json:"phone" gorm:"size:20;uniqueIndex;not null"`
}

func (Admin) TableName() string { return "admin" }

// Customer represents an ordering user. A customer owns their addresses,
// cart rows and orders.
type Customer struct {
	CustomerID string `json:"customer_id" gorm:"primaryKey;size:10"`
	Username   string `json:"username" gorm:"size:100"`
	Email      string `json:"email" gorm:"size:100;uniqueIndex"`
	Phone      string `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	Password   string `json:"-" gorm:"size:100;not null"`

	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Customer) TableName() string { return "customer" }

// DeliveryAgent represents a delivery partner. Agents sign up unapproved and
// must be approved by an admin before they can log in; is_active gates order
// assignment.
type DeliveryAgent struct {
	DeliveryAgentID string `json:"delivery_agent_id" gorm:"primaryKey;size:10"`
	Username        string `json:"username" gorm:"size:100"`
	Email           string `json:"email" gorm:"size:100;uniqueIndex"`
	Phone           string `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	Password        string `json:"-" gorm:"size:100;not null"`
	Bio             string `json:"bio" gorm:"default:''"`
	DeliveryArea    string `json:"delivery_area" gorm:"size:100;not null"`
	AvailableSlots  bool   `json:"available_slots" gorm:"not null;default:true"`
	IDProof         string `json:"id_proof" gorm:"size:12;default:''"`
	IsApproved      bool   `json:"is_approved" gorm:"not null;default:false"`
	IsActive        bool   `json:"is_active" gorm:"not null;default:true"`
}

func (DeliveryAgent) TableName() string { return "delivery_agent" }
