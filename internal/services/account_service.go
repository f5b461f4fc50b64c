package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/auth"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/mailer"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

const resetTokenTTL = 30 * time.Minute

// CustomerSignup is the customer registration payload. The address becomes
// the customer's preferred delivery address.
type CustomerSignup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// AgentSignup is the delivery agent registration payload. New agents are
// created unapproved and cannot log in until an admin approves them.
type AgentSignup struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	DeliveryArea string `json:"delivery_area"`
	IDProof      string `json:"id_proof"`
	Bio          string `json:"bio"`
}

// Session is a successful login result.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AccountService handles registration, login and password recovery for all
// three roles.
type AccountService interface {
	SignupCustomer(in CustomerSignup) (*models.Customer, error)
	SignupAgent(in AgentSignup) (*models.DeliveryAgent, error)
	// Login authenticates by email or phone for the given role.
	Login(role, identifier, password string) (*Session, error)
	// ForgotPassword issues a reset token and mails it to the customer.
	// It succeeds silently for unknown emails so it cannot be used to
	// probe for accounts.
	ForgotPassword(email, resetBaseURL string) error
	ResetPassword(token, newPassword string) error
	GetCustomer(customerID string) (*models.Customer, error)
	ListCustomers() ([]models.Customer, error)
}

type accountService struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	mail   mailer.Mailer
}

// NewAccountService creates a new instance of AccountService
func NewAccountService(db *gorm.DB, tokens *auth.TokenIssuer, mail mailer.Mailer) AccountService {
	return &accountService{db: db, tokens: tokens, mail: mail}
}

func (s *accountService) SignupCustomer(in CustomerSignup) (*models.Customer, error) {
	if in.Username == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, apperrors.NewValidation("missing_fields", "username, email, phone and password are required")
	}

	var created *models.Customer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkDuplicate(tx, &models.Customer{}, in.Email, in.Phone); err != nil {
			return err
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperrors.NewStore(err)
		}

		customerID, err := ids.Next(tx, ids.Customer)
		if err != nil {
			return err
		}
		customer := models.Customer{
			CustomerID: customerID,
			Username:   in.Username,
			Email:      in.Email,
			Phone:      in.Phone,
			Password:   hash,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return apperrors.NewStore(err)
		}

		if in.Street != "" {
			addressID, err := ids.Next(tx, ids.Address)
			if err != nil {
				return err
			}
			address := models.Address{
				AddressID:   addressID,
				CustomerID:  customerID,
				Street:      in.Street,
				City:        in.City,
				State:       in.State,
				Pincode:     in.Pincode,
				IsPreferred: true,
			}
			if err := tx.Create(&address).Error; err != nil {
				return apperrors.NewStore(err)
			}
		}
		created = &customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mail.SendWelcome(created.Email, created.Username)
	return created, nil
}

func (s *accountService) SignupAgent(in AgentSignup) (*models.DeliveryAgent, error) {
	if in.Username == "" || in.Email == "" || in.Phone == "" || in.Password == "" || in.DeliveryArea == "" {
		return nil, apperrors.NewValidation("missing_fields", "username, email, phone, password and delivery area are required")
	}

	var created *models.DeliveryAgent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkDuplicate(tx, &models.DeliveryAgent{}, in.Email, in.Phone); err != nil {
			return err
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperrors.NewStore(err)
		}

		agentID, err := ids.Next(tx, ids.DeliveryAgent)
		if err != nil {
			return err
		}
		agent := models.DeliveryAgent{
			DeliveryAgentID: agentID,
			Username:        in.Username,
			Email:           in.Email,
			Phone:           in.Phone,
			Password:        hash,
			DeliveryArea:    in.DeliveryArea,
			IDProof:         in.IDProof,
			Bio:             in.Bio,
			AvailableSlots:  true,
			IsApproved:      false,
			IsActive:        true,
		}
		if err := tx.Create(&agent).Error; err != nil {
			return apperrors.NewStore(err)
		}
		created = &agent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *accountService) Login(role, identifier, password string) (*Session, error) {
	if identifier == "" || password == "" {
		return nil, apperrors.NewValidation("missing_fields", "identifier and password are required")
	}

	var (
		id, username, hash string
		err                error
	)
	switch role {
	case models.RoleAdmin:
		var admin models.Admin
		err = s.db.Where("email = ? OR phone = ?", identifier, identifier).First(&admin).Error
		id, username, hash = admin.AdminID, admin.Username, admin.Password
	case models.RoleCustomer:
		var customer models.Customer
		err = s.db.Where("email = ? OR phone = ?", identifier, identifier).First(&customer).Error
		id, username, hash = customer.CustomerID, customer.Username, customer.Password
	case models.RoleAgent:
		var agent models.DeliveryAgent
		err = s.db.Where("email = ? OR phone = ?", identifier, identifier).First(&agent).Error
		if err == nil && (!agent.IsApproved || !agent.IsActive) {
			return nil, apperrors.NewPrecondition(apperrors.ReasonAccountNotApproved, "agent account is not approved or has been deactivated")
		}
		id, username, hash = agent.DeliveryAgentID, agent.Username, agent.Password
	default:
		return nil, apperrors.NewValidation("invalid_role", "unknown role "+role)
	}

	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidCredentials, "invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	if !auth.CheckPassword(hash, password) {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidCredentials, "invalid credentials")
	}

	token, err := s.tokens.Issue(id, role)
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &Session{Token: token, UserID: id, Username: username, Role: role}, nil
}

func (s *accountService) ForgotPassword(email, resetBaseURL string) error {
	if email == "" {
		return apperrors.NewValidation("missing_fields", "email is required")
	}
	var customer models.Customer
	err := s.db.Where("email = ?", email).First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return apperrors.NewStore(err)
	}

	reset := models.PasswordReset{
		Token:      uuid.New().String(),
		CustomerID: customer.CustomerID,
		ExpiresAt:  time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return apperrors.NewStore(err)
	}

	s.mail.SendPasswordReset(customer.Email, resetBaseURL+"/"+reset.Token)
	return nil
}

func (s *accountService) ResetPassword(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperrors.NewValidation("missing_fields", "token and new password are required")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		err := tx.Where("token = ?", token).First(&reset).Error
		if err == gorm.ErrRecordNotFound {
			return apperrors.NewValidation("invalid_reset_token", "reset token is invalid")
		}
		if err != nil {
			return apperrors.NewStore(err)
		}
		if time.Now().UTC().After(reset.ExpiresAt) {
			return apperrors.NewValidation("expired_reset_token", "reset token has expired")
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return apperrors.NewStore(err)
		}
		err = tx.Model(&models.Customer{}).
			Where("customer_id = ?", reset.CustomerID).
			Update("password", hash).Error
		if err != nil {
			return apperrors.NewStore(err)
		}
		// Single use.
		if err := tx.Delete(&reset).Error; err != nil {
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *accountService) GetCustomer(customerID string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Preload("Addresses").Where("customer_id = ?", customerID).First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("customer_not_found", "customer not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &customer, nil
}

func (s *accountService) ListCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.Find(&customers).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	return customers, nil
}

// checkDuplicate rejects signups reusing an email or phone within the same
// role table.
func checkDuplicate(tx *gorm.DB, model interface{}, email, phone string) error {
	var count int64
	err := tx.Model(model).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error
	if err != nil {
		return apperrors.NewStore(err)
	}
	if count > 0 {
		return apperrors.NewPrecondition(apperrors.ReasonDuplicateAccount, "an account with this email or phone already exists")
	}
	return nil
}
