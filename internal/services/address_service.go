package services

import (
	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

// AddressInput is the payload for creating or updating an address.
type AddressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// AddressService manages a customer's saved delivery addresses. At most one
// address per customer is preferred at any time.
type AddressService interface {
	List(customerID string) ([]models.Address, error)
	Create(customerID string, in AddressInput) (*models.Address, error)
	Update(customerID, addressID string, in AddressInput) (*models.Address, error)
	Delete(customerID, addressID string) error
	// SetPreferred marks the address preferred and clears the flag on all
	// of the customer's other addresses.
	SetPreferred(customerID, addressID string) (*models.Address, error)
}

type addressService struct {
	db *gorm.DB
}

// NewAddressService creates a new instance of AddressService
func NewAddressService(db *gorm.DB) AddressService {
	return &addressService{db: db}
}

func (s *addressService) List(customerID string) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("customer_id = ?", customerID).Order("address_id").Find(&addresses).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return addresses, nil
}

func (s *addressService) getOwned(tx *gorm.DB, customerID, addressID string) (*models.Address, error) {
	var address models.Address
	err := tx.Where("address_id = ? AND customer_id = ?", addressID, customerID).First(&address).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("address_not_found", "address not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &address, nil
}

func (s *addressService) Create(customerID string, in AddressInput) (*models.Address, error) {
	if in.Street == "" || in.City == "" || in.Pincode == "" {
		return nil, apperrors.NewValidation("missing_fields", "street, city and pincode are required")
	}
	var created *models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		id, err := ids.Next(tx, ids.Address)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Address{}).Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
			return apperrors.NewStore(err)
		}
		address := models.Address{
			AddressID:   id,
			CustomerID:  customerID,
			Street:      in.Street,
			City:        in.City,
			State:       in.State,
			Pincode:     in.Pincode,
			IsPreferred: count == 0,
		}
		if err := tx.Create(&address).Error; err != nil {
			return apperrors.NewStore(err)
		}
		created = &address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *addressService) Update(customerID, addressID string, in AddressInput) (*models.Address, error) {
	address, err := s.getOwned(s.db, customerID, addressID)
	if err != nil {
		return nil, err
	}
	if in.Street != "" {
		address.Street = in.Street
	}
	if in.City != "" {
		address.City = in.City
	}
	if in.State != "" {
		address.State = in.State
	}
	if in.Pincode != "" {
		address.Pincode = in.Pincode
	}
	if err := s.db.Save(address).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	return address, nil
}

func (s *addressService) Delete(customerID, addressID string) error {
	address, err := s.getOwned(s.db, customerID, addressID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(address).Error; err != nil {
		return apperrors.NewStore(err)
	}
	return nil
}

func (s *addressService) SetPreferred(customerID, addressID string) (*models.Address, error) {
	var preferred *models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		address, err := s.getOwned(tx, customerID, addressID)
		if err != nil {
			return err
		}
		err = tx.Model(&models.Address{}).
			Where("customer_id = ?", customerID).
			Update("is_preferred", false).Error
		if err != nil {
			return apperrors.NewStore(err)
		}
		address.IsPreferred = true
		if err := tx.Save(address).Error; err != nil {
			return apperrors.NewStore(err)
		}
		preferred = address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preferred, nil
}
