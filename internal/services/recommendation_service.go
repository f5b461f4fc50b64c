package services

import (
	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

const maxRecommendations = 5

// Recommendations is the personalised menu suggestion result. IsNewUser is
// true when the customer has no order history yet.
type Recommendations struct {
	Items     []models.MenuItem `json:"items"`
	IsNewUser bool              `json:"is_new_user"`
}

// RecommendationService suggests in-stock items from the subcategories a
// customer has ordered from before, excluding items they have already tried.
type RecommendationService interface {
	ForCustomer(customerID string) (*Recommendations, error)
}

type recommendationService struct {
	db *gorm.DB
}

// NewRecommendationService creates a new instance of RecommendationService
func NewRecommendationService(db *gorm.DB) RecommendationService {
	return &recommendationService{db: db}
}

func (s *recommendationService) ForCustomer(customerID string) (*Recommendations, error) {
	var orderedItemIDs []string
	err := s.db.Table("order_item").
		Select("DISTINCT order_item.menu_item_id").
		Joins("JOIN orders ON orders.order_id = order_item.order_id").
		Where("orders.customer_id = ?", customerID).
		Scan(&orderedItemIDs).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	if len(orderedItemIDs) == 0 {
		return &Recommendations{Items: []models.MenuItem{}, IsNewUser: true}, nil
	}

	var subcategoryIDs []string
	err = s.db.Model(&models.MenuItem{}).
		Select("DISTINCT subcategory_id").
		Where("menu_item_id IN ?", orderedItemIDs).
		Scan(&subcategoryIDs).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	var items []models.MenuItem
	err = s.db.Preload("Category").Preload("Subcategory").
		Where("subcategory_id IN ? AND menu_item_id NOT IN ? AND is_out_of_stock = ?",
			subcategoryIDs, orderedItemIDs, false).
		Limit(maxRecommendations).
		Find(&items).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &Recommendations{Items: items, IsNewUser: false}, nil
}
