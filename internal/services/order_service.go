package services

import (
	"fmt"
	"math"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricingConfig holds the server-side checkout maths.
type PricingConfig struct {
	TaxRate        float64
	DeliveryCharge float64
}

// DeliveryDetails is the address snapshot supplied at checkout.
type DeliveryDetails struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// PlaceOrderRequest is the checkout payload. The client-computed figures are
// validated against the server-side computation before anything is written.
type PlaceOrderRequest struct {
	Total           float64         `json:"total"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	DeliveryCharge  float64         `json:"delivery_charge"`
	DeliveryDetails DeliveryDetails `json:"delivery_details"`
}

// OrderSummary aggregates counts for the admin dashboard.
type OrderSummary struct {
	TotalOrders     int64   `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	CancelledOrders int64   `json:"cancelled_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
}

// OrderPage is one page of the admin order listing.
type OrderPage struct {
	Orders     []models.Order `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int64          `json:"total_pages"`
}

// OrderService drives the order lifecycle: creation from carts, the status
// machine, and the earnings accrual a completed delivery triggers.
type OrderService interface {
	// PlaceOrder checks out the customer's cart atomically: stock checks,
	// order + item snapshots, stock decrements and cart clearing all
	// commit together or not at all.
	PlaceOrder(customerID string, req PlaceOrderRequest) (*models.Order, error)
	// GetOrder returns an order with its items, scoped to the customer.
	GetOrder(customerID, orderID string) (*models.Order, error)
	// GetStatus returns the order's delivery status, scoped to the customer.
	GetStatus(customerID, orderID string) (models.OrderStatus, error)
	// History lists the customer's orders, newest first.
	History(customerID string) ([]models.Order, error)

	// AssignAgent moves a Pending order to Preparing for an active agent.
	AssignAgent(orderID, agentID string) error
	// RejectOrder cancels a Pending order.
	RejectOrder(orderID string) error
	// RefundOrder refunds a Delivered order.
	RefundOrder(orderID string) error

	// AcceptOrder is the agent taking a Preparing order.
	AcceptOrder(agentID, orderID string) error
	// DeclineOrder returns a Preparing order to the unassigned pool.
	DeclineOrder(agentID, orderID string) error
	// UpdateStatus advances an order along the fixed forward set; reaching
	// Delivered accrues earnings and returns the updated ledger row.
	UpdateStatus(agentID, orderID string, to models.OrderStatus) (*models.Order, *models.Earnings, error)

	// SubmitFeedback records (or replaces) the delivery rating for an order.
	SubmitFeedback(customerID, orderID string, rating int, feedback string) error

	// PendingOrders lists unassigned orders with items for the admin view.
	PendingOrders() ([]models.Order, error)
	// AllOrders pages through every order with a sort whitelist.
	AllOrders(page, perPage int, sortBy, sortDir string) (*OrderPage, error)
	// Summary returns dashboard counts.
	Summary() (*OrderSummary, error)
	// StatusChart returns order counts per status, zero-filled.
	StatusChart() (map[string]int64, error)
}

type orderService struct {
	db       *gorm.DB
	earnings EarningsService
	pricing  PricingConfig
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, earnings EarningsService, pricing PricingConfig) OrderService {
	return &orderService{db: db, earnings: earnings, pricing: pricing}
}

// totalTolerance absorbs float rounding between client and server maths.
const totalTolerance = 0.01

func (s *orderService) PlaceOrder(customerID string, req PlaceOrderRequest) (*models.Order, error) {
	if req.Total <= 0 || req.Subtotal <= 0 {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidTotal, "invalid total or subtotal")
	}

	var placed *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lines are read in menu_item_id order so every checkout takes its
		// item locks in the same order regardless of cart insertion order.
		var cartLines []models.Cart
		if err := tx.Where("customer_id = ?", customerID).Order("menu_item_id").Find(&cartLines).Error; err != nil {
			return apperrors.NewStore(err)
		}
		if len(cartLines) == 0 {
			return apperrors.NewPrecondition(apperrors.ReasonCartEmpty, "cart is empty")
		}

		// Lock every referenced menu item up front, then evaluate all
		// stock checks before any decrement. The row locks are what keep
		// two concurrent checkouts from both claiming the last unit.
		items := make(map[string]*models.MenuItem, len(cartLines))
		subtotal := 0.0
		for _, line := range cartLines {
			var item models.MenuItem
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("menu_item_id = ?", line.MenuItemID).
				First(&item).Error
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFound("menu_item_not_found", "menu item "+line.MenuItemID+" not found")
			}
			if err != nil {
				return apperrors.NewStore(err)
			}
			if item.StockAvailable < line.Quantity {
				return apperrors.NewPrecondition(apperrors.ReasonInsufficientStock,
					"insufficient stock for "+item.Name)
			}
			items[line.MenuItemID] = &item

			lineTotal := item.Price * float64(line.Quantity)
			subtotal += lineTotal - lineTotal*item.DiscountPercentage/100
		}

		expectedTotal := subtotal + subtotal*s.pricing.TaxRate + s.pricing.DeliveryCharge
		if math.Abs(expectedTotal-req.Total) > totalTolerance {
			return apperrors.NewPrecondition(apperrors.ReasonInvalidTotal,
				fmt.Sprintf("submitted total %.2f does not match computed total %.2f", req.Total, expectedTotal))
		}

		orderID, err := ids.Next(tx, ids.Order)
		if err != nil {
			return err
		}
		d := req.DeliveryDetails
		order := models.Order{
			OrderID:          orderID,
			CustomerID:       customerID,
			DeliveryStatus:   models.StatusPending,
			TotalPrice:       req.Total,
			DeliveryLocation: fmt.Sprintf("%s, %s, %s %s", d.Street, d.City, d.State, d.Pincode),
			CreatedAt:        time.Now().UTC(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperrors.NewStore(err)
		}

		for _, line := range cartLines {
			item := items[line.MenuItemID]
			itemID, err := ids.Next(tx, ids.OrderItem)
			if err != nil {
				return err
			}
			orderItem := models.OrderItem{
				OrderItemID: itemID,
				OrderID:     order.OrderID,
				MenuItemID:  line.MenuItemID,
				Quantity:    line.Quantity,
				Price:       item.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return apperrors.NewStore(err)
			}

			item.SetStock(item.StockAvailable - line.Quantity)
			if err := tx.Save(item).Error; err != nil {
				return apperrors.NewStore(err)
			}
		}

		if err := tx.Where("customer_id = ?", customerID).Delete(&models.Cart{}).Error; err != nil {
			return apperrors.NewStore(err)
		}

		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":    placed.OrderID,
		"customer_id": customerID,
		"total":       placed.TotalPrice,
	}).Info("Order placed")
	return placed, nil
}

func (s *orderService) GetOrder(customerID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("OrderItems").Preload("OrderItems.MenuItem").Preload("DeliveryAgent").
		Where("order_id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("order_not_found", "order not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &order, nil
}

func (s *orderService) GetStatus(customerID, orderID string) (models.OrderStatus, error) {
	order, err := s.GetOrder(customerID, orderID)
	if err != nil {
		return "", err
	}
	return order.DeliveryStatus, nil
}

func (s *orderService) History(customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("OrderItems").Preload("OrderItems.MenuItem").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return orders, nil
}

func (s *orderService) AssignAgent(orderID, agentID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.DeliveryStatus != models.StatusPending {
			return apperrors.NewPrecondition(apperrors.ReasonOrderNotPending, "order is not pending")
		}

		var agent models.DeliveryAgent
		if err := tx.Where("delivery_agent_id = ?", agentID).First(&agent).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NewNotFound("agent_not_found", "delivery agent not found")
			}
			return apperrors.NewStore(err)
		}
		if !agent.IsActive {
			return apperrors.NewPrecondition(apperrors.ReasonAgentUnavailable, "agent "+agent.Username+" is not available")
		}

		order.DeliveryAgentID = &agentID
		order.DeliveryStatus = models.StatusPreparing
		if err := tx.Save(order).Error; err != nil {
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *orderService) RejectOrder(orderID string) error {
	return s.transition(orderID, models.StatusPending, models.StatusCancelled, apperrors.ReasonOrderNotPending, "order is not pending")
}

func (s *orderService) RefundOrder(orderID string) error {
	return s.transition(orderID, models.StatusDelivered, models.StatusRefunded, apperrors.ReasonInvalidTransition, "only delivered orders can be refunded")
}

// transition applies a single guarded from->to change with no side effects.
func (s *orderService) transition(orderID string, from, to models.OrderStatus, reason, message string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.DeliveryStatus != from || !from.CanTransition(to) {
			return apperrors.NewPrecondition(reason, message)
		}
		order.DeliveryStatus = to
		if err := tx.Save(order).Error; err != nil {
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *orderService) AcceptOrder(agentID, orderID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.DeliveryStatus != models.StatusPreparing {
			return apperrors.NewPrecondition(apperrors.ReasonInvalidTransition, "order is not awaiting acceptance")
		}
		order.DeliveryStatus = models.StatusAccepted
		order.DeliveryAgentID = &agentID
		if err := tx.Save(order).Error; err != nil {
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *orderService) DeclineOrder(agentID, orderID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.DeliveryStatus != models.StatusPreparing {
			return apperrors.NewPrecondition(apperrors.ReasonInvalidTransition, "order is not awaiting acceptance")
		}
		order.DeliveryStatus = models.StatusPending
		order.DeliveryAgentID = nil
		if err := tx.Save(order).Error; err != nil {
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *orderService) UpdateStatus(agentID, orderID string, to models.OrderStatus) (*models.Order, *models.Earnings, error) {
	valid := false
	for _, allowed := range models.AgentStatusValues {
		if to == allowed {
			valid = true
			break
		}
	}
	if !valid {
		return nil, nil, apperrors.NewValidation(apperrors.ReasonInvalidTransition, "invalid status update")
	}

	var updated *models.Order
	var ledger *models.Earnings
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.DeliveryAgentID == nil || *order.DeliveryAgentID != agentID {
			return apperrors.NewPrecondition(apperrors.ReasonNoAgentAssigned, "order is not assigned to this agent")
		}
		if !order.DeliveryStatus.CanTransition(to) {
			return apperrors.NewPrecondition(apperrors.ReasonInvalidTransition,
				fmt.Sprintf("cannot move order from %s to %s", order.DeliveryStatus, to))
		}

		order.DeliveryStatus = to
		if to == models.StatusDelivered {
			now := time.Now().UTC()
			order.DeliveredAt = &now
			row, err := s.earnings.Accrue(tx, agentID, now)
			if err != nil {
				return err
			}
			ledger = row
		}
		if err := tx.Save(order).Error; err != nil {
			return apperrors.NewStore(err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if to == models.StatusDelivered {
		log.WithFields(log.Fields{
			"order_id": orderID,
			"agent_id": agentID,
		}).Info("Order delivered, earnings accrued")
	}
	return updated, ledger, nil
}

func (s *orderService) SubmitFeedback(customerID, orderID string, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidation("invalid_rating", "rating must be an integer between 1 and 5")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("order_id = ? AND customer_id = ?", orderID, customerID).First(&order).Error
		if err == gorm.ErrRecordNotFound {
			return apperrors.NewNotFound("order_not_found", "order not found")
		}
		if err != nil {
			return apperrors.NewStore(err)
		}
		if order.DeliveryAgentID == nil {
			return apperrors.NewPrecondition(apperrors.ReasonNoAgentAssigned, "no delivery agent assigned to this order")
		}

		var existing models.DeliveryFeedback
		err = tx.Where("order_id = ?", orderID).First(&existing).Error
		switch {
		case err == nil:
			existing.Rating = rating
			existing.Feedback = feedback
			existing.CreatedAt = time.Now().UTC()
			if err := tx.Save(&existing).Error; err != nil {
				return apperrors.NewStore(err)
			}
		case err == gorm.ErrRecordNotFound:
			id, err := ids.Next(tx, ids.DeliveryFeedback)
			if err != nil {
				return err
			}
			row := models.DeliveryFeedback{
				DeliveryFeedbackID: id,
				OrderID:            orderID,
				DeliveryAgentID:    *order.DeliveryAgentID,
				Rating:             rating,
				Feedback:           feedback,
				CreatedAt:          time.Now().UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperrors.NewStore(err)
			}
		default:
			return apperrors.NewStore(err)
		}
		return nil
	})
}

func (s *orderService) PendingOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Customer").Preload("OrderItems").Preload("OrderItems.MenuItem").
		Where("delivery_status = ?", models.StatusPending).
		Order("created_at").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return orders, nil
}

// sortableColumns whitelists the admin listing's sort keys.
var sortableColumns = map[string]string{
	"order_id":    "order_id",
	"status":      "delivery_status",
	"created_at":  "created_at",
	"total_price": "total_price",
}

func (s *orderService) AllOrders(page, perPage int, sortBy, sortDir string) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "order_id"
	}
	direction := "ASC"
	if sortDir == "desc" {
		direction = "DESC"
	}

	var total int64
	if err := s.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}

	var orders []models.Order
	err := s.db.Preload("Customer").
		Order(column + " " + direction).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	return &OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + int64(perPage) - 1) / int64(perPage),
	}, nil
}

func (s *orderService) Summary() (*OrderSummary, error) {
	var summary OrderSummary
	if err := s.db.Model(&models.Order{}).Count(&summary.TotalOrders).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	var revenue *float64
	if err := s.db.Model(&models.Order{}).Select("SUM(total_price)").Scan(&revenue).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	if revenue != nil {
		summary.TotalRevenue = *revenue
	}
	if err := s.db.Model(&models.Order{}).Where("delivery_status = ?", models.StatusCancelled).Count(&summary.CancelledOrders).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	if err := s.db.Model(&models.Order{}).Where("delivery_status = ?", models.StatusDelivered).Count(&summary.DeliveredOrders).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &summary, nil
}

func (s *orderService) StatusChart() (map[string]int64, error) {
	type statusCount struct {
		DeliveryStatus string
		Count          int64
	}
	var rows []statusCount
	err := s.db.Model(&models.Order{}).
		Select("delivery_status, COUNT(order_id) AS count").
		Group("delivery_status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	chart := map[string]int64{
		string(models.StatusPending):        0,
		string(models.StatusPreparing):      0,
		string(models.StatusAccepted):       0,
		string(models.StatusPickedUp):       0,
		string(models.StatusOutForDelivery): 0,
		string(models.StatusDelivered):      0,
		string(models.StatusCancelled):      0,
		string(models.StatusRefunded):       0,
		string(models.StatusDeclined):       0,
	}
	for _, row := range rows {
		chart[row.DeliveryStatus] = row.Count
	}
	return chart, nil
}

// lockOrder loads an order FOR UPDATE so lifecycle checks and the following
// write observe a consistent row.
func lockOrder(tx *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("order_not_found", "order not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &order, nil
}
