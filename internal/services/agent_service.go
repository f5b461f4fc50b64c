package services

import (
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

// AgentProfilePatch is a partial profile update submitted by the agent.
type AgentProfilePatch struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	DeliveryArea   *string `json:"delivery_area"`
	IDProof        *string `json:"id_proof"`
	Bio            *string `json:"bio"`
	AvailableSlots *bool   `json:"available_slots"`
}

// AgentDashboard is the agent home view: order buckets plus today's numbers.
type AgentDashboard struct {
	PendingOrders   []models.Order   `json:"pending_orders"`
	AssignedOrders  []models.Order   `json:"assigned_orders"`
	CompletedOrders []models.Order   `json:"completed_orders"`
	TodaysCount     int64            `json:"todays_deliveries_count"`
	PendingCount    int64            `json:"pending_count"`
	CompletedCount  int64            `json:"completed_count"`
	TodayEarnings   *models.Earnings `json:"earnings"`
	RecentEarnings  *models.Earnings `json:"recent_earnings"`
}

// AgentService covers delivery-agent administration and the agent's own view.
type AgentService interface {
	List() ([]models.DeliveryAgent, error)
	Approve(agentID string) (*models.DeliveryAgent, error)
	// Reject removes an unapproved signup entirely.
	Reject(agentID string) (*models.DeliveryAgent, error)
	Activate(agentID string) (*models.DeliveryAgent, error)
	Deactivate(agentID string) (*models.DeliveryAgent, error)
	UpdateProfile(agentID string, patch AgentProfilePatch) (*models.DeliveryAgent, error)
	Dashboard(agentID string) (*AgentDashboard, error)
}

type agentService struct {
	db       *gorm.DB
	earnings EarningsService
}

// NewAgentService creates a new instance of AgentService
func NewAgentService(db *gorm.DB, earnings EarningsService) AgentService {
	return &agentService{db: db, earnings: earnings}
}

func (s *agentService) List() ([]models.DeliveryAgent, error) {
	var agents []models.DeliveryAgent
	if err := s.db.Find(&agents).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	return agents, nil
}

func (s *agentService) getAgent(agentID string) (*models.DeliveryAgent, error) {
	var agent models.DeliveryAgent
	err := s.db.Where("delivery_agent_id = ?", agentID).First(&agent).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("agent_not_found", "delivery agent not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &agent, nil
}

func (s *agentService) setFlag(agentID string, mutate func(*models.DeliveryAgent)) (*models.DeliveryAgent, error) {
	agent, err := s.getAgent(agentID)
	if err != nil {
		return nil, err
	}
	mutate(agent)
	if err := s.db.Save(agent).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	return agent, nil
}

func (s *agentService) Approve(agentID string) (*models.DeliveryAgent, error) {
	return s.setFlag(agentID, func(a *models.DeliveryAgent) { a.IsApproved = true })
}

func (s *agentService) Reject(agentID string) (*models.DeliveryAgent, error) {
	agent, err := s.getAgent(agentID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(agent).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	return agent, nil
}

func (s *agentService) Activate(agentID string) (*models.DeliveryAgent, error) {
	return s.setFlag(agentID, func(a *models.DeliveryAgent) { a.IsActive = true })
}

func (s *agentService) Deactivate(agentID string) (*models.DeliveryAgent, error) {
	return s.setFlag(agentID, func(a *models.DeliveryAgent) { a.IsActive = false })
}

func (s *agentService) UpdateProfile(agentID string, patch AgentProfilePatch) (*models.DeliveryAgent, error) {
	return s.setFlag(agentID, func(a *models.DeliveryAgent) {
		if patch.Username != nil {
			a.Username = *patch.Username
		}
		if patch.Email != nil {
			a.Email = *patch.Email
		}
		if patch.Phone != nil {
			a.Phone = *patch.Phone
		}
		if patch.DeliveryArea != nil {
			a.DeliveryArea = *patch.DeliveryArea
		}
		if patch.IDProof != nil {
			a.IDProof = *patch.IDProof
		}
		if patch.Bio != nil {
			a.Bio = *patch.Bio
		}
		if patch.AvailableSlots != nil {
			a.AvailableSlots = *patch.AvailableSlots
		}
	})
}

func (s *agentService) Dashboard(agentID string) (*AgentDashboard, error) {
	if _, err := s.getAgent(agentID); err != nil {
		return nil, err
	}

	dashboard := &AgentDashboard{}
	buckets := []struct {
		status models.OrderStatus
		dest   *[]models.Order
	}{
		{models.StatusPreparing, &dashboard.PendingOrders},
		{models.StatusAccepted, &dashboard.AssignedOrders},
		{models.StatusDelivered, &dashboard.CompletedOrders},
	}
	for _, b := range buckets {
		err := s.db.Preload("Customer").
			Where("delivery_agent_id = ? AND delivery_status = ?", agentID, b.status).
			Order("created_at DESC").
			Find(b.dest).Error
		if err != nil {
			return nil, apperrors.NewStore(err)
		}
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	err := s.db.Model(&models.Order{}).
		Where("delivery_agent_id = ? AND created_at >= ? AND delivery_status IN ?",
			agentID, dayStart,
			[]models.OrderStatus{models.StatusDelivered, models.StatusPreparing, models.StatusAccepted}).
		Count(&dashboard.TodaysCount).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	err = s.db.Model(&models.Order{}).
		Where("delivery_agent_id = ? AND delivery_status = ?", agentID, models.StatusPreparing).
		Count(&dashboard.PendingCount).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	err = s.db.Model(&models.Order{}).
		Where("delivery_agent_id = ? AND delivery_status = ?", agentID, models.StatusDelivered).
		Count(&dashboard.CompletedCount).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	if dashboard.TodayEarnings, err = s.earnings.Today(agentID); err != nil {
		return nil, err
	}
	if dashboard.RecentEarnings, err = s.earnings.Recent(agentID); err != nil {
		return nil, err
	}
	return dashboard, nil
}
