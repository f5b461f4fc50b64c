package services

import (
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
)

// AgentPerformance is one row of the per-agent breakdown.
type AgentPerformance struct {
	DeliveryAgentID string  `json:"delivery_agent_id"`
	Username        string  `json:"username"`
	Deliveries      int64   `json:"deliveries"`
	AverageRating   float64 `json:"average_rating"`
}

// Insights is the admin analytics snapshot. Scalar aggregates only.
type Insights struct {
	AverageDeliveryMinutes float64            `json:"average_delivery_minutes"`
	OnTimePercentage       float64            `json:"on_time_percentage"`
	RevenuePerDelivery     float64            `json:"revenue_per_delivery"`
	RefundRate             float64            `json:"refund_rate"`
	Agents                 []AgentPerformance `json:"agents"`
}

// InsightsService computes delivery performance aggregates for the admin
// insights page.
type InsightsService interface {
	Snapshot() (*Insights, error)
}

type insightsService struct {
	db              *gorm.DB
	onTimeThreshold time.Duration
}

// NewInsightsService creates a new instance of InsightsService
func NewInsightsService(db *gorm.DB, onTimeThreshold time.Duration) InsightsService {
	return &insightsService{db: db, onTimeThreshold: onTimeThreshold}
}

func (s *insightsService) Snapshot() (*Insights, error) {
	out := &Insights{Agents: []AgentPerformance{}}

	// Delivery durations are computed here rather than in SQL so the maths
	// is identical across sqlite and postgres.
	var delivered []models.Order
	err := s.db.Where("delivery_status = ? AND delivered_at IS NOT NULL", models.StatusDelivered).
		Find(&delivered).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	if len(delivered) > 0 {
		var totalMinutes, revenue float64
		var onTime int
		for _, order := range delivered {
			duration := order.DeliveredAt.Sub(order.CreatedAt)
			totalMinutes += duration.Minutes()
			if duration <= s.onTimeThreshold {
				onTime++
			}
			revenue += order.TotalPrice
		}
		n := float64(len(delivered))
		out.AverageDeliveryMinutes = totalMinutes / n
		out.OnTimePercentage = float64(onTime) / n * 100
		out.RevenuePerDelivery = revenue / n
	}

	var refunded, completed int64
	err = s.db.Model(&models.Order{}).
		Where("delivery_status = ?", models.StatusRefunded).
		Count(&refunded).Error
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	completed = int64(len(delivered)) + refunded
	if completed > 0 {
		out.RefundRate = float64(refunded) / float64(completed) * 100
	}

	var agents []models.DeliveryAgent
	if err := s.db.Find(&agents).Error; err != nil {
		return nil, apperrors.NewStore(err)
	}
	for _, agent := range agents {
		row := AgentPerformance{
			DeliveryAgentID: agent.DeliveryAgentID,
			Username:        agent.Username,
		}
		err := s.db.Model(&models.Order{}).
			Where("delivery_agent_id = ? AND delivery_status = ?", agent.DeliveryAgentID, models.StatusDelivered).
			Count(&row.Deliveries).Error
		if err != nil {
			return nil, apperrors.NewStore(err)
		}
		var avg *float64
		err = s.db.Model(&models.DeliveryFeedback{}).
			Select("AVG(rating)").
			Where("delivery_agent_id = ?", agent.DeliveryAgentID).
			Scan(&avg).Error
		if err != nil {
			return nil, apperrors.NewStore(err)
		}
		if avg != nil {
			row.AverageRating = *avg
		}
		out.Agents = append(out.Agents, row)
	}

	return out, nil
}
