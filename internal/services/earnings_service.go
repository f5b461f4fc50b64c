package services

import (
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/ids"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EarningsConfig holds the accrual tunables.
type EarningsConfig struct {
	BasePayPerDelivery float64
	TripBonusAmount    float64
	TripBonusEvery     int
}

// EarningsService maintains the per-agent cumulative ledger. Accrue is only
// ever called by the order lifecycle when a delivery completes, inside the
// same transaction that marks the order Delivered.
type EarningsService interface {
	// Accrue records one completed delivery for the agent at the given
	// time, creating the day's ledger row with carry-forward if needed.
	Accrue(tx *gorm.DB, agentID string, now time.Time) (*models.Earnings, error)
	// Today returns the agent's ledger row for the current day, or a zero
	// row if none exists yet.
	Today(agentID string) (*models.Earnings, error)
	// Recent returns the agent's most recent ledger row, if any.
	Recent(agentID string) (*models.Earnings, error)
}

type earningsService struct {
	db  *gorm.DB
	cfg EarningsConfig
}

// NewEarningsService creates a new instance of EarningsService
func NewEarningsService(db *gorm.DB, cfg EarningsConfig) EarningsService {
	return &earningsService{db: db, cfg: cfg}
}

func (s *earningsService) Accrue(tx *gorm.DB, agentID string, now time.Time) (*models.Earnings, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	// The day row may not exist yet, so locking it cannot serialize the
	// read-then-create below. The agent row always exists; holding it FOR
	// UPDATE is what keeps two deliveries completing at once from both
	// creating the day row.
	var agent models.DeliveryAgent
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("delivery_agent_id = ?", agentID).
		First(&agent).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NewNotFound("agent_not_found", "delivery agent not found")
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}

	var row models.Earnings
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("delivery_agent_id = ? AND earned_at >= ? AND earned_at < ?", agentID, dayStart, dayEnd).
		First(&row).Error
	switch {
	case err == nil:
		row.TripsCount++
		row.BasePay += s.cfg.BasePayPerDelivery
		if row.TripsCount%s.cfg.TripBonusEvery == 0 {
			row.Bonus += s.cfg.TripBonusAmount
		}
		if err := tx.Save(&row).Error; err != nil {
			return nil, apperrors.NewStore(err)
		}
		return &row, nil

	case err == gorm.ErrRecordNotFound:
		// First delivery of the day: carry the running totals forward
		// from the most recent prior day, zero if this is day one.
		var prior models.Earnings
		carryBase, carryBonus := 0.0, 0.0
		err := tx.Where("delivery_agent_id = ? AND earned_at < ?", agentID, dayStart).
			Order("earned_at DESC").
			First(&prior).Error
		if err == nil {
			carryBase = prior.BasePay
			carryBonus = prior.Bonus
		} else if err != gorm.ErrRecordNotFound {
			return nil, apperrors.NewStore(err)
		}

		id, err := ids.Next(tx, ids.Earnings)
		if err != nil {
			return nil, err
		}
		row = models.Earnings{
			EarningsID:      id,
			DeliveryAgentID: agentID,
			BasePay:         carryBase + s.cfg.BasePayPerDelivery,
			Bonus:           carryBonus,
			TripsCount:      1,
			EarnedAt:        now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, apperrors.NewStore(err)
		}
		return &row, nil

	default:
		return nil, apperrors.NewStore(err)
	}
}

func (s *earningsService) Today(agentID string) (*models.Earnings, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var row models.Earnings
	err := s.db.Where("delivery_agent_id = ? AND earned_at >= ?", agentID, dayStart).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return &models.Earnings{DeliveryAgentID: agentID}, nil
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &row, nil
}

func (s *earningsService) Recent(agentID string) (*models.Earnings, error) {
	var row models.Earnings
	err := s.db.Where("delivery_agent_id = ?", agentID).
		Order("earned_at DESC").
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStore(err)
	}
	return &row, nil
}
