// Package scheduler runs the background task that applies deferred catalog
// changes once their scheduled time arrives.
package scheduler

import (
	"strings"
	"sync"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Processor periodically scans menu items for due pending updates and applies
// them in a single transaction per tick. A tick is idempotent: applying an
// update clears both the payload and the schedule, so a rerun finds nothing.
type Processor struct {
	db       *gorm.DB
	interval time.Duration

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewProcessor creates a new Processor ticking at the given interval.
func NewProcessor(db *gorm.DB, interval time.Duration) *Processor {
	return &Processor{
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. Call Stop to shut it down.
func (p *Processor) Start() {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		log.WithField("interval", p.interval.String()).Info("Scheduled update processor started")
		for {
			select {
			case <-ticker.C:
				if err := p.RunOnce(time.Now().UTC()); err != nil {
					log.WithError(err).Error("Scheduled update pass failed, will retry next tick")
				}
			case <-p.stop:
				log.Info("Scheduled update processor stopped")
				return
			}
		}
	}()
}

// Stop shuts the loop down and waits for the in-flight tick to finish.
func (p *Processor) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}

// RunOnce applies every due pending update in one transaction. Any failure
// rolls the whole pass back; the items stay due and the next tick retries.
func (p *Processor) RunOnce(now time.Time) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var items []models.MenuItem
		err := tx.Where("scheduled_update_time IS NOT NULL AND scheduled_update_time <= ? AND pending_update IS NOT NULL", now).
			Find(&items).Error
		if err != nil {
			return err
		}
		for i := range items {
			if err := p.apply(tx, &items[i]); err != nil {
				return err
			}
		}
		if len(items) > 0 {
			log.WithField("count", len(items)).Info("Applied scheduled menu updates")
		}
		return nil
	})
}

func (p *Processor) apply(tx *gorm.DB, item *models.MenuItem) error {
	update, err := models.DecodePendingUpdate(*item.PendingUpdate)
	if err != nil {
		return err
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Price != nil {
		item.Price = *update.Price
	}
	if update.DiscountPercentage != nil {
		item.DiscountPercentage = *update.DiscountPercentage
	}
	if update.IsBestSeller != nil {
		item.IsBestSeller = *update.IsBestSeller
	}
	if update.StockAvailable != nil {
		item.SetStock(*update.StockAvailable)
	}
	if update.CategoryName != nil {
		var category models.Category
		err := tx.Where("LOWER(name) = ?", strings.ToLower(*update.CategoryName)).First(&category).Error
		switch {
		case err == nil:
			item.CategoryID = category.CategoryID
		case err == gorm.ErrRecordNotFound:
			log.WithFields(log.Fields{
				"menu_item_id":  item.MenuItemID,
				"category_name": *update.CategoryName,
			}).Warn("Unknown category in scheduled update, keeping current category")
		default:
			return err
		}
	}
	if update.SubcategoryName != nil {
		var subcategory models.Subcategory
		err := tx.Where("LOWER(name) = ?", strings.ToLower(*update.SubcategoryName)).First(&subcategory).Error
		switch {
		case err == nil:
			item.SubcategoryID = subcategory.SubcategoryID
		case err == gorm.ErrRecordNotFound:
			log.WithFields(log.Fields{
				"menu_item_id":     item.MenuItemID,
				"subcategory_name": *update.SubcategoryName,
			}).Warn("Unknown subcategory in scheduled update, keeping current subcategory")
		default:
			return err
		}
	}

	item.PendingUpdate = nil
	item.ScheduledUpdateTime = nil
	// Select("*") so the cleared nullable columns are written back.
	return tx.Model(item).Select("*").Updates(item).Error
}
