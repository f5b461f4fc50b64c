// Package ids mints the human-readable sequential identifiers used as primary
// keys throughout the catalog (MI007, O012, ...). Each entity type owns a row
// in the sequences table; Next locks that row FOR UPDATE inside the caller's
// transaction, so two concurrent inserts can never compute the same number.
package ids

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entity describes one identifier namespace.
type Entity struct {
	Name   string // key in the sequences table
	Table  string // entity table, scanned once to seed the counter
	Column string // primary key column
	Prefix string
}

var (
	Admin            = Entity{Name: "admin", Table: "admin", Column: "admin_id", Prefix: "A"}
	Customer         = Entity{Name: "customer", Table: "customer", Column: "customer_id", Prefix: "U"}
	Address          = Entity{Name: "address", Table: "address", Column: "address_id", Prefix: "ADD"}
	DeliveryAgent    = Entity{Name: "delivery_agent", Table: "delivery_agent", Column: "delivery_agent_id", Prefix: "DA"}
	Earnings         = Entity{Name: "earnings", Table: "earnings", Column: "earnings_id", Prefix: "E"}
	DeliveryFeedback = Entity{Name: "delivery_feedback", Table: "delivery_feedback", Column: "delivery_feedback_id", Prefix: "DF"}
	Category         = Entity{Name: "category", Table: "categories", Column: "category_id", Prefix: "IC"}
	Subcategory      = Entity{Name: "subcategory", Table: "subcategories", Column: "subcategory_id", Prefix: "ISC"}
	MenuItem         = Entity{Name: "menu_item", Table: "menu_items", Column: "menu_item_id", Prefix: "MI"}
	Order            = Entity{Name: "order", Table: "orders", Column: "order_id", Prefix: "O"}
	OrderItem        = Entity{Name: "order_item", Table: "order_item", Column: "order_item_id", Prefix: "OI"}
	Cart             = Entity{Name: "cart", Table: "cart", Column: "cart_id", Prefix: "C"}
)

// Next returns the next identifier for the entity. It must be called inside
// the same transaction as the insert it supports; the sequence row lock is
// what serializes concurrent creations.
func Next(tx *gorm.DB, e Entity) (string, error) {
	var seq models.Sequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("entity_type = ?", e.Name).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		last, seedErr := seedValue(tx, e)
		if seedErr != nil {
			return "", seedErr
		}
		seq = models.Sequence{EntityType: e.Name, LastValue: last}
		if err := tx.Create(&seq).Error; err != nil {
			return "", apperrors.NewStore(err)
		}
	} else if err != nil {
		return "", apperrors.NewStore(err)
	}

	seq.LastValue++
	if err := tx.Save(&seq).Error; err != nil {
		return "", apperrors.NewStore(err)
	}
	return Render(e.Prefix, seq.LastValue), nil
}

// Render formats a numeric value as a zero-padded identifier, three digits
// minimum (A001, MI007, MI1000).
func Render(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// Parse splits an identifier into its numeric part, validating the prefix and
// digit shape. A mismatch is a format error: it means the table holds ids this
// scheme did not produce.
func Parse(id string, e Entity) (int, error) {
	if !strings.HasPrefix(id, e.Prefix) {
		return 0, apperrors.NewFormat(fmt.Sprintf("identifier %q does not carry prefix %q", id, e.Prefix))
	}
	n, err := strconv.Atoi(id[len(e.Prefix):])
	if err != nil || n < 0 {
		return 0, apperrors.NewFormat(fmt.Sprintf("identifier %q has a non-numeric suffix", id))
	}
	return n, nil
}

// seedValue bootstraps a sequence from the highest identifier already stored
// in the entity table, so the counter continues an existing dataset instead of
// colliding with it. Identifiers past 999 grow a digit, so the numeric maximum
// is the longest id, then the lexicographically greatest; a plain string sort
// would put MI999 above MI1000. An empty table seeds at zero, making the first
// id {prefix}001.
func seedValue(tx *gorm.DB, e Entity) (int, error) {
	var last string
	err := tx.Table(e.Table).
		Select(e.Column).
		Order(fmt.Sprintf("LENGTH(%s) DESC, %s DESC", e.Column, e.Column)).
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return 0, apperrors.NewStore(err)
	}
	if last == "" {
		return 0, nil
	}
	return Parse(last, e)
}
