package models

// Sequence is the per-entity counter behind the human-readable id generator.
// The row is locked FOR UPDATE inside the inserting transaction so two
// concurrent inserts can never mint the same id.
type Sequence struct {
	EntityType string `gorm:"primaryKey;size:30"`
	LastValue  int    `gorm:"not null"`
}

func (Sequence) TableName() string { return "sequences" }
