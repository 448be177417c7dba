package models

import "time"

// Faculty represents an instructor record. MaxLoad is the advisory weekly
// unit cap; the builder only enforces a per-day cap.
type Faculty struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	MaxLoad   int       `db:"max_load" json:"max_load"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
