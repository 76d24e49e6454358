package models

import "time"

// Competition represents a league or cup covered by the provider plan
type Competition struct {
	ID        int       `db:"id" json:"id" validate:"required,gt=0"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	Emblem    string    `db:"emblem" json:"emblem"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
