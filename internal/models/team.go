package models

import "time"

// Team represents a football club or national side
type Team struct {
	ID        int       `db:"id" json:"id" validate:"required,gt=0"`
	Name      string    `db:"name" json:"name"`
	ShortName string    `db:"short_name" json:"short_name"`
	TLA       string    `db:"tla" json:"tla"`
	Crest     string    `db:"crest" json:"crest"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
