package models

import "time"

// Standing represents one team's row in a competition table
type Standing struct {
	ID             int64     `db:"id" json:"id"`
	CompetitionID  int       `db:"competition_id" json:"competition_id" validate:"required,gt=0"`
	Stage          string    `db:"stage" json:"stage"`
	Group          *string   `db:"group_name" json:"group,omitempty"`
	TeamID         int       `db:"team_id" json:"team_id" validate:"required,gt=0"`
	Position       int       `db:"position" json:"position" validate:"required,gt=0"`
	PlayedGames    int       `db:"played_games" json:"played_games"`
	Won            int       `db:"won" json:"won"`
	Draw           int       `db:"draw" json:"draw"`
	Lost           int       `db:"lost" json:"lost"`
	Points         int       `db:"points" json:"points"`
	GoalsFor       int       `db:"goals_for" json:"goals_for"`
	GoalsAgainst   int       `db:"goals_against" json:"goals_against"`
	GoalDifference int       `db:"goal_difference" json:"goal_difference"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Played returns the number of decided matches behind the row
func (s *Standing) Played() int {
	return s.Won + s.Draw + s.Lost
}

// IsGroupStage reports whether the row belongs to a group table
func (s *Standing) IsGroupStage() bool {
	return s.Group != nil
}
