package footballdata

import "time"

// TeamRef is a team as embedded in provider payloads. ID is nil for undecided knockout slots.
type TeamRef struct {
	ID        *int   `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

// CompetitionRef is a competition as embedded in provider payloads
type CompetitionRef struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Type   string `json:"type"`
	Emblem string `json:"emblem"`
}

// ScoreLine is a home/away goal pair
type ScoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// ScorePayload is the provider's score block
type ScorePayload struct {
	Winner    *string    `json:"winner"`
	Duration  string     `json:"duration"`
	FullTime  ScoreLine  `json:"fullTime"`
	HalfTime  ScoreLine  `json:"halfTime"`
	Penalties *ScoreLine `json:"penalties,omitempty"`
}

// MatchPayload is a single match record
type MatchPayload struct {
	ID          int            `json:"id"`
	UTCDate     time.Time      `json:"utcDate"`
	Status      string         `json:"status"`
	Matchday    *int           `json:"matchday"`
	Stage       string         `json:"stage"`
	Group       *string        `json:"group"`
	Competition CompetitionRef `json:"competition"`
	HomeTeam    TeamRef        `json:"homeTeam"`
	AwayTeam    TeamRef        `json:"awayTeam"`
	Score       ScorePayload   `json:"score"`
}

// IsEmpty reports whether the record carries no match at all
func (m MatchPayload) IsEmpty() bool {
	return m.ID == 0 && m.HomeTeam.ID == nil && m.AwayTeam.ID == nil
}

// ResultSet is the provider's summary of a team match listing
type ResultSet struct {
	Count  int    `json:"count"`
	First  string `json:"first"`
	Last   string `json:"last"`
	Played int    `json:"played"`
	Wins   *int   `json:"wins"`
	Draws  *int   `json:"draws"`
	Losses *int   `json:"losses"`
}

// TeamMatchesPayload is the response of /teams/{id}/matches
type TeamMatchesPayload struct {
	ResultSet ResultSet      `json:"resultSet"`
	Matches   []MatchPayload `json:"matches"`
}

// HeadToHeadTeam is one side of the head-to-head aggregate
type HeadToHeadTeam struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

// HeadToHeadAggregates summarises every past meeting of the two teams
type HeadToHeadAggregates struct {
	NumberOfMatches int             `json:"numberOfMatches"`
	TotalGoals      int             `json:"totalGoals"`
	HomeTeam        *HeadToHeadTeam `json:"homeTeam"`
	AwayTeam        *HeadToHeadTeam `json:"awayTeam"`
}

// HeadToHeadPayload is the response of /matches/{id}/head2head
type HeadToHeadPayload struct {
	Aggregates *HeadToHeadAggregates `json:"aggregates"`
	Matches    []MatchPayload        `json:"matches"`
}

// StandingRow is one row of a competition table
type StandingRow struct {
	Position       int     `json:"position"`
	Team           TeamRef `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

// StandingTable is one table (league, or a single group) of a competition
type StandingTable struct {
	Stage string        `json:"stage"`
	Type  string        `json:"type"`
	Group *string       `json:"group"`
	Table []StandingRow `json:"table"`
}

// StandingsPayload is the response of /competitions/{id}/standings
type StandingsPayload struct {
	Competition CompetitionRef  `json:"competition"`
	Standings   []StandingTable `json:"standings"`
}

type competitionsPayload struct {
	Count        int              `json:"count"`
	Competitions []CompetitionRef `json:"competitions"`
}

type matchesPayload struct {
	Matches []MatchPayload `json:"matches"`
}
