package standing

import "time"

// Row is one league table entry for a team in a season.
type Row struct {
	LeagueTopicID  string
	TeamTopicID    string
	TeamName       string
	BadgeURL       string
	Season         string
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	UpdatedAt      time.Time
}
