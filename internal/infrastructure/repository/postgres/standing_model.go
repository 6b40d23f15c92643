package postgres

import (
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/standing"
)

type standingTableModel struct {
	LeagueTopicID  string    `db:"league_topic_id"`
	TeamTopicID    string    `db:"team_topic_id"`
	TeamName       string    `db:"team_name"`
	BadgeURL       string    `db:"badge_url"`
	Season         string    `db:"season"`
	Position       int       `db:"position"`
	Played         int       `db:"played"`
	Won            int       `db:"won"`
	Draw           int       `db:"draw"`
	Lost           int       `db:"lost"`
	GoalsFor       int       `db:"goals_for"`
	GoalsAgainst   int       `db:"goals_against"`
	GoalDifference int       `db:"goal_difference"`
	Points         int       `db:"points"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type standingInsertModel struct {
	LeagueTopicID  string `db:"league_topic_id"`
	TeamTopicID    string `db:"team_topic_id"`
	TeamName       string `db:"team_name"`
	BadgeURL       string `db:"badge_url"`
	Season         string `db:"season"`
	Position       int    `db:"position"`
	Played         int    `db:"played"`
	Won            int    `db:"won"`
	Draw           int    `db:"draw"`
	Lost           int    `db:"lost"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
	GoalDifference int    `db:"goal_difference"`
	Points         int    `db:"points"`
}

func (m standingTableModel) toDomain() standing.Row {
	return standing.Row{
		LeagueTopicID:  m.LeagueTopicID,
		TeamTopicID:    m.TeamTopicID,
		TeamName:       m.TeamName,
		BadgeURL:       m.BadgeURL,
		Season:         m.Season,
		Position:       m.Position,
		Played:         m.Played,
		Won:            m.Won,
		Draw:           m.Draw,
		Lost:           m.Lost,
		GoalsFor:       m.GoalsFor,
		GoalsAgainst:   m.GoalsAgainst,
		GoalDifference: m.GoalDifference,
		Points:         m.Points,
		UpdatedAt:      m.UpdatedAt,
	}
}
