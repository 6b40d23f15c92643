package postgres

import (
	"database/sql"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
)

type fixtureTableModel struct {
	ExternalID    int64          `db:"external_id"`
	LeagueTopicID string         `db:"league_topic_id"`
	HomeTopicID   string         `db:"home_topic_id"`
	AwayTopicID   string         `db:"away_topic_id"`
	HomeTeam      string         `db:"home_team"`
	AwayTeam      string         `db:"away_team"`
	HomeBadgeURL  string         `db:"home_badge_url"`
	AwayBadgeURL  string         `db:"away_badge_url"`
	Venue         string         `db:"venue"`
	KickoffAt     time.Time      `db:"kickoff_at"`
	Status        string         `db:"status"`
	HomeScore     sql.NullInt64  `db:"home_score"`
	AwayScore     sql.NullInt64  `db:"away_score"`
	Minute        string         `db:"minute"`
	Gameweek      sql.NullInt64  `db:"gameweek"`
	Season        sql.NullString `db:"season"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type fixtureInsertModel struct {
	ExternalID    int64         `db:"external_id"`
	LeagueTopicID string        `db:"league_topic_id"`
	HomeTopicID   string        `db:"home_topic_id"`
	AwayTopicID   string        `db:"away_topic_id"`
	HomeTeam      string        `db:"home_team"`
	AwayTeam      string        `db:"away_team"`
	HomeBadgeURL  string        `db:"home_badge_url"`
	AwayBadgeURL  string        `db:"away_badge_url"`
	Venue         string        `db:"venue"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Status        string        `db:"status"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Minute        string        `db:"minute"`
	Gameweek      sql.NullInt64 `db:"gameweek"`
	Season        string        `db:"season"`
}

func fixtureToInsertModel(f fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		ExternalID:    f.ExternalID,
		LeagueTopicID: f.LeagueTopicID,
		HomeTopicID:   f.HomeTopicID,
		AwayTopicID:   f.AwayTopicID,
		HomeTeam:      f.HomeTeam,
		AwayTeam:      f.AwayTeam,
		HomeBadgeURL:  f.HomeBadgeURL,
		AwayBadgeURL:  f.AwayBadgeURL,
		Venue:         f.Venue,
		KickoffAt:     f.KickoffAt,
		Status:        f.Status,
		HomeScore:     intPtrToNullInt(f.HomeScore),
		AwayScore:     intPtrToNullInt(f.AwayScore),
		Minute:        f.Minute,
		Gameweek:      intPtrToNullInt(f.Gameweek),
		Season:        f.Season,
	}
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ExternalID:    m.ExternalID,
		LeagueTopicID: m.LeagueTopicID,
		HomeTopicID:   m.HomeTopicID,
		AwayTopicID:   m.AwayTopicID,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		HomeBadgeURL:  m.HomeBadgeURL,
		AwayBadgeURL:  m.AwayBadgeURL,
		Venue:         m.Venue,
		KickoffAt:     m.KickoffAt,
		Status:        m.Status,
		HomeScore:     nullIntToIntPtr(m.HomeScore),
		AwayScore:     nullIntToIntPtr(m.AwayScore),
		Minute:        m.Minute,
		Gameweek:      nullIntToIntPtr(m.Gameweek),
		Season:        nullStringToString(m.Season),
		UpdatedAt:     m.UpdatedAt,
	}
}
