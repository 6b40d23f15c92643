package usecase

import (
	"context"

	"github.com/TheMidfield/midfield-sync/external/thesportsdb"
)

// SportsProvider is the slice of the upstream API the sync services
// depend on. *thesportsdb.Client satisfies it.
type SportsProvider interface {
	ListLeagueTeams(ctx context.Context, leagueID int64) ([]thesportsdb.Team, error)
	LookupTeam(ctx context.Context, teamID int64) (thesportsdb.Team, error)
	ListTeamPlayers(ctx context.Context, teamID int64) ([]thesportsdb.Player, error)
	LookupPlayer(ctx context.Context, playerID int64) (thesportsdb.Player, error)
	LeagueSchedule(ctx context.Context, leagueID int64, season string) ([]thesportsdb.Event, error)
	TeamSchedule(ctx context.Context, teamID int64) ([]thesportsdb.Event, error)
	Livescores(ctx context.Context, leagueID int64) ([]thesportsdb.Event, error)
	LeagueTable(ctx context.Context, leagueID int64, season string) ([]thesportsdb.TableRow, error)
}

// LeagueTarget is one competition the sync pipeline tracks.
type LeagueTarget struct {
	UpstreamID int64
	Name       string
	Type       string
}

const (
	LeagueTypeNational    = "national"
	LeagueTypeContinental = "continental"
)
