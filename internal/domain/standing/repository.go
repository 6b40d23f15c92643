package standing

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueTopicID, season string) ([]Row, error)
	// ReplaceByLeague swaps the stored table for a league and season
	// wholesale: delete then insert in one transaction.
	ReplaceByLeague(ctx context.Context, leagueTopicID, season string, rows []Row) error
}
