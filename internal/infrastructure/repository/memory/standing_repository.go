package memory

import (
	"context"
	"sync"

	"github.com/TheMidfield/midfield-sync/internal/domain/standing"
)

type StandingRepository struct {
	mu    sync.Mutex
	items map[string][]standing.Row
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{items: make(map[string][]standing.Row)}
}

func standingKey(leagueTopicID, season string) string {
	return leagueTopicID + "|" + season
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueTopicID, season string) ([]standing.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.items[standingKey(leagueTopicID, season)]
	out := make([]standing.Row, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *StandingRepository) ReplaceByLeague(_ context.Context, leagueTopicID, season string, rows []standing.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]standing.Row, len(rows))
	copy(stored, rows)
	r.items[standingKey(leagueTopicID, season)] = stored
	return nil
}
