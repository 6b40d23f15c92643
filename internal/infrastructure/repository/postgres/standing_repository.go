package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/TheMidfield/midfield-sync/internal/domain/standing"
	qb "github.com/TheMidfield/midfield-sync/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueTopicID, season string) ([]standing.Row, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(
			qb.Eq("league_topic_id", leagueTopicID),
			qb.Eq("season", season),
		).
		OrderBy("position", "points DESC", "goal_difference DESC", "team_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league standings: %w", err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ReplaceByLeague swaps a league's stored table for a season in one
// transaction so readers never observe a partially written table.
func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueTopicID, season string, rows []standing.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace league standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM league_standings WHERE league_topic_id = $1 AND season = $2",
		leagueTopicID, season,
	); err != nil {
		return fmt.Errorf("clear league standings: %w", err)
	}

	for _, row := range rows {
		insertModel := standingInsertModel{
			LeagueTopicID:  leagueTopicID,
			TeamTopicID:    row.TeamTopicID,
			TeamName:       row.TeamName,
			BadgeURL:       row.BadgeURL,
			Season:         season,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		}
		query, args, err := qb.InsertModel("league_standings", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert league standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert league standing team=%s: %w", row.TeamTopicID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace league standings tx: %w", err)
	}
	return nil
}
