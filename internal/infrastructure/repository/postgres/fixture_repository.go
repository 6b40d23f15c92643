package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
	qb "github.com/TheMidfield/midfield-sync/internal/platform/querybuilder"
)

const fixtureUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
	league_topic_id = EXCLUDED.league_topic_id,
	home_topic_id = EXCLUDED.home_topic_id,
	away_topic_id = EXCLUDED.away_topic_id,
	home_team = EXCLUDED.home_team,
	away_team = EXCLUDED.away_team,
	home_badge_url = EXCLUDED.home_badge_url,
	away_badge_url = EXCLUDED.away_badge_url,
	venue = EXCLUDED.venue,
	kickoff_at = EXCLUDED.kickoff_at,
	status = EXCLUDED.status,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	minute = EXCLUDED.minute,
	gameweek = EXCLUDED.gameweek,
	season = EXCLUDED.season,
	updated_at = NOW()`

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) UpsertBatch(ctx context.Context, fixtures []fixture.Fixture) error {
	for _, f := range fixtures {
		query, args, err := qb.InsertModel("fixtures", fixtureToInsertModel(f), fixtureUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert fixture query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixture %d: %w", f.ExternalID, err)
		}
	}
	return nil
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, fixture.ErrNotFound
		}
		return fixture.Fixture{}, fmt.Errorf("select fixture: %w", err)
	}

	return row.toDomain(), nil
}

// ListInWindow returns fixtures that kick off inside [from, to) and are not
// already finished.
func (r *FixtureRepository) ListInWindow(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Expr("kickoff_at >= ?", from),
			qb.Expr("kickoff_at < ?", to),
			qb.Expr("status <> ?", fixture.StatusFullTime),
		).
		OrderBy("kickoff_at", "external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures in window query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListLiveOlderThan(ctx context.Context, cutoff time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.In("status", liveStatusValues()),
			qb.Expr("kickoff_at < ?", cutoff),
		).
		OrderBy("kickoff_at", "external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stale live fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListLiveStartingAfter(ctx context.Context, cutoff time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.In("status", liveStatusValues()),
			qb.Expr("kickoff_at > ?", cutoff),
		).
		OrderBy("kickoff_at", "external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select premature live fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

// ApplyLiveUpdates writes score, status, and minute for each update and
// reports how many fixtures were actually matched.
func (r *FixtureRepository) ApplyLiveUpdates(ctx context.Context, updates []fixture.LiveUpdate) (int, error) {
	applied := 0
	for _, u := range updates {
		query, args, err := qb.Update("fixtures").
			Set("status", u.Status).
			Set("home_score", intPtrToNullInt(u.HomeScore)).
			Set("away_score", intPtrToNullInt(u.AwayScore)).
			Set("minute", u.Minute).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("external_id", u.ExternalID)).
			ToSQL()
		if err != nil {
			return applied, fmt.Errorf("build live update query: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return applied, fmt.Errorf("apply live update %d: %w", u.ExternalID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return applied, fmt.Errorf("read live update result: %w", err)
		}
		applied += int(affected)
	}
	return applied, nil
}

func (r *FixtureRepository) SetStatus(ctx context.Context, externalID int64, status string) error {
	query, args, err := qb.Update("fixtures").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set fixture status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set fixture status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read set fixture status result: %w", err)
	}
	if affected == 0 {
		return fixture.ErrNotFound
	}
	return nil
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func liveStatusValues() []any {
	statuses := fixture.LiveStatuses()
	out := make([]any, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s)
	}
	return out
}
