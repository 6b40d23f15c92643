package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
	qb "github.com/TheMidfield/midfield-sync/internal/platform/querybuilder"
)

type SyncJobRepository struct {
	db *sqlx.DB
}

func NewSyncJobRepository(db *sqlx.DB) *SyncJobRepository {
	return &SyncJobRepository{db: db}
}

// enqueueQuery inserts one pending job unless an identical pending
// row already exists. The payload comparison is on the jsonb value,
// so key order does not defeat the guard.
const enqueueQuery = `
INSERT INTO sync_jobs (job_type, payload, status, created_at)
SELECT $1, $2::jsonb, 'pending', NOW()
WHERE NOT EXISTS (
    SELECT 1 FROM sync_jobs
    WHERE job_type = $1 AND payload = $2::jsonb AND status = 'pending'
)`

func (r *SyncJobRepository) Enqueue(ctx context.Context, jobs []syncjob.NewJob) (int, error) {
	inserted := 0
	for _, job := range jobs {
		if err := job.Validate(); err != nil {
			return inserted, fmt.Errorf("enqueue: %w", err)
		}
		payload, err := syncjob.EncodePayload(job.Payload)
		if err != nil {
			return inserted, fmt.Errorf("enqueue: %w", err)
		}

		res, err := r.db.ExecContext(ctx, enqueueQuery, string(job.Type), payload)
		if err != nil {
			return inserted, fmt.Errorf("enqueue %s job: %w", job.Type, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("enqueue %s job rows affected: %w", job.Type, err)
		}
		inserted += int(affected)
	}
	return inserted, nil
}

// claimBatchQuery flips the oldest pending jobs to processing in one
// statement. SKIP LOCKED keeps concurrent workers from blocking on or
// double-claiming the same rows; processed_at becomes the lease
// timestamp the reclaimer inspects.
const claimBatchQuery = `
UPDATE sync_jobs
SET status = 'processing', processed_at = NOW(), error_log = NULL
WHERE id IN (
    SELECT id FROM sync_jobs
    WHERE status = 'pending'
    ORDER BY created_at, id
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
RETURNING id, job_type, payload, status, created_at, processed_at, error_log`

func (r *SyncJobRepository) ClaimBatch(ctx context.Context, limit int) ([]syncjob.Job, error) {
	if limit <= 0 {
		return nil, nil
	}

	var rows []syncJobTableModel
	if err := r.db.SelectContext(ctx, &rows, claimBatchQuery, limit); err != nil {
		return nil, fmt.Errorf("claim job batch: %w", err)
	}

	out := make([]syncjob.Job, 0, len(rows))
	for _, row := range rows {
		job, err := row.toDomain()
		if err != nil {
			// A row we cannot decode must not wedge the queue; fail it
			// in place and keep going.
			if markErr := r.MarkError(ctx, row.ID, err.Error()); markErr != nil {
				return nil, fmt.Errorf("claim job batch: mark undecodable job: %w", markErr)
			}
			continue
		}
		out = append(out, job)
	}
	// RETURNING order is unspecified; restore FIFO.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SyncJobRepository) MarkDone(ctx context.Context, id int64) error {
	query, args, err := qb.Update("sync_jobs").
		Set("status", string(syncjob.StatusDone)).
		SetExpr("processed_at", "NOW()").
		SetExpr("error_log", "NULL").
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(syncjob.StatusProcessing)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark job done query: %w", err)
	}
	return r.finishJob(ctx, id, query, args)
}

func (r *SyncJobRepository) MarkError(ctx context.Context, id int64, message string) error {
	query, args, err := qb.Update("sync_jobs").
		Set("status", string(syncjob.StatusError)).
		SetExpr("processed_at", "NOW()").
		Set("error_log", message).
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(syncjob.StatusProcessing)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark job error query: %w", err)
	}
	return r.finishJob(ctx, id, query, args)
}

func (r *SyncJobRepository) finishJob(ctx context.Context, id int64, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finish job id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish job id=%d rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("finish job id=%d: %w", id, syncjob.ErrNotHeld)
	}
	return nil
}

func (r *SyncJobRepository) ReclaimStale(ctx context.Context, olderThan time.Time) (int, error) {
	query, args, err := qb.Update("sync_jobs").
		Set("status", string(syncjob.StatusPending)).
		SetExpr("processed_at", "NULL").
		Set("error_log", "reclaimed after timeout").
		Where(
			qb.Eq("status", string(syncjob.StatusProcessing)),
			qb.Expr("processed_at < ?", olderThan.UTC()),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reclaim stale jobs query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale jobs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reclaim stale jobs rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *SyncJobRepository) CountPending(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("sync_jobs").
		Where(qb.Eq("status", string(syncjob.StatusPending))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count pending jobs query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count pending jobs: %w", err)
	}
	return count, nil
}
