package syncjob

import (
	"context"
	"time"
)

// Repository is the queue's persistence contract.
type Repository interface {
	// Enqueue inserts pending jobs, skipping any whose (type, payload)
	// already has a pending row. Returns the number actually inserted.
	Enqueue(ctx context.Context, jobs []NewJob) (int, error)
	// ClaimBatch atomically moves up to limit of the oldest pending
	// jobs to processing and returns them. Concurrent callers never
	// receive the same job.
	ClaimBatch(ctx context.Context, limit int) ([]Job, error)
	// MarkDone finishes a job still held in processing. A job that was
	// reclaimed in the meantime is left untouched.
	MarkDone(ctx context.Context, id int64) error
	// MarkError fails a job still held in processing, recording message.
	MarkError(ctx context.Context, id int64, message string) error
	// ReclaimStale resets processing jobs whose lease timestamp is
	// before olderThan back to pending. Returns the number reset.
	ReclaimStale(ctx context.Context, olderThan time.Time) (int, error)
	// CountPending reports the queue depth.
	CountPending(ctx context.Context) (int, error)
}
