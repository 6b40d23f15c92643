package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
)

// SyncJobRepository is an in-memory queue with the same transition
// semantics as the postgres implementation.
type SyncJobRepository struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*syncjob.Job
	now    func() time.Time
}

func NewSyncJobRepository() *SyncJobRepository {
	return &SyncJobRepository{
		nextID: 1,
		jobs:   make(map[int64]*syncjob.Job),
		now:    time.Now,
	}
}

// SetClock overrides the repository clock for tests.
func (r *SyncJobRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *SyncJobRepository) Enqueue(_ context.Context, jobs []syncjob.NewJob) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, job := range jobs {
		if err := job.Validate(); err != nil {
			return inserted, err
		}
		if r.hasPendingDuplicate(job) {
			continue
		}
		id := r.nextID
		r.nextID++
		r.jobs[id] = &syncjob.Job{
			ID:        id,
			Type:      job.Type,
			Payload:   job.Payload,
			Status:    syncjob.StatusPending,
			CreatedAt: r.now(),
		}
		inserted++
	}
	return inserted, nil
}

func (r *SyncJobRepository) hasPendingDuplicate(job syncjob.NewJob) bool {
	want, err := sonic.Marshal(job.Payload)
	if err != nil {
		return false
	}
	for _, existing := range r.jobs {
		if existing.Status != syncjob.StatusPending || existing.Type != job.Type {
			continue
		}
		got, err := sonic.Marshal(existing.Payload)
		if err != nil {
			continue
		}
		if string(got) == string(want) {
			return true
		}
	}
	return false
}

func (r *SyncJobRepository) ClaimBatch(_ context.Context, limit int) ([]syncjob.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]*syncjob.Job, 0, limit)
	for _, job := range r.jobs {
		if job.Status == syncjob.StatusPending {
			pending = append(pending, job)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}

	claimedAt := r.now()
	out := make([]syncjob.Job, 0, len(pending))
	for _, job := range pending {
		job.Status = syncjob.StatusProcessing
		leasedAt := claimedAt
		job.ProcessedAt = &leasedAt
		job.ErrorLog = ""
		out = append(out, *job)
	}
	return out, nil
}

func (r *SyncJobRepository) MarkDone(_ context.Context, id int64) error {
	return r.finish(id, syncjob.StatusDone, "")
}

func (r *SyncJobRepository) MarkError(_ context.Context, id int64, message string) error {
	return r.finish(id, syncjob.StatusError, message)
}

func (r *SyncJobRepository) finish(id int64, status syncjob.Status, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status != syncjob.StatusProcessing {
		return syncjob.ErrNotHeld
	}
	finishedAt := r.now()
	job.Status = status
	job.ProcessedAt = &finishedAt
	job.ErrorLog = message
	return nil
}

func (r *SyncJobRepository) ReclaimStale(_ context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset := 0
	for _, job := range r.jobs {
		if job.Status != syncjob.StatusProcessing {
			continue
		}
		if job.ProcessedAt == nil || job.ProcessedAt.Before(olderThan) {
			job.Status = syncjob.StatusPending
			job.ProcessedAt = nil
			job.ErrorLog = "reclaimed after timeout"
			reset++
		}
	}
	return reset, nil
}

func (r *SyncJobRepository) CountPending(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, job := range r.jobs {
		if job.Status == syncjob.StatusPending {
			count++
		}
	}
	return count, nil
}

// Get returns a snapshot of a job for assertions.
func (r *SyncJobRepository) Get(id int64) (syncjob.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return syncjob.Job{}, false
	}
	return *job, true
}

// All returns snapshots of every job ordered by id.
func (r *SyncJobRepository) All() []syncjob.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]syncjob.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
