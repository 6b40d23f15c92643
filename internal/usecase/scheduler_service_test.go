package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
	"github.com/TheMidfield/midfield-sync/internal/infrastructure/repository/memory"
)

var testLeagues = []LeagueTarget{
	{UpstreamID: 4328, Name: "English Premier League", Type: LeagueTypeNational},
	{UpstreamID: 4480, Name: "UEFA Champions League", Type: LeagueTypeContinental},
}

func TestSchedulerEnqueuesOneJobPerLeague(t *testing.T) {
	t.Parallel()

	repo := memory.NewSyncJobRepository()
	svc := NewSchedulerService(repo, SchedulerConfig{Leagues: testLeagues}, nil)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Enqueued != 2 {
		t.Fatalf("enqueued = %d, want 2", result.Enqueued)
	}
	if result.Pending != 2 {
		t.Fatalf("pending = %d, want 2", result.Pending)
	}
}

func TestSchedulerSkipsDuplicatePendingJobs(t *testing.T) {
	t.Parallel()

	repo := memory.NewSyncJobRepository()
	svc := NewSchedulerService(repo, SchedulerConfig{Leagues: testLeagues}, nil)
	ctx := context.Background()

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.Enqueued != 0 {
		t.Fatalf("enqueued = %d, want 0 for duplicate pending jobs", result.Enqueued)
	}
	if result.Pending != 2 {
		t.Fatalf("pending = %d, want 2", result.Pending)
	}
}

func TestSchedulerReclaimsStaleProcessingJobs(t *testing.T) {
	t.Parallel()

	repo := memory.NewSyncJobRepository()
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	repo.SetClock(func() time.Time { return clock })

	if _, err := repo.Enqueue(ctx, []syncjob.NewJob{
		{Type: syncjob.TypeSyncLeague, Payload: syncjob.LeaguePayload{LeagueID: 4328, LeagueName: "English Premier League", LeagueType: LeagueTypeNational}},
		{Type: syncjob.TypeSyncClub, Payload: syncjob.ClubPayload{TeamID: 133604, TeamName: "Arsenal"}},
	}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	claimed, err := repo.ClaimBatch(ctx, 2)
	if err != nil {
		t.Fatalf("ClaimBatch: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d jobs, want 2", len(claimed))
	}

	svc := NewSchedulerService(repo, SchedulerConfig{Leagues: nil, StaleAfter: time.Hour}, nil)
	svc.now = func() time.Time { return base.Add(61 * time.Minute) }

	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reclaimed != 2 {
		t.Fatalf("reclaimed = %d, want 2", result.Reclaimed)
	}

	for _, job := range repo.All() {
		if job.Status != syncjob.StatusPending {
			t.Fatalf("job %d status = %s, want pending after reclaim", job.ID, job.Status)
		}
		if job.ProcessedAt != nil {
			t.Fatalf("job %d lease timestamp should be cleared", job.ID)
		}
	}
}

func TestSchedulerLeavesFreshProcessingJobsAlone(t *testing.T) {
	t.Parallel()

	repo := memory.NewSyncJobRepository()
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return base })

	if _, err := repo.Enqueue(ctx, []syncjob.NewJob{
		{Type: syncjob.TypeSyncClub, Payload: syncjob.ClubPayload{TeamID: 133604, TeamName: "Arsenal"}},
	}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := repo.ClaimBatch(ctx, 1); err != nil {
		t.Fatalf("ClaimBatch: %v", err)
	}

	svc := NewSchedulerService(repo, SchedulerConfig{StaleAfter: time.Hour}, nil)
	svc.now = func() time.Time { return base.Add(10 * time.Minute) }

	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reclaimed != 0 {
		t.Fatalf("reclaimed = %d, want 0 for fresh lease", result.Reclaimed)
	}
}

// flakyJobRepo fails selected queue operations while delegating the
// rest to the in-memory repository.
type flakyJobRepo struct {
	*memory.SyncJobRepository
	reclaimErr error
	countErr   error
}

func (r *flakyJobRepo) ReclaimStale(ctx context.Context, olderThan time.Time) (int, error) {
	if r.reclaimErr != nil {
		return 0, r.reclaimErr
	}
	return r.SyncJobRepository.ReclaimStale(ctx, olderThan)
}

func (r *flakyJobRepo) CountPending(ctx context.Context) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.SyncJobRepository.CountPending(ctx)
}

func TestSchedulerEnqueuesDespiteReclaimFailure(t *testing.T) {
	t.Parallel()

	repo := &flakyJobRepo{
		SyncJobRepository: memory.NewSyncJobRepository(),
		reclaimErr:        errors.New("lock timeout"),
	}
	svc := NewSchedulerService(repo, SchedulerConfig{Leagues: testLeagues}, nil)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Enqueued != len(testLeagues) {
		t.Fatalf("enqueued = %d, want %d despite reclaim failure", result.Enqueued, len(testLeagues))
	}
	if result.Pending != len(testLeagues) {
		t.Fatalf("pending = %d, want %d", result.Pending, len(testLeagues))
	}
}

func TestSchedulerKeepsEnqueueResultWhenCountFails(t *testing.T) {
	t.Parallel()

	repo := &flakyJobRepo{
		SyncJobRepository: memory.NewSyncJobRepository(),
		countErr:          errors.New("connection reset"),
	}
	svc := NewSchedulerService(repo, SchedulerConfig{Leagues: testLeagues}, nil)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Enqueued != len(testLeagues) {
		t.Fatalf("enqueued = %d, want %d", result.Enqueued, len(testLeagues))
	}
	if result.Pending != 0 {
		t.Fatalf("pending = %d, want 0 when the count is unavailable", result.Pending)
	}
}
