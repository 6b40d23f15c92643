package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type SchedulerConfig struct {
	// Leagues is the static set of competitions to keep in sync.
	Leagues []LeagueTarget
	// StaleAfter is how long a processing job may hold its lease
	// before the scheduler reclaims it.
	StaleAfter time.Duration
}

type SchedulerResult struct {
	Reclaimed int `json:"reclaimed"`
	Enqueued  int `json:"enqueued"`
	Pending   int `json:"pending"`
}

// SchedulerService is the hourly tick: reclaim zombie jobs, then top
// up the queue with one sync job per tracked league.
type SchedulerService struct {
	jobRepo syncjob.Repository
	cfg     SchedulerConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewSchedulerService(jobRepo syncjob.Repository, cfg SchedulerConfig, logger *logging.Logger) *SchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Hour
	}
	return &SchedulerService{
		jobRepo: jobRepo,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SchedulerService) Run(ctx context.Context) (SchedulerResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SchedulerService.Run")
	defer span.End()

	result := SchedulerResult{}
	now := s.now().UTC()

	// Reclaim before enqueueing so a zombie sync_league job does not
	// shadow the fresh one through the pending duplicate guard. The
	// two steps are independent: a failed reclaim must not starve the
	// queue of this tick's jobs.
	reclaimed, err := s.jobRepo.ReclaimStale(ctx, now.Add(-s.cfg.StaleAfter))
	if err != nil {
		s.logger.ErrorContext(ctx, "reclaim stale jobs failed", "error", err)
	} else {
		result.Reclaimed = reclaimed
		if reclaimed > 0 {
			s.logger.WarnContext(ctx, "reclaimed stale jobs", "count", reclaimed)
		}
	}

	jobs := make([]syncjob.NewJob, 0, len(s.cfg.Leagues))
	for _, league := range s.cfg.Leagues {
		jobs = append(jobs, syncjob.NewJob{
			Type: syncjob.TypeSyncLeague,
			Payload: syncjob.LeaguePayload{
				LeagueID:   league.UpstreamID,
				LeagueName: league.Name,
				LeagueType: league.Type,
			},
		})
	}

	enqueued, err := s.jobRepo.Enqueue(ctx, jobs)
	if err != nil {
		return result, fmt.Errorf("enqueue league sync jobs: %w", err)
	}
	result.Enqueued = enqueued

	// The queue depth is reporting only; losing it must not discard
	// the enqueue result.
	pending, err := s.jobRepo.CountPending(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "count pending jobs failed", "error", err)
	} else {
		result.Pending = pending
	}

	s.logger.InfoContext(ctx, "scheduler tick complete",
		"reclaimed", result.Reclaimed,
		"enqueued", result.Enqueued,
		"pending", result.Pending,
	)
	return result, nil
}
