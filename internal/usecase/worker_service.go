package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/TheMidfield/midfield-sync/external/thesportsdb"
	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type WorkerConfig struct {
	// BatchSize caps how many jobs one run claims.
	BatchSize int
	// Concurrency caps how many jobs run at once within a batch.
	Concurrency int
}

type WorkerResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// WorkerService drains the sync job queue: claim a batch, run each
// job's handler, and record the terminal status per job. One bad job
// never fails its batch.
type WorkerService struct {
	jobRepo     syncjob.Repository
	topicRepo   topic.Repository
	fixtureRepo fixture.Repository
	resolver    *ResolverService
	provider    SportsProvider
	cfg         WorkerConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewWorkerService(
	jobRepo syncjob.Repository,
	topicRepo topic.Repository,
	fixtureRepo fixture.Repository,
	resolver *ResolverService,
	provider SportsProvider,
	cfg WorkerConfig,
	logger *logging.Logger,
) *WorkerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = cfg.BatchSize
	}
	return &WorkerService{
		jobRepo:     jobRepo,
		topicRepo:   topicRepo,
		fixtureRepo: fixtureRepo,
		resolver:    resolver,
		provider:    provider,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// RunOnce claims up to maxJobs pending jobs and processes them. A
// non-positive maxJobs falls back to the configured batch size.
// Processed counts every claimed job regardless of outcome.
func (s *WorkerService) RunOnce(ctx context.Context, maxJobs int) (WorkerResult, error) {
	ctx, span := startUsecaseSpan(ctx, "WorkerService.RunOnce")
	defer span.End()

	if maxJobs <= 0 {
		maxJobs = s.cfg.BatchSize
	}
	jobs, err := s.jobRepo.ClaimBatch(ctx, maxJobs)
	if err != nil {
		return WorkerResult{}, fmt.Errorf("claim job batch: %w", err)
	}
	if len(jobs) == 0 {
		return WorkerResult{}, nil
	}

	pool, err := ants.NewPool(s.cfg.Concurrency)
	if err != nil {
		return WorkerResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	failed := 0

	var workers sync.WaitGroup
	for _, job := range jobs {
		job := job
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ok := s.runJob(ctx, job); !ok {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}); err != nil {
			workers.Done()
			return WorkerResult{}, fmt.Errorf("submit job to worker pool: %w", err)
		}
	}
	workers.Wait()

	result := WorkerResult{Processed: len(jobs), Failed: failed}
	s.logger.InfoContext(ctx, "worker batch complete",
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *WorkerService) runJob(ctx context.Context, job syncjob.Job) bool {
	start := s.now()
	err := s.dispatch(ctx, job)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.WarnContext(ctx, "sync job failed",
			"job_id", job.ID,
			"job_type", job.Type,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		if markErr := s.jobRepo.MarkError(ctx, job.ID, err.Error()); markErr != nil {
			s.logger.WarnContext(ctx, "mark job error failed", "job_id", job.ID, "error", markErr)
		}
		return false
	}

	if markErr := s.jobRepo.MarkDone(ctx, job.ID); markErr != nil {
		// A reclaimed job means another run will redo the work. The
		// handlers are idempotent so this is safe, just noisy.
		s.logger.WarnContext(ctx, "mark job done failed", "job_id", job.ID, "error", markErr)
	}
	s.logger.InfoContext(ctx, "sync job complete",
		"job_id", job.ID,
		"job_type", job.Type,
		"duration_ms", elapsed.Milliseconds(),
	)
	return true
}

func (s *WorkerService) dispatch(ctx context.Context, job syncjob.Job) error {
	switch payload := job.Payload.(type) {
	case syncjob.LeaguePayload:
		return s.syncLeague(ctx, payload)
	case syncjob.ClubPayload:
		return s.syncClub(ctx, payload)
	case syncjob.PlayerPayload:
		return s.enrichPlayer(ctx, payload)
	default:
		return fmt.Errorf("%w: %T", syncjob.ErrUnknownJobType, job.Payload)
	}
}

// syncLeague refreshes one competition: its topic, its season
// schedule, and for national leagues a sync_club fan-out covering the
// current member clubs.
func (s *WorkerService) syncLeague(ctx context.Context, payload syncjob.LeaguePayload) error {
	leagueTopic, err := s.resolver.Resolve(ctx, topic.TypeLeague, payload.LeagueID, payload.LeagueName)
	if err != nil {
		return err
	}
	if leagueTopic.Metadata.LeagueType != payload.LeagueType && payload.LeagueType != "" {
		leagueTopic.Metadata.LeagueType = payload.LeagueType
		leagueTopic.Metadata.IsStub = false
		if err := s.topicRepo.Update(ctx, leagueTopic); err != nil {
			return fmt.Errorf("update league topic %s: %w", leagueTopic.ID, err)
		}
	}

	season := CurrentSeason(s.now())
	events, err := s.provider.LeagueSchedule(ctx, payload.LeagueID, season)
	if err != nil {
		return fmt.Errorf("fetch league schedule league=%d season=%s: %w", payload.LeagueID, season, err)
	}

	fixtures, err := buildFixtures(ctx, s.resolver, leagueTopic.ID, season, events)
	if err != nil {
		return err
	}
	if err := s.fixtureRepo.UpsertBatch(ctx, fixtures); err != nil {
		return fmt.Errorf("upsert league fixtures league=%d: %w", payload.LeagueID, err)
	}

	if payload.LeagueType != LeagueTypeNational {
		return nil
	}

	teams, err := s.provider.ListLeagueTeams(ctx, payload.LeagueID)
	if err != nil {
		return fmt.Errorf("list league teams league=%d: %w", payload.LeagueID, err)
	}
	clubJobs := make([]syncjob.NewJob, 0, len(teams))
	for _, team := range teams {
		if team.ID <= 0 {
			continue
		}
		clubJobs = append(clubJobs, syncjob.NewJob{
			Type:    syncjob.TypeSyncClub,
			Payload: syncjob.ClubPayload{TeamID: team.ID, TeamName: team.Name},
		})
	}
	enqueued, err := s.jobRepo.Enqueue(ctx, clubJobs)
	if err != nil {
		return fmt.Errorf("enqueue club jobs league=%d: %w", payload.LeagueID, err)
	}
	s.logger.InfoContext(ctx, "league sync fanned out club jobs",
		"league_id", payload.LeagueID,
		"clubs", len(clubJobs),
		"enqueued", enqueued,
	)
	return nil
}

// syncClub refreshes one club's topic and its current roster.
func (s *WorkerService) syncClub(ctx context.Context, payload syncjob.ClubPayload) error {
	team, err := s.provider.LookupTeam(ctx, payload.TeamID)
	if err != nil {
		return fmt.Errorf("lookup team %d: %w", payload.TeamID, err)
	}

	clubTopic, err := s.resolver.Resolve(ctx, topic.TypeClub, payload.TeamID, firstNonEmptyString(team.Name, payload.TeamName))
	if err != nil {
		return err
	}
	applyTeamDetails(&clubTopic, team)
	if err := s.topicRepo.Update(ctx, clubTopic); err != nil {
		return fmt.Errorf("update club topic %s: %w", clubTopic.ID, err)
	}

	players, err := s.provider.ListTeamPlayers(ctx, payload.TeamID)
	if err != nil {
		return fmt.Errorf("list team players team=%d: %w", payload.TeamID, err)
	}
	for _, player := range players {
		if player.ID <= 0 {
			continue
		}
		playerTopic, err := s.resolver.Resolve(ctx, topic.TypePlayer, player.ID, player.Name)
		if err != nil {
			return err
		}
		applyPlayerDetails(&playerTopic, player)
		if err := s.topicRepo.Update(ctx, playerTopic); err != nil {
			return fmt.Errorf("update player topic %s: %w", playerTopic.ID, err)
		}
	}
	return nil
}

// enrichPlayer backfills one player's detail fields. Curated values
// already present on the topic win over upstream ones.
func (s *WorkerService) enrichPlayer(ctx context.Context, payload syncjob.PlayerPayload) error {
	player, err := s.provider.LookupPlayer(ctx, payload.UpstreamPlayerID)
	if err != nil {
		return fmt.Errorf("lookup player %d: %w", payload.UpstreamPlayerID, err)
	}

	playerTopic, err := s.topicRepo.GetByID(ctx, payload.TopicID)
	if err != nil {
		return fmt.Errorf("get player topic %s: %w", payload.TopicID, err)
	}
	applyPlayerDetails(&playerTopic, player)
	if err := s.topicRepo.Update(ctx, playerTopic); err != nil {
		return fmt.Errorf("update player topic %s: %w", playerTopic.ID, err)
	}
	return nil
}

func applyTeamDetails(t *topic.Topic, team thesportsdb.Team) {
	if team.Name != "" {
		t.Title = team.Name
	}
	if team.Description != "" {
		t.Description = team.Description
	}
	t.Metadata.IsStub = false
	if team.BadgeURL != "" {
		t.Metadata.BadgeURL = team.BadgeURL
	}
	if team.Stadium != "" {
		t.Metadata.Stadium = team.Stadium
	}
	if team.Founded > 0 {
		t.Metadata.Founded = team.Founded
	}
	if team.Capacity > 0 {
		t.Metadata.Capacity = team.Capacity
	}
	socials := topic.Socials{
		Website:   team.Website,
		Twitter:   team.Twitter,
		Instagram: team.Instagram,
		Facebook:  team.Facebook,
	}
	if socials != (topic.Socials{}) {
		t.Metadata.Socials = &socials
	}
}

func applyPlayerDetails(t *topic.Topic, player thesportsdb.Player) {
	if player.Name != "" {
		t.Title = player.Name
	}
	t.Metadata.IsStub = false
	t.Metadata = t.Metadata.MergeMissing(topic.Metadata{
		PhotoURL:     player.PhotoURL,
		Position:     player.Position,
		Nationality:  player.Nationality,
		BirthDate:    player.BirthDate,
		Height:       player.Height,
		Weight:       player.Weight,
		JerseyNumber: player.JerseyNumber,
	})
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
