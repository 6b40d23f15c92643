package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type LivescoreConfig struct {
	// Lookback and Lookahead bound the kickoff window that makes a
	// fixture eligible for live polling.
	Lookback  time.Duration
	Lookahead time.Duration
	// MaxLiveAge is how long after kickoff a fixture may stay live
	// before it is forced to full time.
	MaxLiveAge time.Duration
}

type LivescoreResult struct {
	ForcedFinished int `json:"forced_finished"`
	ResetUpcoming  int `json:"reset_upcoming"`
	Eligible       int `json:"eligible"`
	LeaguesPolled  int `json:"leagues_polled"`
	Updated        int `json:"updated"`
}

// LivescoreService polls live scores for fixtures near kickoff. When
// nothing is eligible it returns without touching the upstream API.
type LivescoreService struct {
	fixtureRepo fixture.Repository
	topicRepo   topic.Repository
	provider    SportsProvider
	cfg         LivescoreConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewLivescoreService(
	fixtureRepo fixture.Repository,
	topicRepo topic.Repository,
	provider SportsProvider,
	cfg LivescoreConfig,
	logger *logging.Logger,
) *LivescoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 150 * time.Minute
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 30 * time.Minute
	}
	if cfg.MaxLiveAge <= 0 {
		cfg.MaxLiveAge = 150 * time.Minute
	}
	return &LivescoreService{
		fixtureRepo: fixtureRepo,
		topicRepo:   topicRepo,
		provider:    provider,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *LivescoreService) Run(ctx context.Context) (LivescoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "LivescoreService.Run")
	defer span.End()

	result := LivescoreResult{}
	now := s.now().UTC()

	forced, err := s.forceStaleLiveFinished(ctx, now)
	if err != nil {
		return result, err
	}
	result.ForcedFinished = forced

	reset, err := s.resetPrematureLive(ctx, now)
	if err != nil {
		return result, err
	}
	result.ResetUpcoming = reset

	eligible, err := s.fixtureRepo.ListInWindow(ctx, now.Add(-s.cfg.Lookback), now.Add(s.cfg.Lookahead))
	if err != nil {
		return result, fmt.Errorf("list fixtures in live window: %w", err)
	}
	result.Eligible = len(eligible)
	if len(eligible) == 0 {
		return result, nil
	}

	byExternalID := make(map[int64]struct{}, len(eligible))
	leagueTopicIDs := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, f := range eligible {
		byExternalID[f.ExternalID] = struct{}{}
		if _, ok := seen[f.LeagueTopicID]; !ok && f.LeagueTopicID != "" {
			seen[f.LeagueTopicID] = struct{}{}
			leagueTopicIDs = append(leagueTopicIDs, f.LeagueTopicID)
		}
	}

	updates := make([]fixture.LiveUpdate, 0, len(eligible))
	for _, leagueTopicID := range leagueTopicIDs {
		leagueTopic, err := s.topicRepo.GetByID(ctx, leagueTopicID)
		if err != nil {
			s.logger.WarnContext(ctx, "resolve league for livescore failed",
				"league_topic_id", leagueTopicID,
				"error", err,
			)
			continue
		}
		upstreamID := leagueTopic.Metadata.External.UpstreamID
		if upstreamID <= 0 {
			continue
		}

		events, err := s.provider.Livescores(ctx, upstreamID)
		if err != nil {
			s.logger.WarnContext(ctx, "livescore poll failed",
				"league_id", upstreamID,
				"error", err,
			)
			continue
		}
		result.LeaguesPolled++

		for _, event := range events {
			if event.ID <= 0 {
				continue
			}
			if _, tracked := byExternalID[event.ID]; !tracked {
				continue
			}
			updates = append(updates, fixture.LiveUpdate{
				ExternalID: event.ID,
				Status:     fixture.NormalizeStatus(firstNonEmptyString(event.Status, event.Progress)),
				HomeScore:  event.HomeScore,
				AwayScore:  event.AwayScore,
				Minute:     strings.TrimSpace(event.Progress),
			})
		}
	}

	if len(updates) > 0 {
		updated, err := s.fixtureRepo.ApplyLiveUpdates(ctx, updates)
		if err != nil {
			return result, fmt.Errorf("apply live updates: %w", err)
		}
		result.Updated = updated
	}

	s.logger.InfoContext(ctx, "livescore pass complete",
		"eligible", result.Eligible,
		"leagues_polled", result.LeaguesPolled,
		"updated", result.Updated,
		"forced_finished", result.ForcedFinished,
		"reset_upcoming", result.ResetUpcoming,
	)
	return result, nil
}

// forceStaleLiveFinished closes out fixtures stuck in a live status
// long after kickoff, usually because the provider stopped reporting
// the match.
func (s *LivescoreService) forceStaleLiveFinished(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.fixtureRepo.ListLiveOlderThan(ctx, now.Add(-s.cfg.MaxLiveAge))
	if err != nil {
		return 0, fmt.Errorf("list stale live fixtures: %w", err)
	}
	forced := 0
	for _, f := range stale {
		if err := s.fixtureRepo.SetStatus(ctx, f.ExternalID, fixture.StatusFullTime); err != nil {
			return forced, fmt.Errorf("force fixture %d finished: %w", f.ExternalID, err)
		}
		forced++
		s.logger.WarnContext(ctx, "forced stale live fixture to full time",
			"external_id", f.ExternalID,
			"kickoff_at", f.KickoffAt,
		)
	}
	return forced, nil
}

// resetPrematureLive clears fixtures marked live while their kickoff
// is still far away, which happens when a kickoff is rescheduled after
// the provider already flipped the status. Matches within MaxLiveAge
// of kickoff are left alone so an early start or a skewed clock does
// not bounce a genuinely live fixture back to not started.
func (s *LivescoreService) resetPrematureLive(ctx context.Context, now time.Time) (int, error) {
	premature, err := s.fixtureRepo.ListLiveStartingAfter(ctx, now.Add(s.cfg.MaxLiveAge))
	if err != nil {
		return 0, fmt.Errorf("list premature live fixtures: %w", err)
	}
	reset := 0
	for _, f := range premature {
		if err := s.fixtureRepo.SetStatus(ctx, f.ExternalID, fixture.StatusNotStarted); err != nil {
			return reset, fmt.Errorf("reset fixture %d to not started: %w", f.ExternalID, err)
		}
		reset++
	}
	return reset, nil
}
