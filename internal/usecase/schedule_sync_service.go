package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
	"github.com/TheMidfield/midfield-sync/internal/domain/standing"
	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type ScheduleSyncConfig struct {
	// Leagues is the static set of competitions to refresh.
	Leagues []LeagueTarget
	// TrackedClubs are clubs whose own schedules are pulled on top of
	// the league-wide ones, catching cups and friendlies.
	TrackedClubs []int64
	// ClubConcurrency caps parallel club schedule fetches.
	ClubConcurrency int
	// StandingsPause is the delay between league table fetches so the
	// wholesale refresh does not burst the upstream rate limit.
	StandingsPause time.Duration
}

type ScheduleSyncResult struct {
	Leagues  int `json:"leagues"`
	Clubs    int `json:"clubs"`
	Fixtures int `json:"fixtures"`
	Failed   int `json:"failed"`
}

type StandingsSyncResult struct {
	Leagues int `json:"leagues"`
	Rows    int `json:"rows"`
	Failed  int `json:"failed"`
}

// ScheduleSyncService runs the daily wholesale refresh: every tracked
// league's season schedule, every tracked club's upcoming and recent
// matches, and the league tables.
type ScheduleSyncService struct {
	fixtureRepo  fixture.Repository
	standingRepo standing.Repository
	resolver     *ResolverService
	provider     SportsProvider
	cfg          ScheduleSyncConfig
	logger       *logging.Logger
	now          func() time.Time
	sleep        func(time.Duration)
}

func NewScheduleSyncService(
	fixtureRepo fixture.Repository,
	standingRepo standing.Repository,
	resolver *ResolverService,
	provider SportsProvider,
	cfg ScheduleSyncConfig,
	logger *logging.Logger,
) *ScheduleSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ClubConcurrency <= 0 {
		cfg.ClubConcurrency = 4
	}
	if cfg.StandingsPause <= 0 {
		cfg.StandingsPause = 2 * time.Second
	}
	return &ScheduleSyncService{
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		resolver:     resolver,
		provider:     provider,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// SyncSchedules refreshes league schedules sequentially, then fans
// out over the tracked clubs. A failing league or club is logged and
// skipped so the rest of the refresh still lands.
func (s *ScheduleSyncService) SyncSchedules(ctx context.Context) (ScheduleSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScheduleSyncService.SyncSchedules")
	defer span.End()

	season := CurrentSeason(s.now())
	result := ScheduleSyncResult{}

	for _, league := range s.cfg.Leagues {
		count, err := s.syncLeagueSchedule(ctx, league, season)
		if err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "league schedule sync failed",
				"league_id", league.UpstreamID,
				"error", err,
			)
			continue
		}
		result.Leagues++
		result.Fixtures += count
	}

	var mu sync.Mutex
	clubPool := pool.New().WithMaxGoroutines(s.cfg.ClubConcurrency)
	for _, clubID := range s.cfg.TrackedClubs {
		clubID := clubID
		clubPool.Go(func() {
			count, err := s.syncClubSchedule(ctx, clubID, season)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				s.logger.WarnContext(ctx, "club schedule sync failed",
					"team_id", clubID,
					"error", err,
				)
				return
			}
			result.Clubs++
			result.Fixtures += count
		})
	}
	clubPool.Wait()

	s.logger.InfoContext(ctx, "schedule sync complete",
		"leagues", result.Leagues,
		"clubs", result.Clubs,
		"fixtures", result.Fixtures,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *ScheduleSyncService) syncLeagueSchedule(ctx context.Context, league LeagueTarget, season string) (int, error) {
	leagueTopic, err := s.resolver.Resolve(ctx, topic.TypeLeague, league.UpstreamID, league.Name)
	if err != nil {
		return 0, err
	}

	events, err := s.provider.LeagueSchedule(ctx, league.UpstreamID, season)
	if err != nil {
		return 0, fmt.Errorf("fetch league schedule league=%d season=%s: %w", league.UpstreamID, season, err)
	}
	fixtures, err := buildFixtures(ctx, s.resolver, leagueTopic.ID, season, events)
	if err != nil {
		return 0, err
	}
	if err := s.fixtureRepo.UpsertBatch(ctx, fixtures); err != nil {
		return 0, fmt.Errorf("upsert league fixtures league=%d: %w", league.UpstreamID, err)
	}
	return len(fixtures), nil
}

func (s *ScheduleSyncService) syncClubSchedule(ctx context.Context, teamID int64, season string) (int, error) {
	events, err := s.provider.TeamSchedule(ctx, teamID)
	if err != nil {
		return 0, fmt.Errorf("fetch team schedule team=%d: %w", teamID, err)
	}
	fixtures, err := buildFixtures(ctx, s.resolver, "", season, events)
	if err != nil {
		return 0, err
	}
	if err := s.fixtureRepo.UpsertBatch(ctx, fixtures); err != nil {
		return 0, fmt.Errorf("upsert club fixtures team=%d: %w", teamID, err)
	}
	return len(fixtures), nil
}

// SyncStandings replaces every tracked league's table for the current
// season, pausing between leagues.
func (s *ScheduleSyncService) SyncStandings(ctx context.Context) (StandingsSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScheduleSyncService.SyncStandings")
	defer span.End()

	season := CurrentSeason(s.now())
	result := StandingsSyncResult{}

	for i, league := range s.cfg.Leagues {
		if i > 0 {
			s.sleep(s.cfg.StandingsPause)
		}
		count, err := s.syncLeagueStandings(ctx, league, season)
		if err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "league standings sync failed",
				"league_id", league.UpstreamID,
				"error", err,
			)
			continue
		}
		result.Leagues++
		result.Rows += count
	}

	s.logger.InfoContext(ctx, "standings sync complete",
		"leagues", result.Leagues,
		"rows", result.Rows,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *ScheduleSyncService) syncLeagueStandings(ctx context.Context, league LeagueTarget, season string) (int, error) {
	leagueTopic, err := s.resolver.Resolve(ctx, topic.TypeLeague, league.UpstreamID, league.Name)
	if err != nil {
		return 0, err
	}

	table, err := s.provider.LeagueTable(ctx, league.UpstreamID, season)
	if err != nil {
		return 0, fmt.Errorf("fetch league table league=%d season=%s: %w", league.UpstreamID, season, err)
	}
	if len(table) == 0 {
		return 0, nil
	}

	rows := make([]standing.Row, 0, len(table))
	for _, entry := range table {
		if entry.TeamID <= 0 {
			continue
		}
		teamTopic, err := s.resolver.Resolve(ctx, topic.TypeClub, entry.TeamID, entry.TeamName)
		if err != nil {
			return 0, err
		}
		rows = append(rows, standing.Row{
			LeagueTopicID:  leagueTopic.ID,
			TeamTopicID:    teamTopic.ID,
			TeamName:       entry.TeamName,
			BadgeURL:       entry.BadgeURL,
			Season:         season,
			Position:       entry.Position,
			Played:         entry.Played,
			Won:            entry.Won,
			Draw:           entry.Draw,
			Lost:           entry.Lost,
			GoalsFor:       entry.GoalsFor,
			GoalsAgainst:   entry.GoalsAgainst,
			GoalDifference: entry.GoalDifference,
			Points:         entry.Points,
		})
	}

	if err := s.standingRepo.ReplaceByLeague(ctx, leagueTopic.ID, season, rows); err != nil {
		return 0, fmt.Errorf("replace league standings league=%d: %w", league.UpstreamID, err)
	}
	return len(rows), nil
}
