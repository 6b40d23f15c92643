package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TheMidfield/midfield-sync/external/thesportsdb"
	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/infrastructure/repository/memory"
)

// fakeProvider implements SportsProvider with per-method hooks and
// counts every upstream call.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	listLeagueTeams func(leagueID int64) ([]thesportsdb.Team, error)
	lookupTeam      func(teamID int64) (thesportsdb.Team, error)
	listTeamPlayers func(teamID int64) ([]thesportsdb.Player, error)
	lookupPlayer    func(playerID int64) (thesportsdb.Player, error)
	leagueSchedule  func(leagueID int64, season string) ([]thesportsdb.Event, error)
	teamSchedule    func(teamID int64) ([]thesportsdb.Event, error)
	livescores      func(leagueID int64) ([]thesportsdb.Event, error)
	leagueTable     func(leagueID int64, season string) ([]thesportsdb.TableRow, error)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: make(map[string]int)}
}

func (f *fakeProvider) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *fakeProvider) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeProvider) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeProvider) ListLeagueTeams(_ context.Context, leagueID int64) ([]thesportsdb.Team, error) {
	f.record("ListLeagueTeams")
	if f.listLeagueTeams == nil {
		return nil, nil
	}
	return f.listLeagueTeams(leagueID)
}

func (f *fakeProvider) LookupTeam(_ context.Context, teamID int64) (thesportsdb.Team, error) {
	f.record("LookupTeam")
	if f.lookupTeam == nil {
		return thesportsdb.Team{ID: teamID}, nil
	}
	return f.lookupTeam(teamID)
}

func (f *fakeProvider) ListTeamPlayers(_ context.Context, teamID int64) ([]thesportsdb.Player, error) {
	f.record("ListTeamPlayers")
	if f.listTeamPlayers == nil {
		return nil, nil
	}
	return f.listTeamPlayers(teamID)
}

func (f *fakeProvider) LookupPlayer(_ context.Context, playerID int64) (thesportsdb.Player, error) {
	f.record("LookupPlayer")
	if f.lookupPlayer == nil {
		return thesportsdb.Player{ID: playerID}, nil
	}
	return f.lookupPlayer(playerID)
}

func (f *fakeProvider) LeagueSchedule(_ context.Context, leagueID int64, season string) ([]thesportsdb.Event, error) {
	f.record("LeagueSchedule")
	if f.leagueSchedule == nil {
		return nil, nil
	}
	return f.leagueSchedule(leagueID, season)
}

func (f *fakeProvider) TeamSchedule(_ context.Context, teamID int64) ([]thesportsdb.Event, error) {
	f.record("TeamSchedule")
	if f.teamSchedule == nil {
		return nil, nil
	}
	return f.teamSchedule(teamID)
}

func (f *fakeProvider) Livescores(_ context.Context, leagueID int64) ([]thesportsdb.Event, error) {
	f.record("Livescores")
	if f.livescores == nil {
		return nil, nil
	}
	return f.livescores(leagueID)
}

func (f *fakeProvider) LeagueTable(_ context.Context, leagueID int64, season string) ([]thesportsdb.TableRow, error) {
	f.record("LeagueTable")
	if f.leagueTable == nil {
		return nil, nil
	}
	return f.leagueTable(leagueID, season)
}

type workerFixture struct {
	jobs     *memory.SyncJobRepository
	topics   *memory.TopicRepository
	fixtures *memory.FixtureRepository
	provider *fakeProvider
	svc      *WorkerService
}

func newWorkerFixture(cfg WorkerConfig) *workerFixture {
	jobs := memory.NewSyncJobRepository()
	topics := memory.NewTopicRepository()
	fixtures := memory.NewFixtureRepository()
	provider := newFakeProvider()
	resolver := NewResolverService(topics, nil, nil)
	return &workerFixture{
		jobs:     jobs,
		topics:   topics,
		fixtures: fixtures,
		provider: provider,
		svc:      NewWorkerService(jobs, topics, fixtures, resolver, provider, cfg, nil),
	}
}

func TestWorkerRunOnceEmptyQueue(t *testing.T) {
	t.Parallel()

	f := newWorkerFixture(WorkerConfig{})
	result, err := f.svc.RunOnce(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Processed != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v, want zero", result)
	}
}

func TestWorkerIsolatesJobFailures(t *testing.T) {
	t.Parallel()

	f := newWorkerFixture(WorkerConfig{BatchSize: 5})
	ctx := context.Background()

	boom := errors.New("upstream exploded")
	f.provider.lookupTeam = func(teamID int64) (thesportsdb.Team, error) {
		if teamID == 3 {
			return thesportsdb.Team{}, boom
		}
		return thesportsdb.Team{ID: teamID, Name: "Club"}, nil
	}

	var newJobs []syncjob.NewJob
	for i := int64(1); i <= 5; i++ {
		newJobs = append(newJobs, syncjob.NewJob{
			Type:    syncjob.TypeSyncClub,
			Payload: syncjob.ClubPayload{TeamID: i, TeamName: "Club"},
		})
	}
	if _, err := f.jobs.Enqueue(ctx, newJobs); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	result, err := f.svc.RunOnce(ctx, 0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Processed != 5 {
		t.Fatalf("processed = %d, want 5", result.Processed)
	}
	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}

	done, errored := 0, 0
	for _, job := range f.jobs.All() {
		switch job.Status {
		case syncjob.StatusDone:
			done++
		case syncjob.StatusError:
			errored++
			if job.ErrorLog == "" {
				t.Fatalf("errored job %d has empty error log", job.ID)
			}
		default:
			t.Fatalf("job %d left in status %s", job.ID, job.Status)
		}
	}
	if done != 4 || errored != 1 {
		t.Fatalf("done = %d errored = %d, want 4 and 1", done, errored)
	}
}

func TestWorkerSyncLeagueUpsertsFixturesAndFansOutClubs(t *testing.T) {
	t.Parallel()

	f := newWorkerFixture(WorkerConfig{BatchSize: 1})
	ctx := context.Background()

	kickoff := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)
	f.provider.leagueSchedule = func(leagueID int64, season string) ([]thesportsdb.Event, error) {
		return []thesportsdb.Event{
			{
				ID: 2070001, LeagueID: leagueID,
				HomeTeamID: 133604, AwayTeamID: 133602,
				HomeTeam: "Arsenal", AwayTeam: "Liverpool",
				KickoffAt: kickoff, Status: "Not Started", Season: season,
			},
			// No event id, cannot be keyed; must be skipped.
			{HomeTeam: "Ghost", AwayTeam: "Town", KickoffAt: kickoff},
		}, nil
	}
	f.provider.listLeagueTeams = func(int64) ([]thesportsdb.Team, error) {
		return []thesportsdb.Team{
			{ID: 133604, Name: "Arsenal"},
			{ID: 133602, Name: "Liverpool"},
		}, nil
	}

	if _, err := f.jobs.Enqueue(ctx, []syncjob.NewJob{{
		Type:    syncjob.TypeSyncLeague,
		Payload: syncjob.LeaguePayload{LeagueID: 4328, LeagueName: "English Premier League", LeagueType: LeagueTypeNational},
	}}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	result, err := f.svc.RunOnce(ctx, 0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("failed = %d, want 0", result.Failed)
	}

	if f.fixtures.Count() != 1 {
		t.Fatalf("fixture count = %d, want 1", f.fixtures.Count())
	}
	stored, err := f.fixtures.GetByExternalID(ctx, 2070001)
	if err != nil {
		t.Fatalf("GetByExternalID: %v", err)
	}
	if stored.Status != "NS" {
		t.Fatalf("fixture status = %q, want NS", stored.Status)
	}
	if stored.HomeTopicID == "" || stored.AwayTopicID == "" {
		t.Fatal("fixture should reference resolved club topics")
	}

	pending, err := f.jobs.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if pending != 2 {
		t.Fatalf("pending = %d, want 2 fanned-out club jobs", pending)
	}
}

func TestWorkerSyncLeagueContinentalSkipsClubFanOut(t *testing.T) {
	t.Parallel()

	f := newWorkerFixture(WorkerConfig{BatchSize: 1})
	ctx := context.Background()

	if _, err := f.jobs.Enqueue(ctx, []syncjob.NewJob{{
		Type:    syncjob.TypeSyncLeague,
		Payload: syncjob.LeaguePayload{LeagueID: 4480, LeagueName: "UEFA Champions League", LeagueType: LeagueTypeContinental},
	}}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if _, err := f.svc.RunOnce(ctx, 0); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if got := f.provider.callCount("ListLeagueTeams"); got != 0 {
		t.Fatalf("ListLeagueTeams calls = %d, want 0 for continental league", got)
	}
	pending, err := f.jobs.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if pending != 0 {
		t.Fatalf("pending = %d, want 0", pending)
	}
}

func TestWorkerSyncClubUpdatesTopicAndRoster(t *testing.T) {
	t.Parallel()

	f := newWorkerFixture(WorkerConfig{BatchSize: 1})
	ctx := context.Background()

	f.provider.lookupTeam = func(teamID int64) (thesportsdb.Team, error) {
		return thesportsdb.Team{
			ID: teamID, Name: "Arsenal", Stadium: "Emirates Stadium",
			Founded: 1886, Capacity: 60704, BadgeURL: "https://img/badge.png",
		}, nil
	}
	f.provider.listTeamPlayers = func(int64) ([]thesportsdb.Player, error) {
		return []thesportsdb.Player{
			{ID: 34145937, Name: "Bukayo Saka", Position: "Forward", Nationality: "England"},
		}, nil
	}

	if _, err := f.jobs.Enqueue(ctx, []syncjob.NewJob{{
		Type:    syncjob.TypeSyncClub,
		Payload: syncjob.ClubPayload{TeamID: 133604, TeamName: "Arsenal"},
	}}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	result, err := f.svc.RunOnce(ctx, 0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("failed = %d, want 0", result.Failed)
	}

	club, err := f.topics.FindByUpstreamID(ctx, topic.TypeClub, 133604)
	if err != nil {
		t.Fatalf("find club: %v", err)
	}
	if club.Metadata.IsStub {
		t.Fatal("club should no longer be a stub after full sync")
	}
	if club.Metadata.Stadium != "Emirates Stadium" {
		t.Fatalf("stadium = %q", club.Metadata.Stadium)
	}

	player, err := f.topics.FindByUpstreamID(ctx, topic.TypePlayer, 34145937)
	if err != nil {
		t.Fatalf("find player: %v", err)
	}
	if player.Metadata.Position != "Forward" {
		t.Fatalf("position = %q", player.Metadata.Position)
	}
}

func TestWorkerEnrichPlayerKeepsCuratedValues(t *testing.T) {
	t.Parallel()

	f := newWorkerFixture(WorkerConfig{BatchSize: 1})
	ctx := context.Background()

	seeded, err := f.topics.Insert(ctx, topic.Topic{
		Slug: "bukayo-saka-34145937", Type: topic.TypePlayer, Title: "Bukayo Saka",
		IsActive: true,
		Metadata: topic.Metadata{
			External: topic.External{Source: topic.SourceTheSportsDB, UpstreamID: 34145937},
			PhotoURL: "https://curated/saka.png",
		},
	})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}

	f.provider.lookupPlayer = func(playerID int64) (thesportsdb.Player, error) {
		return thesportsdb.Player{
			ID: playerID, Name: "Bukayo Saka",
			Nationality: "England", Height: "1.78 m", JerseyNumber: "7",
			PhotoURL: "https://upstream/saka.png",
		}, nil
	}

	if _, err := f.jobs.Enqueue(ctx, []syncjob.NewJob{{
		Type:    syncjob.TypeEnrichPlayer,
		Payload: syncjob.PlayerPayload{TopicID: seeded.ID, UpstreamPlayerID: 34145937},
	}}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	result, err := f.svc.RunOnce(ctx, 0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("failed = %d, want 0", result.Failed)
	}

	got, err := f.topics.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Metadata.PhotoURL != "https://curated/saka.png" {
		t.Fatalf("photo = %q, curated value should win", got.Metadata.PhotoURL)
	}
	if got.Metadata.Nationality != "England" {
		t.Fatalf("nationality = %q, want backfilled value", got.Metadata.Nationality)
	}
	if got.Metadata.JerseyNumber != "7" {
		t.Fatalf("jersey = %q", got.Metadata.JerseyNumber)
	}
}
