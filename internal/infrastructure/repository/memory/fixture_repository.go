package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.Mutex
	items map[int64]fixture.Fixture
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{items: make(map[int64]fixture.Fixture)}
}

func (r *FixtureRepository) UpsertBatch(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range fixtures {
		f.UpdatedAt = time.Now()
		r.items[f.ExternalID] = f
	}
	return nil
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (fixture.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.items[externalID]
	if !ok {
		return fixture.Fixture{}, fixture.ErrNotFound
	}
	return f, nil
}

func (r *FixtureRepository) ListInWindow(_ context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	return r.list(func(f fixture.Fixture) bool {
		return !f.KickoffAt.Before(from) && f.KickoffAt.Before(to) && f.Status != fixture.StatusFullTime
	}), nil
}

func (r *FixtureRepository) ListLiveOlderThan(_ context.Context, cutoff time.Time) ([]fixture.Fixture, error) {
	return r.list(func(f fixture.Fixture) bool {
		return fixture.IsLiveStatus(f.Status) && f.KickoffAt.Before(cutoff)
	}), nil
}

func (r *FixtureRepository) ListLiveStartingAfter(_ context.Context, cutoff time.Time) ([]fixture.Fixture, error) {
	return r.list(func(f fixture.Fixture) bool {
		return fixture.IsLiveStatus(f.Status) && f.KickoffAt.After(cutoff)
	}), nil
}

func (r *FixtureRepository) ApplyLiveUpdates(_ context.Context, updates []fixture.LiveUpdate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	applied := 0
	for _, u := range updates {
		f, ok := r.items[u.ExternalID]
		if !ok {
			continue
		}
		f.Status = u.Status
		f.HomeScore = u.HomeScore
		f.AwayScore = u.AwayScore
		f.Minute = u.Minute
		f.UpdatedAt = time.Now()
		r.items[u.ExternalID] = f
		applied++
	}
	return applied, nil
}

func (r *FixtureRepository) SetStatus(_ context.Context, externalID int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.items[externalID]
	if !ok {
		return fixture.ErrNotFound
	}
	f.Status = status
	f.UpdatedAt = time.Now()
	r.items[externalID] = f
	return nil
}

func (r *FixtureRepository) list(keep func(fixture.Fixture) bool) []fixture.Fixture {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]fixture.Fixture, 0, len(r.items))
	for _, f := range r.items {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ExternalID < out[j].ExternalID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out
}

// Count reports how many fixtures are stored.
func (r *FixtureRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
