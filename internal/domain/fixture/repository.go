package fixture

import (
	"context"
	"time"
)

// LiveUpdate carries the fields the livescore poller may change.
type LiveUpdate struct {
	ExternalID int64
	Status     string
	HomeScore  *int
	AwayScore  *int
	Minute     string
}

// Repository exposes fixture persistence. All writes are upserts keyed
// by the upstream event id.
type Repository interface {
	UpsertBatch(ctx context.Context, fixtures []Fixture) error
	// ListInWindow returns fixtures with kickoff in [from, to] whose
	// status is not yet terminal.
	ListInWindow(ctx context.Context, from, to time.Time) ([]Fixture, error)
	// ListLiveOlderThan returns in-play fixtures whose kickoff is
	// before the cutoff.
	ListLiveOlderThan(ctx context.Context, cutoff time.Time) ([]Fixture, error)
	// ListLiveStartingAfter returns in-play fixtures whose kickoff is
	// after the cutoff. A live status on a match that far out is bogus
	// upstream data.
	ListLiveStartingAfter(ctx context.Context, cutoff time.Time) ([]Fixture, error)
	ApplyLiveUpdates(ctx context.Context, updates []LiveUpdate) (int, error)
	SetStatus(ctx context.Context, externalID int64, status string) error
	GetByExternalID(ctx context.Context, externalID int64) (Fixture, error)
}
