package syncjob

import (
	"errors"
	"time"
)

// ErrNotHeld is returned by terminal transitions when the job is no
// longer in processing, meaning the scheduler reclaimed it while the
// caller was still working.
var ErrNotHeld = errors.New("job not held in processing")

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

type Type string

const (
	TypeSyncLeague   Type = "sync_league"
	TypeSyncClub     Type = "sync_club"
	TypeEnrichPlayer Type = "enrich_player"
)

// Job is one unit of queued sync work. ProcessedAt doubles as the
// lease heartbeat while the job is in processing and as the terminal
// timestamp once it is done or errored.
type Job struct {
	ID          int64
	Type        Type
	Payload     Payload
	Status      Status
	CreatedAt   time.Time
	ProcessedAt *time.Time
	ErrorLog    string
}

// NewJob is a job waiting to be enqueued.
type NewJob struct {
	Type    Type
	Payload Payload
}
