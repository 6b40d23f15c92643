package topic

import (
	"errors"
	"time"
)

const (
	TypeClub   = "club"
	TypeLeague = "league"
	TypePlayer = "player"
)

var (
	ErrNotFound  = errors.New("topic not found")
	ErrDuplicate = errors.New("duplicate topic")
)

const SourceTheSportsDB = "thesportsdb"

// Topic is one subject record: a club, league or player.
type Topic struct {
	ID          string
	Slug        string
	Type        string
	Title       string
	Description string
	IsActive    bool
	Metadata    Metadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
