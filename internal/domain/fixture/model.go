package fixture

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("fixture not found")

const (
	StatusNotStarted = "NS"
	StatusFirstHalf  = "1H"
	StatusHalfTime   = "HT"
	StatusSecondHalf = "2H"
	StatusExtraTime  = "ET"
	StatusPenalties  = "PEN"
	StatusLive       = "LIVE"
	StatusFullTime   = "FT"
	StatusPostponed  = "PST"
	StatusAbandoned  = "ABD"
)

// Fixture is one match, keyed by the upstream event id.
type Fixture struct {
	ExternalID    int64
	LeagueTopicID string
	HomeTopicID   string
	AwayTopicID   string
	HomeTeam      string
	AwayTeam      string
	HomeBadgeURL  string
	AwayBadgeURL  string
	Venue         string
	KickoffAt     time.Time
	Status        string
	HomeScore     *int
	AwayScore     *int
	Minute        string
	Gameweek      *int
	Season        string
	UpdatedAt     time.Time
}

// statusByUpstream maps the provider's long-form progress strings to
// the short codes stored on fixtures.
var statusByUpstream = map[string]string{
	"not started":    StatusNotStarted,
	"ns":             StatusNotStarted,
	"first half":     StatusFirstHalf,
	"1st half":       StatusFirstHalf,
	"1h":             StatusFirstHalf,
	"half time":      StatusHalfTime,
	"halftime":       StatusHalfTime,
	"ht":             StatusHalfTime,
	"second half":    StatusSecondHalf,
	"2nd half":       StatusSecondHalf,
	"2h":             StatusSecondHalf,
	"extra time":     StatusExtraTime,
	"et":             StatusExtraTime,
	"penalties":      StatusPenalties,
	"penalty":        StatusPenalties,
	"pen":            StatusPenalties,
	"match finished": StatusFullTime,
	"finished":       StatusFullTime,
	"ft":             StatusFullTime,
	"postponed":      StatusPostponed,
	"pst":            StatusPostponed,
	"abandoned":      StatusAbandoned,
	"abd":            StatusAbandoned,
}

// NormalizeStatus folds an upstream progress string into one of the
// stored status codes. Unknown non-empty values are treated as live,
// matching how the provider reports minute counters ("23'", "45+2'").
func NormalizeStatus(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StatusNotStarted
	}
	if code, ok := statusByUpstream[strings.ToLower(trimmed)]; ok {
		return code
	}
	return StatusLive
}

// LiveStatuses returns the status codes that mean a match is in play.
func LiveStatuses() []string {
	return []string{StatusLive, StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenalties}
}

func IsLiveStatus(status string) bool {
	switch status {
	case StatusLive, StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenalties:
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	return status == StatusFullTime
}

func IsCancelledLikeStatus(status string) bool {
	return status == StatusPostponed || status == StatusAbandoned
}
