package syncjob

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var ErrUnknownJobType = errors.New("unknown job type")

// Payload is the closed set of job payloads. Each concrete type maps
// to exactly one job Type; DecodePayload rejects anything else.
type Payload interface {
	JobType() Type
}

type LeaguePayload struct {
	LeagueID   int64  `json:"league_id"`
	LeagueName string `json:"league_name"`
	LeagueType string `json:"league_type"`
}

func (LeaguePayload) JobType() Type { return TypeSyncLeague }

type ClubPayload struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
}

func (ClubPayload) JobType() Type { return TypeSyncClub }

type PlayerPayload struct {
	TopicID          string `json:"topic_id"`
	UpstreamPlayerID int64  `json:"upstream_player_id"`
}

func (PlayerPayload) JobType() Type { return TypeEnrichPlayer }

// EncodePayload renders a payload for storage.
func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("nil payload")
	}
	raw, err := sonic.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.JobType(), err)
	}
	return raw, nil
}

// DecodePayload restores the typed payload for a stored job row.
func DecodePayload(jobType Type, raw []byte) (Payload, error) {
	switch jobType {
	case TypeSyncLeague:
		var p LeaguePayload
		if err := sonic.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", jobType, err)
		}
		return p, nil
	case TypeSyncClub:
		var p ClubPayload
		if err := sonic.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", jobType, err)
		}
		return p, nil
	case TypeEnrichPlayer:
		var p PlayerPayload
		if err := sonic.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", jobType, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, jobType)
	}
}

// Validate checks that a new job's payload matches its declared type.
func (j NewJob) Validate() error {
	if j.Payload == nil {
		return fmt.Errorf("job %s has nil payload", j.Type)
	}
	if j.Payload.JobType() != j.Type {
		return fmt.Errorf("job type %s does not match payload type %s", j.Type, j.Payload.JobType())
	}
	return nil
}
