package topic

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// External identifies the upstream record a topic mirrors.
type External struct {
	Source     string `json:"source,omitempty"`
	UpstreamID int64  `json:"upstream_id,omitempty"`
}

// Socials holds a club's public profiles.
type Socials struct {
	Website   string `json:"website,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

// Metadata is the structured topic metadata. Upstream fields the
// struct does not model survive round trips through Extra.
type Metadata struct {
	External     External `json:"external"`
	IsStub       bool     `json:"is_stub,omitempty"`
	BadgeURL     string   `json:"badge_url,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	Stadium      string   `json:"stadium,omitempty"`
	Founded      int      `json:"founded,omitempty"`
	Capacity     int      `json:"capacity,omitempty"`
	LeagueType   string   `json:"league_type,omitempty"`
	Position     string   `json:"position,omitempty"`
	Nationality  string   `json:"nationality,omitempty"`
	BirthDate    string   `json:"birth_date,omitempty"`
	Height       string   `json:"height,omitempty"`
	Weight       string   `json:"weight,omitempty"`
	JerseyNumber string   `json:"jersey_number,omitempty"`
	Socials      *Socials `json:"socials,omitempty"`

	// Extra keeps keys the struct has no field for.
	Extra map[string]any `json:"-"`
}

var knownMetadataKeys = []string{
	"external", "is_stub", "badge_url", "photo_url", "stadium",
	"founded", "capacity", "league_type", "position", "nationality",
	"birth_date", "height", "weight", "jersey_number", "socials",
}

type metadataAlias Metadata

func (m Metadata) MarshalJSON() ([]byte, error) {
	base, err := sonic.Marshal(metadataAlias(m))
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if len(m.Extra) == 0 {
		return base, nil
	}

	var merged map[string]any
	if err := sonic.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("merge metadata extras: %w", err)
	}
	for key, value := range m.Extra {
		if _, taken := merged[key]; taken {
			continue
		}
		merged[key] = value
	}
	return sonic.Marshal(merged)
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var a metadataAlias
	if err := sonic.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}

	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode metadata extras: %w", err)
	}
	for _, key := range knownMetadataKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*m = Metadata(a)
	return nil
}

// MergeMissing fills empty fields of m from incoming without touching
// values that are already set. Used by player enrichment so a curated
// photo or bio survives upstream refreshes.
func (m Metadata) MergeMissing(incoming Metadata) Metadata {
	out := m
	if out.External.Source == "" {
		out.External.Source = incoming.External.Source
	}
	if out.External.UpstreamID == 0 {
		out.External.UpstreamID = incoming.External.UpstreamID
	}
	if out.BadgeURL == "" {
		out.BadgeURL = incoming.BadgeURL
	}
	if out.PhotoURL == "" {
		out.PhotoURL = incoming.PhotoURL
	}
	if out.Stadium == "" {
		out.Stadium = incoming.Stadium
	}
	if out.Founded == 0 {
		out.Founded = incoming.Founded
	}
	if out.Capacity == 0 {
		out.Capacity = incoming.Capacity
	}
	if out.LeagueType == "" {
		out.LeagueType = incoming.LeagueType
	}
	if out.Position == "" {
		out.Position = incoming.Position
	}
	if out.Nationality == "" {
		out.Nationality = incoming.Nationality
	}
	if out.BirthDate == "" {
		out.BirthDate = incoming.BirthDate
	}
	if out.Height == "" {
		out.Height = incoming.Height
	}
	if out.Weight == "" {
		out.Weight = incoming.Weight
	}
	if out.JerseyNumber == "" {
		out.JerseyNumber = incoming.JerseyNumber
	}
	if out.Socials == nil {
		out.Socials = incoming.Socials
	}
	return out
}
