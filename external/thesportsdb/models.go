package thesportsdb

import (
	"strconv"
	"strings"
	"time"
)

// Normalized shapes returned to callers. The provider encodes nearly
// every number as a string; the wire types below keep that quirk out
// of the rest of the codebase.

type Team struct {
	ID          int64
	Name        string
	Description string
	BadgeURL    string
	Stadium     string
	Founded     int
	Capacity    int
	Website     string
	Twitter     string
	Instagram   string
	Facebook    string
}

type Player struct {
	ID           int64
	TeamID       int64
	Name         string
	Position     string
	Nationality  string
	BirthDate    string
	Height       string
	Weight       string
	JerseyNumber string
	PhotoURL     string
}

type Event struct {
	ID           int64
	LeagueID     int64
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeam     string
	AwayTeam     string
	HomeBadgeURL string
	AwayBadgeURL string
	Venue        string
	Season       string
	Round        *int
	KickoffAt    time.Time
	HomeScore    *int
	AwayScore    *int
	// Status is the provider's raw progress string ("Not Started",
	// "Match Finished", "38'"). Normalization happens in the domain.
	Status   string
	Progress string
}

type TableRow struct {
	TeamID         int64
	TeamName       string
	BadgeURL       string
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

type wireTeam struct {
	ID          string `json:"idTeam"`
	Name        string `json:"strTeam"`
	Description string `json:"strDescriptionEN"`
	Badge       string `json:"strBadge"`
	BadgeAlt    string `json:"strTeamBadge"`
	Stadium     string `json:"strStadium"`
	Formed      string `json:"intFormedYear"`
	Capacity    string `json:"intStadiumCapacity"`
	Website     string `json:"strWebsite"`
	Twitter     string `json:"strTwitter"`
	Instagram   string `json:"strInstagram"`
	Facebook    string `json:"strFacebook"`
}

type wirePlayer struct {
	ID          string `json:"idPlayer"`
	TeamID      string `json:"idTeam"`
	Name        string `json:"strPlayer"`
	Position    string `json:"strPosition"`
	Nationality string `json:"strNationality"`
	BirthDate   string `json:"dateBorn"`
	Height      string `json:"strHeight"`
	Weight      string `json:"strWeight"`
	Number      string `json:"strNumber"`
	Cutout      string `json:"strCutout"`
	Thumb       string `json:"strThumb"`
}

type wireEvent struct {
	ID         string `json:"idEvent"`
	LeagueID   string `json:"idLeague"`
	HomeTeamID string `json:"idHomeTeam"`
	AwayTeamID string `json:"idAwayTeam"`
	HomeTeam   string `json:"strHomeTeam"`
	AwayTeam   string `json:"strAwayTeam"`
	HomeBadge  string `json:"strHomeTeamBadge"`
	AwayBadge  string `json:"strAwayTeamBadge"`
	HomeScore  string `json:"intHomeScore"`
	AwayScore  string `json:"intAwayScore"`
	Round      string `json:"intRound"`
	Venue      string `json:"strVenue"`
	Season     string `json:"strSeason"`
	Status     string `json:"strStatus"`
	Progress   string `json:"strProgress"`
	Timestamp  string `json:"strTimestamp"`
	Date       string `json:"dateEvent"`
	Time       string `json:"strTime"`
}

type wireTableRow struct {
	TeamID       string `json:"idTeam"`
	TeamName     string `json:"strTeam"`
	Badge        string `json:"strBadge"`
	BadgeAlt     string `json:"strTeamBadge"`
	Rank         string `json:"intRank"`
	Played       string `json:"intPlayed"`
	Win          string `json:"intWin"`
	Draw         string `json:"intDraw"`
	Loss         string `json:"intLoss"`
	GoalsFor     string `json:"intGoalsFor"`
	GoalsAgainst string `json:"intGoalsAgainst"`
	GoalsDiff    string `json:"intGoalDifference"`
	Points       string `json:"intPoints"`
}

type teamsEnvelope struct {
	Teams []wireTeam `json:"teams"`
	List  []wireTeam `json:"list"`
}

type playersEnvelope struct {
	Player  []wirePlayer `json:"player"`
	Players []wirePlayer `json:"players"`
}

type eventsEnvelope struct {
	Events    []wireEvent `json:"events"`
	Results   []wireEvent `json:"results"`
	Schedule  []wireEvent `json:"schedule"`
	Livescore []wireEvent `json:"livescore"`
}

type tableEnvelope struct {
	Table []wireTableRow `json:"table"`
}

func (w wireTeam) normalize() Team {
	return Team{
		ID:          parseID(w.ID),
		Name:        strings.TrimSpace(w.Name),
		Description: strings.TrimSpace(w.Description),
		BadgeURL:    firstNonEmpty(w.Badge, w.BadgeAlt),
		Stadium:     strings.TrimSpace(w.Stadium),
		Founded:     parseInt(w.Formed),
		Capacity:    parseInt(w.Capacity),
		Website:     strings.TrimSpace(w.Website),
		Twitter:     strings.TrimSpace(w.Twitter),
		Instagram:   strings.TrimSpace(w.Instagram),
		Facebook:    strings.TrimSpace(w.Facebook),
	}
}

func (w wirePlayer) normalize() Player {
	return Player{
		ID:           parseID(w.ID),
		TeamID:       parseID(w.TeamID),
		Name:         strings.TrimSpace(w.Name),
		Position:     strings.TrimSpace(w.Position),
		Nationality:  strings.TrimSpace(w.Nationality),
		BirthDate:    strings.TrimSpace(w.BirthDate),
		Height:       strings.TrimSpace(w.Height),
		Weight:       strings.TrimSpace(w.Weight),
		JerseyNumber: strings.TrimSpace(w.Number),
		PhotoURL:     firstNonEmpty(w.Cutout, w.Thumb),
	}
}

func (w wireEvent) normalize() Event {
	return Event{
		ID:           parseID(w.ID),
		LeagueID:     parseID(w.LeagueID),
		HomeTeamID:   parseID(w.HomeTeamID),
		AwayTeamID:   parseID(w.AwayTeamID),
		HomeTeam:     strings.TrimSpace(w.HomeTeam),
		AwayTeam:     strings.TrimSpace(w.AwayTeam),
		HomeBadgeURL: strings.TrimSpace(w.HomeBadge),
		AwayBadgeURL: strings.TrimSpace(w.AwayBadge),
		Venue:        strings.TrimSpace(w.Venue),
		Season:       strings.TrimSpace(w.Season),
		Round:        parseIntPtr(w.Round),
		KickoffAt:    parseKickoff(w.Timestamp, w.Date, w.Time),
		HomeScore:    parseIntPtr(w.HomeScore),
		AwayScore:    parseIntPtr(w.AwayScore),
		Status:       strings.TrimSpace(w.Status),
		Progress:     strings.TrimSpace(w.Progress),
	}
}

func (w wireTableRow) normalize() TableRow {
	row := TableRow{
		TeamID:         parseID(w.TeamID),
		TeamName:       strings.TrimSpace(w.TeamName),
		BadgeURL:       firstNonEmpty(w.Badge, w.BadgeAlt),
		Position:       parseInt(w.Rank),
		Played:         parseInt(w.Played),
		Won:            parseInt(w.Win),
		Draw:           parseInt(w.Draw),
		Lost:           parseInt(w.Loss),
		GoalsFor:       parseInt(w.GoalsFor),
		GoalsAgainst:   parseInt(w.GoalsAgainst),
		GoalDifference: parseInt(w.GoalsDiff),
		Points:         parseInt(w.Points),
	}
	if row.GoalDifference == 0 && (row.GoalsFor != 0 || row.GoalsAgainst != 0) {
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	}
	return row
}

// parseKickoff prefers the UTC timestamp field, falling back to the
// event date plus local time string.
func parseKickoff(timestamp, date, clock string) time.Time {
	if value := strings.TrimSpace(timestamp); value != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.UTC()
			}
		}
	}

	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00:00"
	}
	if parsed, err := time.Parse("2006-01-02 15:04:05", date+" "+clock); err == nil {
		return parsed.UTC()
	}
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}

func parseID(raw string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func parseIntPtr(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
