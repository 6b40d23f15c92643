package thesportsdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
	"github.com/TheMidfield/midfield-sync/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://www.thesportsdb.com/api/v2/json"
	defaultV1BaseURL = "https://www.thesportsdb.com/api/v1/json"
	maxResponseBytes = 6 << 20
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	V1BaseURL      string
	Key            string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is a thin transport over TheSportsDB. It maps failures to the
// package's error taxonomy and deliberately never retries; pacing and
// backoff policy belong to the callers.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	v1BaseURL      string
	key            string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	v1BaseURL := strings.TrimRight(strings.TrimSpace(cfg.V1BaseURL), "/")
	if v1BaseURL == "" {
		v1BaseURL = defaultV1BaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		v1BaseURL:      v1BaseURL,
		key:            strings.TrimSpace(cfg.Key),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListLeagueTeams returns the clubs in a league.
func (c *Client) ListLeagueTeams(ctx context.Context, leagueID int64) ([]Team, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	var envelope teamsEnvelope
	if err := c.doV2(ctx, fmt.Sprintf("/list/teams/%d", leagueID), &envelope); err != nil {
		return nil, fmt.Errorf("list teams league_id=%d: %w", leagueID, err)
	}

	wire := envelope.List
	if len(wire) == 0 {
		wire = envelope.Teams
	}
	out := make([]Team, 0, len(wire))
	for _, item := range wire {
		team := item.normalize()
		if team.ID <= 0 || team.Name == "" {
			continue
		}
		out = append(out, team)
	}
	return out, nil
}

// LookupTeam returns one club's full profile.
func (c *Client) LookupTeam(ctx context.Context, teamID int64) (Team, error) {
	if teamID <= 0 {
		return Team{}, fmt.Errorf("team id must be greater than zero")
	}

	var envelope teamsEnvelope
	if err := c.doV1(ctx, "lookupteam.php", url.Values{"id": {fmt.Sprint(teamID)}}, &envelope); err != nil {
		return Team{}, fmt.Errorf("lookup team team_id=%d: %w", teamID, err)
	}
	if len(envelope.Teams) == 0 {
		return Team{}, fmt.Errorf("lookup team team_id=%d: %w", teamID, ErrNotFound)
	}
	return envelope.Teams[0].normalize(), nil
}

// ListTeamPlayers returns a club's roster.
func (c *Client) ListTeamPlayers(ctx context.Context, teamID int64) ([]Player, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	var envelope playersEnvelope
	if err := c.doV1(ctx, "lookup_all_players.php", url.Values{"id": {fmt.Sprint(teamID)}}, &envelope); err != nil {
		return nil, fmt.Errorf("list players team_id=%d: %w", teamID, err)
	}

	wire := envelope.Player
	if len(wire) == 0 {
		wire = envelope.Players
	}
	out := make([]Player, 0, len(wire))
	for _, item := range wire {
		player := item.normalize()
		if player.ID <= 0 || player.Name == "" {
			continue
		}
		out = append(out, player)
	}
	return out, nil
}

// LookupPlayer returns one player's full profile.
func (c *Client) LookupPlayer(ctx context.Context, playerID int64) (Player, error) {
	if playerID <= 0 {
		return Player{}, fmt.Errorf("player id must be greater than zero")
	}

	var envelope playersEnvelope
	if err := c.doV1(ctx, "lookupplayer.php", url.Values{"id": {fmt.Sprint(playerID)}}, &envelope); err != nil {
		return Player{}, fmt.Errorf("lookup player player_id=%d: %w", playerID, err)
	}
	wire := envelope.Players
	if len(wire) == 0 {
		wire = envelope.Player
	}
	if len(wire) == 0 {
		return Player{}, fmt.Errorf("lookup player player_id=%d: %w", playerID, ErrNotFound)
	}
	return wire[0].normalize(), nil
}

// LeagueSchedule returns every event of a league season.
func (c *Client) LeagueSchedule(ctx context.Context, leagueID int64, season string) ([]Event, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}
	if strings.TrimSpace(season) == "" {
		return nil, fmt.Errorf("season must not be empty")
	}

	var envelope eventsEnvelope
	query := url.Values{"id": {fmt.Sprint(leagueID)}, "s": {season}}
	if err := c.doV1(ctx, "eventsseason.php", query, &envelope); err != nil {
		return nil, fmt.Errorf("league schedule league_id=%d season=%s: %w", leagueID, season, err)
	}
	return normalizeEvents(envelope.Events), nil
}

// TeamSchedule returns a club's next and most recent events.
func (c *Client) TeamSchedule(ctx context.Context, teamID int64) ([]Event, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	query := url.Values{"id": {fmt.Sprint(teamID)}}

	var upcoming eventsEnvelope
	if err := c.doV1(ctx, "eventsnext.php", query, &upcoming); err != nil {
		return nil, fmt.Errorf("team schedule next team_id=%d: %w", teamID, err)
	}
	var recent eventsEnvelope
	if err := c.doV1(ctx, "eventslast.php", query, &recent); err != nil {
		return nil, fmt.Errorf("team schedule last team_id=%d: %w", teamID, err)
	}

	merged := make([]wireEvent, 0, len(upcoming.Events)+len(recent.Results))
	merged = append(merged, upcoming.Events...)
	merged = append(merged, recent.Results...)
	return normalizeEvents(merged), nil
}

// Livescores returns in-play events for a league.
func (c *Client) Livescores(ctx context.Context, leagueID int64) ([]Event, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	var envelope eventsEnvelope
	if err := c.doV2(ctx, fmt.Sprintf("/livescore/%d", leagueID), &envelope); err != nil {
		return nil, fmt.Errorf("livescores league_id=%d: %w", leagueID, err)
	}

	wire := envelope.Livescore
	if len(wire) == 0 {
		wire = envelope.Events
	}
	return normalizeEvents(wire), nil
}

// LeagueTable returns the league table for a season.
func (c *Client) LeagueTable(ctx context.Context, leagueID int64, season string) ([]TableRow, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}
	if strings.TrimSpace(season) == "" {
		return nil, fmt.Errorf("season must not be empty")
	}

	var envelope tableEnvelope
	query := url.Values{"l": {fmt.Sprint(leagueID)}, "s": {season}}
	if err := c.doV1(ctx, "lookuptable.php", query, &envelope); err != nil {
		return nil, fmt.Errorf("league table league_id=%d season=%s: %w", leagueID, season, err)
	}

	out := make([]TableRow, 0, len(envelope.Table))
	for _, item := range envelope.Table {
		row := item.normalize()
		if row.TeamID <= 0 || row.Position <= 0 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func normalizeEvents(wire []wireEvent) []Event {
	out := make([]Event, 0, len(wire))
	for _, item := range wire {
		event := item.normalize()
		if event.ID <= 0 {
			continue
		}
		out = append(out, event)
	}
	return out
}

// doV2 issues a request against the v2 API, which authenticates via
// the X-API-KEY header.
func (c *Client) doV2(ctx context.Context, path string, target any) error {
	return c.doJSON(ctx, c.baseURL+path, http.Header{"X-API-KEY": {c.key}}, target)
}

// doV1 issues a request against the legacy v1 API, which embeds the
// key in the path.
func (c *Client) doV1(ctx context.Context, endpoint string, query url.Values, target any) error {
	fullURL := c.v1BaseURL + "/" + c.key + "/" + endpoint
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return c.doJSON(ctx, fullURL, nil, target)
}

func (c *Client) doJSON(ctx context.Context, fullURL string, header http.Header, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "thesportsdb circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("circuit open: %w", ErrUnavailable)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, header)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return crerr.Wrapf(ErrMalformed, "unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(ErrMalformed, "decode provider payload: %v", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "thesportsdb request failed", "url", c.redactURL(fullURL), "error", err)
		return nil, crerr.Wrapf(ErrUnavailable, "send request: %s", c.redactText(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Wrapf(ErrUnavailable, "read response body: %v", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "thesportsdb rate limited", "url", c.redactURL(fullURL))
		return nil, ErrRateLimited
	default:
		preview := c.responsePreview(resp.StatusCode, raw)
		c.logger.WarnContext(ctx, "thesportsdb unexpected status", "url", c.redactURL(fullURL), "detail", preview)
		return nil, crerr.Wrapf(ErrUnavailable, "%s", preview)
	}
}

// responsePreview builds a short redacted "status=... body=..." string
// for logs and wrapped errors.
func (c *Client) responsePreview(status int, body []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("provider status=")
	fmt.Fprintf(buf, "%d", status)
	buf.WriteString(" body=")
	snippet := body
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}
	buf.WriteString(c.redactText(strings.TrimSpace(string(snippet))))
	return buf.String()
}

func (c *Client) redactURL(fullURL string) string {
	return c.redactText(fullURL)
}

func (c *Client) redactText(value string) string {
	if c.key == "" {
		return value
	}
	return strings.ReplaceAll(value, c.key, "REDACTED")
}

// isCircuitFailure reports whether an error should trip the breaker.
// Missing resources are valid answers; only upstream health problems
// count.
func isCircuitFailure(err error) bool {
	return crerr.Is(err, ErrUnavailable) || crerr.Is(err, ErrRateLimited)
}
