// Package config loads runtime configuration from the environment.
// Required variables are validated together so an operator sees every
// missing name at once instead of one per restart.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	DBURL                      string
	DBDisablePreparedBinary    bool
	CORSAllowedOrigins         []string
	CronSecret                 string
	ServiceRoleKey             string
	SportsDBBaseURL            string
	SportsDBV1BaseURL          string
	SportsDBKey                string
	SportsDBTimeout            time.Duration
	SportsDBCircuitEnabled     bool
	SportsDBCircuitFailures    int
	SportsDBCircuitOpenTimeout time.Duration
	SportsDBCircuitHalfOpenMax int
	TargetLeagues              []TargetLeague
	TrackedClubIDs             []int64
	WorkerBatchSize            int
	JobStaleAfter              time.Duration
	LiveLookback               time.Duration
	LiveLookahead              time.Duration
	LiveMaxAge                 time.Duration
	StandingsPause             time.Duration
	EnrichBatchSize            int
	NotificationRetention      time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
}

// TargetLeague is one competition the scheduler keeps in sync.
type TargetLeague struct {
	UpstreamID int64
	Name       string
	Type       string
}

const (
	LeagueTypeNational    = "national"
	LeagueTypeContinental = "continental"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// defaultTargetLeagues covers the top five domestic leagues plus
// the two UEFA club competitions.
var defaultTargetLeagues = []TargetLeague{
	{UpstreamID: 4328, Name: "English Premier League", Type: LeagueTypeNational},
	{UpstreamID: 4335, Name: "Spanish La Liga", Type: LeagueTypeNational},
	{UpstreamID: 4332, Name: "Italian Serie A", Type: LeagueTypeNational},
	{UpstreamID: 4331, Name: "German Bundesliga", Type: LeagueTypeNational},
	{UpstreamID: 4334, Name: "French Ligue 1", Type: LeagueTypeNational},
	{UpstreamID: 4480, Name: "UEFA Champions League", Type: LeagueTypeContinental},
	{UpstreamID: 4481, Name: "UEFA Europa League", Type: LeagueTypeContinental},
}

func Load() (Config, error) {
	var env envReader

	cfg := Config{
		ServiceName:    env.str("APP_SERVICE_NAME", "midfield-sync"),
		ServiceVersion: env.str("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       env.str("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    env.duration("APP_READ_TIMEOUT", "10s", 0),
		WriteTimeout:   env.duration("APP_WRITE_TIMEOUT", "60s", 0),

		DBURL:                   env.required("DB_URL"),
		DBDisablePreparedBinary: env.boolean("DB_DISABLE_PREPARED_BINARY_RESULT", "true"),

		CORSAllowedOrigins: splitCSV(env.str("CORS_ALLOWED_ORIGINS", "*")),
		CronSecret:         env.required("CRON_SECRET"),
		ServiceRoleKey:     env.required("SERVICE_ROLE_KEY"),

		SportsDBBaseURL:            env.str("THESPORTSDB_BASE_URL", "https://www.thesportsdb.com/api/v2/json"),
		SportsDBV1BaseURL:          env.str("THESPORTSDB_V1_BASE_URL", "https://www.thesportsdb.com/api/v1/json"),
		SportsDBKey:                env.required("THESPORTSDB_API_KEY"),
		SportsDBTimeout:            env.duration("THESPORTSDB_TIMEOUT", "20s", 1),
		SportsDBCircuitEnabled:     env.boolean("THESPORTSDB_CIRCUIT_ENABLED", "true"),
		SportsDBCircuitFailures:    env.intAtLeast("THESPORTSDB_CIRCUIT_FAILURE_COUNT", 5, 1),
		SportsDBCircuitOpenTimeout: env.duration("THESPORTSDB_CIRCUIT_OPEN_TIMEOUT", "15s", 1),
		SportsDBCircuitHalfOpenMax: env.intAtLeast("THESPORTSDB_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),

		WorkerBatchSize:       env.intAtLeast("WORKER_BATCH_SIZE", 5, 1),
		JobStaleAfter:         env.duration("JOB_STALE_AFTER", "1h", 1),
		LiveLookback:          env.duration("LIVE_LOOKBACK", "150m", 1),
		LiveLookahead:         env.duration("LIVE_LOOKAHEAD", "30m", 1),
		LiveMaxAge:            env.duration("LIVE_MAX_AGE", "150m", 1),
		StandingsPause:        env.duration("STANDINGS_PAUSE", "2s", 0),
		EnrichBatchSize:       env.intAtLeast("ENRICH_BATCH_SIZE", 100, 1),
		NotificationRetention: env.duration("NOTIFICATION_RETENTION", "720h", 1),

		PprofEnabled:           env.boolean("PPROF_ENABLED", "false"),
		PprofAddr:              env.str("PPROF_ADDR", ":6060"),
		UptraceEnabled:         env.boolean("UPTRACE_ENABLED", "false"),
		UptraceDSN:             env.str("UPTRACE_DSN", ""),
		PyroscopeEnabled:       env.boolean("PYROSCOPE_ENABLED", "false"),
		PyroscopeServerAddress: env.str("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAuthToken:     env.str("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeUploadRate:    env.duration("PYROSCOPE_UPLOAD_RATE", "15s", 1),
		LogLevel:               parseLogLevel(env.str("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = env.str("PYROSCOPE_APP_NAME", cfg.ServiceName)

	appEnv, err := parseAppEnv(env.str("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	cfg.AppEnv = appEnv

	cfg.TargetLeagues = defaultTargetLeagues
	if raw := env.str("SYNC_TARGET_LEAGUES", ""); raw != "" {
		cfg.TargetLeagues, err = parseLeagueList(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SYNC_TARGET_LEAGUES: %w", err)
		}
	}
	cfg.TrackedClubIDs, err = parseIDList(env.str("SYNC_TRACKED_CLUBS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_TRACKED_CLUBS: %w", err)
	}

	if err := env.err(); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, errors.New("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, errors.New("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, errors.New("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, errors.New("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, errors.New("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// envReader reads variables and collects problems instead of failing on
// the first one. A blank value always falls back to the default.
type envReader struct {
	missing  []string
	problems []string
}

func (r *envReader) err() error {
	if len(r.missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(r.missing, ", "))
	}
	if len(r.problems) > 0 {
		return errors.New(strings.Join(r.problems, "; "))
	}
	return nil
}

func (r *envReader) str(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func (r *envReader) required(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		r.missing = append(r.missing, key)
	}
	return value
}

func (r *envReader) boolean(key, fallback string) bool {
	value, err := strconv.ParseBool(r.str(key, fallback))
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("parse %s: %v", key, err))
		return false
	}
	return value
}

func (r *envReader) intAtLeast(key string, fallback, floor int) int {
	value, err := strconv.Atoi(r.str(key, strconv.Itoa(fallback)))
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("parse %s: %v", key, err))
		return fallback
	}
	if value < floor {
		r.problems = append(r.problems, fmt.Sprintf("%s must be >= %d", key, floor))
		return fallback
	}
	return value
}

// duration rejects values below floor, so a floor of 1ns means the
// duration must be positive and a floor of 0 allows zero.
func (r *envReader) duration(key, fallback string, floor time.Duration) time.Duration {
	value, err := time.ParseDuration(r.str(key, fallback))
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("parse %s: %v", key, err))
		return 0
	}
	if value < floor {
		r.problems = append(r.problems, fmt.Sprintf("%s is too small: %s", key, value))
		return 0
	}
	return value
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func splitCSV(v string) []string {
	out := make([]string, 0, 4)
	for _, part := range strings.Split(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseLeagueList parses "id:name:type" triples separated by commas,
// e.g. "4328:English Premier League:national,4480:UEFA Champions League:continental".
func parseLeagueList(raw string) ([]TargetLeague, error) {
	var out []TargetLeague
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 3)
		if len(segments) != 3 {
			return nil, fmt.Errorf("invalid league item %q, expected id:name:type", item)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(segments[0]), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid league id in item %q", item)
		}
		name := strings.TrimSpace(segments[1])
		if name == "" {
			return nil, fmt.Errorf("empty league name in item %q", item)
		}
		leagueType := strings.ToLower(strings.TrimSpace(segments[2]))
		if leagueType != LeagueTypeNational && leagueType != LeagueTypeContinental {
			return nil, fmt.Errorf("invalid league type %q in item %q", leagueType, item)
		}

		out = append(out, TargetLeague{UpstreamID: id, Name: name, Type: leagueType})
	}
	if len(out) == 0 {
		return nil, errors.New("no leagues in list")
	}
	return out, nil
}

func parseIDList(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", item)
		}
		out = append(out, id)
	}
	return out, nil
}
