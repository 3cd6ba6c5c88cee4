package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/api"
	"github.com/BTreeMap/MoodPipe/internal/conversation"
	"github.com/BTreeMap/MoodPipe/internal/credential"
	"github.com/BTreeMap/MoodPipe/internal/emotion"
	"github.com/BTreeMap/MoodPipe/internal/genai"
	"github.com/BTreeMap/MoodPipe/internal/lockfile"
	"github.com/BTreeMap/MoodPipe/internal/metrics"
	"github.com/BTreeMap/MoodPipe/internal/offline"
	"github.com/BTreeMap/MoodPipe/internal/respond"
	"github.com/BTreeMap/MoodPipe/internal/scheduler"
	"github.com/BTreeMap/MoodPipe/internal/store"
	"github.com/BTreeMap/MoodPipe/internal/translate"
	"github.com/BTreeMap/MoodPipe/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for MoodPipe state data
	DefaultStateDir = "/var/lib/moodpipe"
	// DefaultLogLevel is used when MOODPIPE_LOG_LEVEL is unset or unparsable
	DefaultLogLevel = "info"
	// DefaultSessionIdleTTL is how long an unused session is kept in memory
	DefaultSessionIdleTTL = 24 * time.Hour
)

func main() {
	// Initialize structured logger
	initializeLogger(os.Getenv("MOODPIPE_LOG_LEVEL"))

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// .env and -log-level may change the level
	initializeLogger(*flags.logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags); err != nil {
		slog.Error("MoodPipe failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("MoodPipe exited successfully")
}

// Config holds environment configuration
type Config struct {
	StateDir          string
	DatabaseURL       string
	GenAIProvider     string
	GenAIKey          string
	GenAIModel        string
	GenAIBaseURL      string
	TranslateEndpoint string
	Offline           bool
	APIAddr           string
	LogLevel          string
	SessionIdleTTL    time.Duration
	EvictionSchedule  string
}

// Flags holds command line flag values
type Flags struct {
	stateDir          *string
	dbDSN             *string
	genaiProvider     *string
	genaiKey          *string
	genaiModel        *string
	genaiBaseURL      *string
	translateEndpoint *string
	offline           *bool
	apiAddr           *string
	logLevel          *string
	sessionIdleTTL    *time.Duration
	evictionSchedule  *string
}

// initializeLogger sets up structured logging at the requested level
func initializeLogger(level string) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	slog.SetDefault(logger)
}

// parseLogLevel maps debug/info/warn/error to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		StateDir:          os.Getenv("MOODPIPE_STATE_DIR"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GenAIProvider:     os.Getenv("GENAI_PROVIDER"),
		GenAIKey:          util.FirstEnv("GENAI_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY"),
		GenAIModel:        os.Getenv("GENAI_MODEL"),
		GenAIBaseURL:      os.Getenv("GENAI_BASE_URL"),
		TranslateEndpoint: os.Getenv("TRANSLATE_ENDPOINT"),
		Offline:           util.ParseBoolEnv("MOODPIPE_OFFLINE", false),
		APIAddr:           os.Getenv("API_ADDR"),
		LogLevel:          os.Getenv("MOODPIPE_LOG_LEVEL"),
		SessionIdleTTL:    util.ParseDurationEnv("MOODPIPE_SESSION_IDLE_TTL", DefaultSessionIdleTTL),
		EvictionSchedule:  os.Getenv("MOODPIPE_EVICTION_SCHEDULE"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
	}
	if config.GenAIProvider == "" {
		config.GenAIProvider = genai.ProviderOpenAI
	}
	if config.TranslateEndpoint == "" {
		config.TranslateEndpoint = translate.DefaultPublicEndpoint
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.EvictionSchedule == "" {
		config.EvictionSchedule = scheduler.DefaultEvictionSchedule
	}

	slog.Debug("environment variables loaded",
		"MOODPIPE_STATE_DIR", config.StateDir,
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"GENAI_PROVIDER", config.GenAIProvider,
		"GENAI_API_KEY_SET", config.GenAIKey != "",
		"GENAI_MODEL", config.GenAIModel,
		"GENAI_BASE_URL", config.GenAIBaseURL,
		"TRANSLATE_ENDPOINT", config.TranslateEndpoint,
		"MOODPIPE_OFFLINE", config.Offline,
		"API_ADDR", config.APIAddr,
		"MOODPIPE_SESSION_IDLE_TTL", config.SessionIdleTTL,
		"MOODPIPE_EVICTION_SCHEDULE", config.EvictionSchedule)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := newFlags(flag.CommandLine, config)
	flag.Parse()
	return flags
}

// newFlags registers every flag on fs with the environment values as defaults.
func newFlags(fs *flag.FlagSet, config Config) Flags {
	return Flags{
		stateDir:          fs.String("state-dir", config.StateDir, "state directory for MoodPipe data (overrides $MOODPIPE_STATE_DIR)"),
		dbDSN:             fs.String("db-dsn", config.DatabaseURL, "emotion log database DSN, empty for in-memory (overrides $DATABASE_URL)"),
		genaiProvider:     fs.String("genai-provider", config.GenAIProvider, "AI provider: openai or gemini (overrides $GENAI_PROVIDER)"),
		genaiKey:          fs.String("genai-api-key", config.GenAIKey, "AI service API key (overrides $GENAI_API_KEY)"),
		genaiModel:        fs.String("genai-model", config.GenAIModel, "AI model id (overrides $GENAI_MODEL)"),
		genaiBaseURL:      fs.String("genai-base-url", config.GenAIBaseURL, "OpenAI-compatible base URL (overrides $GENAI_BASE_URL)"),
		translateEndpoint: fs.String("translate-endpoint", config.TranslateEndpoint, "public translation endpoint (overrides $TRANSLATE_ENDPOINT)"),
		offline:           fs.Bool("offline", config.Offline, "start in offline mode (overrides $MOODPIPE_OFFLINE)"),
		apiAddr:           fs.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		logLevel:          fs.String("log-level", config.LogLevel, "log level: debug, info, warn or error (overrides $MOODPIPE_LOG_LEVEL)"),
		sessionIdleTTL:    fs.Duration("session-idle-ttl", config.SessionIdleTTL, "drop sessions unused for this long (overrides $MOODPIPE_SESSION_IDLE_TTL)"),
		evictionSchedule:  fs.String("eviction-schedule", config.EvictionSchedule, "cron schedule of the idle-session sweep (overrides $MOODPIPE_EVICTION_SCHEDULE)"),
	}
}

// usesFileStore reports whether the configured DSN selects the SQLite store.
func usesFileStore(flags Flags) bool {
	return *flags.dbDSN != "" && store.DetectDSNType(*flags.dbDSN) == "sqlite3"
}

// ensureDirectoriesExist creates the state directory and the SQLite file's parent directory
func ensureDirectoriesExist(flags Flags) error {
	if !usesFileStore(flags) {
		return nil
	}
	for _, dir := range []string{*flags.stateDir, filepath.Dir(*flags.dbDSN)} {
		slog.Debug("Creating directory for file-based database", "dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("Failed to create directory", "error", err, "dir", dir)
			return err
		}
	}
	return nil
}

// buildStoreOptions constructs store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == "postgres" {
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_type", "postgresql", "dsn_set", true)
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		} else {
			slog.Debug("Detected SQLite DSN, configuring SQLite store", "dsn_type", "sqlite", "db_path", *flags.dbDSN)
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	} else {
		slog.Debug("No database DSN provided, will use in-memory store")
	}
	return storeOpts
}

// buildGenAIOptions constructs GenAI configuration options shared by every client the validator
// builds. The API key is supplied per client by the factory.
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.genaiModel != "" {
		genaiOpts = append(genaiOpts, genai.WithModel(*flags.genaiModel))
	}
	if *flags.genaiBaseURL != "" {
		genaiOpts = append(genaiOpts, genai.WithBaseURL(*flags.genaiBaseURL))
	}
	return genaiOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}

// clientFactory binds a provider and shared options into a credential.ClientFactory.
func clientFactory(provider string, opts []genai.Option) credential.ClientFactory {
	return func(ctx context.Context, apiKey string) (genai.Generator, error) {
		clientOpts := append(append([]genai.Option(nil), opts...), genai.WithAPIKey(apiKey))
		return genai.New(ctx, provider, clientOpts...)
	}
}

// run wires the cascades, the store and the API server, and serves until ctx is cancelled.
func run(ctx context.Context, flags Flags) error {
	if err := ensureDirectoriesExist(flags); err != nil {
		return err
	}

	if usesFileStore(flags) {
		lock, err := lockfile.Acquire(*flags.stateDir)
		if err != nil {
			var lockErr *lockfile.LockError
			if errors.As(err, &lockErr) {
				slog.Error("Another MoodPipe instance holds the state directory", "path", lockErr.Path, "holder", lockErr.Holder.String())
			}
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				slog.Warn("Failed to release state directory lock", "error", err, "path", lock.Path())
			}
		}()
	}

	storeOpts := buildStoreOptions(flags)
	genaiOpts := buildGenAIOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping MoodPipe with configured modules")
	slog.Debug("Module options counts", "store", len(storeOpts), "genai", len(genaiOpts), "api", len(apiOpts))
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "dsn_set", *flags.dbDSN != "", "provider", *flags.genaiProvider,
		"api_key_set", *flags.genaiKey != "", "offline", *flags.offline, "api_addr", *flags.apiAddr)

	st, err := store.Open(storeOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}()

	rec := metrics.NewRecorder()
	creds := credential.NewValidator(*flags.genaiKey, clientFactory(*flags.genaiProvider, genaiOpts), credential.WithMetrics(rec))
	governor := offline.NewGovernor(*flags.offline, creds)
	governor.Watch(creds)

	var public translate.PublicService
	if *flags.translateEndpoint != "" {
		public = translate.NewPublicClient(*flags.translateEndpoint, &http.Client{Timeout: translate.DefaultPublicTimeout})
	}

	classifier := emotion.NewClassifier(creds, rec)
	translator := translate.NewTranslator(creds, public, rec)
	responder := respond.NewResponder(creds, rec)
	engine := &conversation.Engine{
		Classifier: classifier,
		Translator: translator,
		Responder:  responder,
		Offline:    governor,
		Sink:       st,
	}

	sessions := conversation.NewManager(engine, st)

	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if *flags.sessionIdleTTL > 0 {
		ttl := *flags.sessionIdleTTL
		if err := sched.AddJob("evict-idle-sessions", *flags.evictionSchedule, func() { sessions.EvictIdle(ttl) }); err != nil {
			return fmt.Errorf("invalid eviction schedule %q: %w", *flags.evictionSchedule, err)
		}
	}

	server := api.NewServer(api.Deps{
		Sessions:    sessions,
		Classifier:  classifier,
		Translator:  translator,
		Responder:   responder,
		Credentials: creds,
		Governor:    governor,
		Metrics:     rec.Handler(),
	}, apiOpts...)

	// Initial validation; later callers share its result.
	if !*flags.offline {
		go func() {
			valid := creds.IsValid(ctx)
			slog.Info("Initial credential validation finished", "valid", valid)
		}()
	}

	return server.Run(ctx)
}
