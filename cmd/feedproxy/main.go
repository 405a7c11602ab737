package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"postfeed/feedproxy/internal/config"
	"postfeed/feedproxy/internal/database"
	"postfeed/feedproxy/internal/feed"
	"postfeed/feedproxy/internal/httpclient"
	importer "postfeed/feedproxy/internal/import"
	"postfeed/feedproxy/internal/placeholder"
	"postfeed/feedproxy/internal/server"
	"postfeed/feedproxy/internal/server/storage"
	"postfeed/feedproxy/internal/view"
)

var _ storage.Source = (*placeholder.Client)(nil)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	// zerolog.Ctx falls back to this for contexts that carry no logger.
	zerolog.DefaultContextLogger = &log.Logger
}

const userAgent = "feedproxy/1.0"

const usage = `Usage: feedproxy [command] [options]
Commands: server, browse, import

For command-specific options, use: feedproxy [command] -h`

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	cfg.LogLevel = config.GetEnvLogLevel(config.Key("LOG_LEVEL"), cfg.LogLevel)
	var logLevelStr string
	var fresh bool

	addLogLevel := func(fs *flag.FlagSet) {
		fs.StringVar(&logLevelStr, "log-level", cfg.LogLevel.String(),
			"Log level: debug, info, warn, error (env: FEEDPROXY_LOG_LEVEL)")
	}
	addUpstream := func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.UpstreamURL, "upstream", config.GetEnvString(config.Key("UPSTREAM_URL"), config.DefaultUpstreamURL),
			"Base URL of the placeholder API (env: FEEDPROXY_UPSTREAM_URL)")
		fs.DurationVar(&cfg.RequestTimeout, "timeout", config.GetEnvDuration(config.Key("REQUEST_TIMEOUT"), cfg.RequestTimeout),
			"Timeout per outbound request (env: FEEDPROXY_REQUEST_TIMEOUT)")
		fs.Float64Var(&cfg.UpstreamRPS, "rps", config.GetEnvFloat(config.Key("UPSTREAM_RPS"), config.DefaultUpstreamRPS),
			"Max outbound requests per second, 0 for unlimited (env: FEEDPROXY_UPSTREAM_RPS)")
	}
	addDB := func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.DBPath, "db", config.GetEnvString(config.Key("DB_PATH"), config.DefaultDBPath),
			"Path to the SQLite mirror (env: FEEDPROXY_DB_PATH)")
	}

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString(config.Key("HOST"), config.DefaultServerHost),
		"Host to bind the server to (env: FEEDPROXY_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt(config.Key("PORT"), config.DefaultServerPort),
		"Port to listen on (env: FEEDPROXY_PORT)")
	serverCmd.StringVar(&cfg.Source, "source", config.GetEnvString(config.Key("SOURCE"), config.DefaultSource),
		"Where posts come from: placeholder or sqlite (env: FEEDPROXY_SOURCE)")
	addUpstream(serverCmd)
	addDB(serverCmd)
	addLogLevel(serverCmd)

	browseCmd := flag.NewFlagSet("browse", flag.ExitOnError)
	browseCmd.StringVar(&cfg.APIURL, "api", config.GetEnvString(config.Key("API_URL"), config.DefaultAPIURL),
		"Base URL of a running feedproxy server (env: FEEDPROXY_API_URL)")
	browseCmd.IntVar(&cfg.Width, "width", config.GetEnvInt(config.Key("WIDTH"), 0),
		"Viewport width in columns, 0 to detect (env: FEEDPROXY_WIDTH)")
	browseCmd.DurationVar(&cfg.RequestTimeout, "timeout", config.GetEnvDuration(config.Key("REQUEST_TIMEOUT"), cfg.RequestTimeout),
		"Timeout per request (env: FEEDPROXY_REQUEST_TIMEOUT)")
	addLogLevel(browseCmd)

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importCmd.BoolVar(&fresh, "fresh", false, "Delete the database file and rebuild the schema before importing")
	addUpstream(importCmd)
	addDB(importCmd)
	addLogLevel(importCmd)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var run func(*config.Config) error
	switch os.Args[1] {
	case "server":
		serverCmd.Parse(os.Args[2:])
		run = runServer
	case "browse":
		browseCmd.Parse(os.Args[2:])
		run = runBrowse
	case "import":
		importCmd.Parse(os.Args[2:])
		run = func(cfg *config.Config) error { return runImport(cfg, fresh) }
	case "-h", "--help", "help":
		fmt.Println(usage)
		os.Exit(0)
	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}

	if level, err := zerolog.ParseLevel(logLevelStr); err == nil {
		cfg.LogLevel = level
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		os.Exit(1)
	}
}

func newPlaceholderClient(cfg *config.Config) (*placeholder.Client, error) {
	hc, err := httpclient.New(cfg.UpstreamURL, cfg.RequestTimeout, httpclient.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}
	return placeholder.NewClient(hc, cfg.UpstreamRPS), nil
}

// runServer starts the HTTP API backed by the configured source.
func runServer(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var source storage.Source
	switch cfg.Source {
	case config.SourceSQLite:
		dbCfg := database.NewConfig(cfg.DBPath)
		dbCfg.ReadOnly = true

		db, err := database.NewDB(dbCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		source = storage.NewSQLiteSource(db)

	default:
		client, err := newPlaceholderClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize upstream client: %w", err)
		}
		source = client
	}

	log.Info().
		Str("source", cfg.Source).
		Str("upstream", cfg.UpstreamURL).
		Float64("upstream_rps", cfg.UpstreamRPS).
		Msg("Starting server")

	return server.RunServer(source, cfg.ListenAddr(), log.Logger)
}

// runBrowse opens the interactive terminal feed against a running server.
func runBrowse(cfg *config.Config) error {
	hc, err := httpclient.New(cfg.APIURL, cfg.RequestTimeout, httpclient.WithUserAgent(userAgent))
	if err != nil {
		return err
	}
	api := feed.NewAPIClient(hc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := feed.NewLoader(api, feed.Viewport{Width: viewportWidth(cfg.Width)}, feed.WithLogger(log.Logger))
	if cfg.Width <= 0 {
		watchResize(ctx, loader)
	}
	return view.NewSession(loader, api, os.Stdin, os.Stdout).Run(ctx)
}

func viewportWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		log.Debug().Err(err).Msg("Terminal size unavailable, assuming wide layout")
		return 0
	}
	return width
}

// runImport mirrors the placeholder API into the SQLite database.
// Without fresh the existing rows are replaced in one transaction; with fresh
// the file is removed first (after confirmation) so the schema is rebuilt.
func runImport(cfg *config.Config, fresh bool) error {
	if _, err := os.Stat(cfg.DBPath); err == nil && fresh {
		fmt.Printf("Database %s already exists and will be deleted.\n", cfg.DBPath)
		fmt.Print("Continue? (y/N): ")

		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(answer) != "y" {
			return fmt.Errorf("operation canceled by user")
		}
		if err := database.DeleteDB(cfg.DBPath); err != nil {
			return fmt.Errorf("failed to delete database: %w", err)
		}
		log.Info().Str("path", cfg.DBPath).Msg("Existing database deleted")
	}

	client, err := newPlaceholderClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize upstream client: %w", err)
	}

	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	startTime := time.Now()
	snap, err := importer.NewImporter(client, db).Import(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("users", len(snap.Users)).
		Int("posts", len(snap.Posts)).
		Int("photos", len(snap.Photos)).
		Dur("duration", time.Since(startTime)).
		Msg("Mirror ready")
	return nil
}
