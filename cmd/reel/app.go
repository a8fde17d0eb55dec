package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/launcher"
	"github.com/mmcdole/reel/internal/logging"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/theme"
	"github.com/mmcdole/reel/internal/tmdb"
)

// ErrNotConfigured is returned by commands that need the catalog when no
// API key is set
var ErrNotConfigured = errors.New("no API key configured; run `reel config init` or set REEL_CATALOG_API_KEY")

// globalFlags holds the persistent flags of the root command
type globalFlags struct {
	configPath string
	verbose    bool
	ephemeral  bool
}

// app holds the wired components shared by every command
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	kv        *store.KV
	catalog   *tmdb.Client
	favorites *favorites.Store
	theme     *theme.Preference
	browser   *launcher.Launcher

	closers []io.Closer
}

// openApp loads configuration, sets up logging and opens local storage.
// Favorites are hydrated before return.
func openApp(flags *globalFlags, stderr io.Writer) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}

	if flags.verbose {
		a.logger = logging.ConsoleLogger(stderr, true)
	} else {
		logger, closer, err := logging.SetupLogger(&cfg.Logging)
		if err != nil {
			// Fall back to null logger if file logging fails
			logger = logging.NullLogger()
		} else {
			a.closers = append(a.closers, closer)
		}
		a.logger = logger
	}
	slog.SetDefault(a.logger)

	storagePath := cfg.Storage.Path
	if flags.ephemeral {
		storagePath = ""
	}
	kv, err := store.Open(storagePath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.kv = kv
	a.closers = append([]io.Closer{kv}, a.closers...)

	a.favorites = favorites.New(kv, a.logger)
	if err := a.favorites.Hydrate(); err != nil {
		a.Close()
		return nil, err
	}
	a.theme = theme.Load(kv, cfg.UI.Theme, a.logger)

	a.catalog = tmdb.NewClient(tmdb.Options{
		BaseURL:      cfg.Catalog.BaseURL,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		APIKey:       cfg.Catalog.APIKey,
		Language:     cfg.Catalog.Language,
		Timeout:      cfg.Catalog.Timeout,
	}, a.logger)

	a.browser = launcher.New(cfg.UI.Browser, a.logger)

	a.logger.Debug("app ready", "storage", storagePath, "configured", cfg.IsConfigured())
	return a, nil
}

// requireCatalog fails unless an API key is configured
func (a *app) requireCatalog() error {
	if !a.cfg.IsConfigured() {
		return ErrNotConfigured
	}
	return nil
}

// Close releases storage and the log file
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
