// Package app provides the application context and dependency management
// for the rostersync CLI. It centralizes configuration, the logger, and the
// lazily built rostersync client that commands share.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/cache"
	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/config"
	"github.com/agentstation/rostersync/internal/lightspeed"
	"github.com/agentstation/rostersync/internal/veracross"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Compile-time interface check.
var _ application.Application = (*App)(nil)

// App represents the rostersync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	flags    *Flags
	settings *config.Config
	logger   *zerolog.Logger

	// Client and its lookup cache (lazy-initialized, singleton)
	mu     sync.RWMutex
	client rostersync.Client
	cache  *cache.Cache
}

// New creates a new App instance with the given version information.
// Settings are loaded from the default search paths; an explicit --config
// reloads them before the command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   LoadFlags(),
	}

	settings, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.settings = settings

	logger := NewLogger(app.flags)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Settings returns the loaded settings. Commands overlay their flags on it.
func (a *App) Settings() *config.Config {
	return a.settings
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() string {
	return a.flags.Format
}

// Client returns the rostersync client, creating it on first use.
func (a *App) Client() (rostersync.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := a.buildClient()
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// buildClient wires the vendor clients from settings. The roster source is
// optional so export runs without Veracross credentials.
func (a *App) buildClient() (rostersync.Client, error) {
	s := a.settings
	a.cache = cache.New(s.Cache.TTL, 0)

	target, err := lightspeed.New(lightspeed.Config{
		BaseURL:     s.Lightspeed.BaseURL,
		AccountID:   s.Lightspeed.AccountID,
		AccessToken: s.Lightspeed.AccessToken,
		RateLimit:   s.Lightspeed.RateLimit,
	}, a.cache)
	if err != nil {
		return nil, err
	}

	var source roster.Source
	if s.Veracross.BaseURL != "" {
		vc, err := veracross.New(veracross.Config{
			BaseURL:   s.Veracross.BaseURL,
			School:    s.Veracross.School,
			Username:  s.Veracross.Username,
			Password:  s.Veracross.Password,
			RateLimit: s.Veracross.RateLimit,
		})
		if err != nil {
			return nil, err
		}
		source = cache.NewSource(vc, a.cache)
	}

	limit, err := s.ImportOptions.CreditLimit()
	if err != nil {
		return nil, err
	}

	return rostersync.New(source, target,
		rostersync.WithCustomFields(s.ImportOptions.ExternalIDField, s.ImportOptions.LastSyncField),
		rostersync.WithCreditLimit(limit),
	)
}

// reload replaces the settings and drops any client built from the old ones.
func (a *App) reload(settings *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = settings
	a.client = nil
	a.cache = nil
}

// Shutdown releases cached lookups. It is safe to call more than once.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	c := a.cache
	a.mu.RUnlock()

	if c != nil {
		stats := c.GetStats()
		a.logger.Debug().
			Int("items", stats.ItemCount).
			Int("hits", stats.Hits).
			Int("misses", stats.Misses).
			Msg("Releasing lookup cache")
		c.Clear()
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithSettings sets custom settings.
func WithSettings(settings *config.Config) Option {
	return func(a *App) error {
		a.settings = settings
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(client rostersync.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
