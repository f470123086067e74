// Package app provides the application context and dependency management
// for the ingest CLI: configuration, logging, the InterLex session and the
// Google credentials used by the spreadsheet adapter.
package app

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/agentstation/ingest/cmd/application"
	"github.com/agentstation/ingest/internal/auth/adc"
	"github.com/agentstation/ingest/internal/interlex"
	"github.com/agentstation/ingest/internal/table"
	"github.com/agentstation/ingest/pkg/logging"
)

// App represents the ingest application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	runID  string
	out    io.Writer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		runID:   uuid.NewString(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
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

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// RunID returns the id generated for this invocation.
func (a *App) RunID() string {
	return a.runID
}

// OutputFormat returns the requested summary format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Session validates the configuration and opens an InterLex session.
func (a *App) Session(ctx context.Context) (application.Session, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	client, err := interlex.NewClient(interlex.Config{
		BaseURL:   a.config.Endpoint(),
		APIKey:    a.config.APIKey,
		IRIBase:   a.config.IRIBase,
		Timeout:   a.config.Timeout,
		RateLimit: a.config.RateLimit,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("endpoint", a.config.Endpoint()).
		Bool("production", a.config.Production).
		Msg("Opening InterLex session")

	session, err := client.Open(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GoogleOptions discovers Google credentials for the Sheets and Drive APIs.
func (a *App) GoogleOptions() ([]option.ClientOption, error) {
	details := adc.Inspect(a.config.GoogleCredentials)
	a.logger.Debug().Str("credentials", details.Path).Msg(details.Brief())

	return details.ClientOptions(table.Scopes...)
}

// Shutdown releases resources held by the application.
func (a *App) Shutdown(_ context.Context) error {
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
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

// WithOutput sends command output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
