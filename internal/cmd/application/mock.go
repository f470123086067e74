// Package application provides test doubles for cmd/application.
package application

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	app "github.com/agentstation/ingest/cmd/application"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	SessionFunc       func(ctx context.Context) (app.Session, error)
	GoogleOptionsFunc func() ([]option.ClientOption, error)
	LoggerFunc        func() *zerolog.Logger
	RunIDFunc         func() string
	OutputFormatFunc  func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Session returns a session using the mock function or an authentication error.
func (m *Mock) Session(ctx context.Context) (app.Session, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc(ctx)
	}
	return nil, errors.NewAuthenticationError("interlex", "api_key", "no session configured", errors.ErrAPIKeyRequired)
}

// GoogleOptions returns options using the mock function or none.
func (m *Mock) GoogleOptions() ([]option.ClientOption, error) {
	if m.GoogleOptionsFunc != nil {
		return m.GoogleOptionsFunc()
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// RunID returns the run id using the mock function or "test-run".
func (m *Mock) RunID() string {
	if m.RunIDFunc != nil {
		return m.RunIDFunc()
	}
	return "test-run"
}

// OutputFormat returns output format using the mock function or "".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ app.Application = (*Mock)(nil)
