// Package application defines what ingest commands need from the running
// program.
//
// Commands accept this interface rather than the concrete app type so they
// can be tested with internal/cmd/application.Mock:
//
//	mock := &application.Mock{
//	    SessionFunc: func(ctx context.Context) (application.Session, error) {
//	        return fakeSession, nil
//	    },
//	}
//	cmd := file.NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/agentstation/ingest/pkg/ingest"
)

// Session is an open, authenticated InterLex session.
type Session interface {
	ingest.Service
	Close() error
}

// Application provides the dependencies commands share.
type Application interface {
	// Session validates the configuration and opens an InterLex session
	// against the configured host. Callers close it.
	Session(ctx context.Context) (Session, error)

	// GoogleOptions returns client options carrying the discovered Google
	// credentials for the Sheets and Drive APIs.
	GoogleOptions() ([]option.ClientOption, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// RunID identifies this invocation in logs and summaries.
	RunID() string

	// OutputFormat returns the requested summary format (table, json, yaml),
	// or "" for the one-line summary.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
