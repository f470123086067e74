// Package runner executes one ingestion from a command and reports it.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/ingest/cmd/application"
	"github.com/agentstation/ingest/internal/cmd/output"
	"github.com/agentstation/ingest/internal/table"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/ingest"
	"github.com/agentstation/ingest/pkg/logging"
)

// Run opens an InterLex session, ingests tbl and writes the summary to w.
//
// When InterLex is unreachable or rejects the API key the table is still
// processed and written, with a lookup failure recorded on every row.
// The returned error wraps errors.ErrRowsFailed when the table was written
// but some rows failed. Any other error is run-level.
func Run(ctx context.Context, app application.Application, tbl table.Table, w io.Writer) error {
	ctx = logging.WithLogger(ctx, app.Logger())
	ctx = logging.WithRun(ctx, app.RunID())
	log := logging.FromContext(ctx)

	session, err := app.Session(ctx)
	switch {
	case err == nil:
		user := session.User()
		log.Info().Str("user", user.Name()).Str("uid", string(user.ID)).Msg("InterLex session opened")
	case cannotStart(ctx, err):
		return err
	default:
		log.Error().Err(err).Msg("InterLex session could not be opened, every row will be marked failed")
		ctx = logging.WithError(ctx, err)
		session = ingest.Unavailable{Err: err}
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close InterLex session")
		}
	}()

	orch := ingest.ForSession(session, ingest.WithProgress(func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("Row finished")
	}))

	res, runErr := ingest.Run(ctx, tbl, orch)
	if res == nil {
		return runErr
	}

	adapter, target := tbl.Describe()
	summary := output.NewSummary(app.RunID(), adapter, target, res)
	if csv, ok := tbl.(*table.CSVTable); ok {
		summary.Output = csv.Output()
	}
	if err := report(w, app.OutputFormat(), summary); err != nil {
		log.Warn().Err(err).Msg("Failed to print summary")
	}

	if runErr != nil {
		return runErr
	}
	if !res.AllSucceeded() {
		return fmt.Errorf("%d of %d rows failed: %w", res.Failed, res.Total, errors.ErrRowsFailed)
	}
	return nil
}

// cannotStart reports whether a session error is local to this invocation:
// bad configuration, a missing API key or cancellation. An unreachable
// service or a rejected key is recorded on every row instead.
func cannotStart(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var cfgErr *errors.ConfigError
	return errors.As(err, &cfgErr) || errors.Is(err, errors.ErrAPIKeyRequired)
}

func report(w io.Writer, explicit string, summary output.Summary) error {
	format := output.DetectFormat(explicit, w)
	if format == "" {
		_, err := fmt.Fprintln(w, summary.Line())
		return err
	}
	return output.NewFormatter(format).Format(w, summary)
}
