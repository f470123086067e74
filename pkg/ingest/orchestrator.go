package ingest

import (
	"context"
	"time"

	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
	"github.com/agentstation/ingest/pkg/rows"
)

// Result summarizes one pass over a table.
type Result struct {
	Rows []*rows.Row `json:"-" yaml:"-"`

	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	Matched   int `json:"matched" yaml:"matched"`
	Created   int `json:"created" yaml:"created"`
	Malformed int `json:"malformed" yaml:"malformed"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// AllSucceeded reports whether no record failed.
func (r *Result) AllSucceeded() bool {
	return r.Failed == 0
}

// Failures returns the rows that finished unsuccessfully, in table order.
func (r *Result) Failures() []*rows.Row {
	var failed []*rows.Row
	for _, row := range r.Rows {
		if row.Done() && !row.Success() {
			failed = append(failed, row)
		}
	}
	return failed
}

// Orchestrator drives rows through resolution and creation one at a time.
type Orchestrator struct {
	resolver Resolver
	creator  Creator
	progress func(done, total int)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress is called after each record reaches Done.
func WithProgress(fn func(done, total int)) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(resolver Resolver, creator Creator, opts ...Option) *Orchestrator {
	o := &Orchestrator{resolver: resolver, creator: creator}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ForSession wires the InterLex resolver and creator to one session.
func ForSession(svc Service, opts ...Option) *Orchestrator {
	return NewOrchestrator(NewResolver(svc), NewCreator(svc), opts...)
}

// Process gives every record an outcome. Row failures are recorded on the
// row and never stop the pass.
func (o *Orchestrator) Process(ctx context.Context, all []*rows.Row) *Result {
	start := time.Now()
	res := &Result{Rows: all}

	for _, row := range all {
		res.Total++

		rowCtx := logging.WithRow(ctx, row.Line(), row.Label())
		log := logging.FromContext(rowCtx)

		if err := row.Invalid(); err != nil {
			res.Malformed++
			log.Debug().Err(err).Msg("Row failed validation")
		} else {
			switch o.processRow(rowCtx, row) {
			case rows.Found:
				res.Matched++
			case rows.Creating:
				if row.Success() {
					res.Created++
				}
			}
		}

		if row.Success() {
			res.Succeeded++
		} else {
			res.Failed++
			log.Debug().Str("error", row.ErrorMessage()).Msg("Row failed")
		}
		if o.progress != nil {
			o.progress(res.Total, len(all))
		}
	}

	res.Duration = time.Since(start)
	return res
}

// processRow runs one valid row to Done and returns the branch it took.
func (o *Orchestrator) processRow(ctx context.Context, row *rows.Row) rows.State {
	log := logging.FromContext(ctx)

	row.Enter(rows.Resolving)
	log.Debug().Stringer("state", row.State()).Msg("Resolving")

	match, err := o.resolver.Resolve(ctx, row)
	if err != nil {
		if !errors.IsRowLevel(err) {
			err = errors.NewLookupError(row.Label(), row.Curie(), err)
		}
		o.fail(ctx, row, err)
		return rows.Resolving
	}

	if match.Found {
		row.Enter(rows.Found)
		row.Succeed(match.Fragment, match.IRI)
		log.Debug().Str("fragment", match.Fragment).Msg("Already in InterLex")
		return rows.Found
	}

	row.Enter(rows.Creating)
	log.Debug().Stringer("state", row.State()).Msg("Creating")

	created, err := o.creator.Create(ctx, row)
	if err != nil {
		if !errors.IsRowLevel(err) {
			err = errors.NewCreationError(row.Label(), "", err)
		}
		o.fail(ctx, row, err)
		return rows.Creating
	}
	row.Succeed(created.Fragment, created.IRI)
	log.Debug().Str("fragment", created.Fragment).Msg("Created")
	return rows.Creating
}

func (o *Orchestrator) fail(ctx context.Context, row *rows.Row, err error) {
	if errors.IsRateLimited(err) {
		logging.FromContext(ctx).Warn().Err(err).Msg("InterLex rate limit reached")
	}
	row.Fail(err)
}
