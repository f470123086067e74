package ingest

import (
	"context"

	"github.com/agentstation/ingest/internal/table"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
)

// Run reads t, processes every row and writes t back once. Reading errors
// abort before any row is processed. A write error is returned together
// with the result so completed work is still reported.
//
// Processing and writing ignore cancellation of ctx; a started run always
// finishes and writes its output.
func Run(ctx context.Context, t table.Table, o *Orchestrator) (*Result, error) {
	adapter, target := t.Describe()
	ctx = logging.WithAdapter(ctx, adapter, target)
	log := logging.FromContext(ctx)

	all, err := t.Read(logging.WithOperation(ctx, "read"))
	if err != nil {
		return nil, errors.WrapAdapter(adapter, "read", target, err)
	}
	log.Info().Int("rows", len(all)).Msg("Table read")

	runCtx := context.WithoutCancel(ctx)
	res := o.Process(logging.WithOperation(runCtx, "process"), all)

	if err := t.Write(logging.WithOperation(runCtx, "write"), all); err != nil {
		var adapterErr *errors.AdapterError
		if !errors.As(err, &adapterErr) {
			adapterErr = errors.NewAdapterError(adapter, "write", target, err)
		}
		adapterErr.Completed = res.Total
		return res, adapterErr
	}

	log.Info().
		Int("total", res.Total).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int("matched", res.Matched).
		Int("created", res.Created).
		Int("malformed", res.Malformed).
		Dur("duration", res.Duration).
		Msg("Ingestion finished")
	return res, nil
}
