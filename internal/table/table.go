// Package table reads and writes ingestion tables.
//
// Every backend loads the whole table into rows.Row values and writes it back
// in one pass after processing, so a run that fails halfway leaves the
// destination untouched and a completed run always writes every row.
package table

import (
	"context"

	"github.com/agentstation/ingest/pkg/rows"
)

// Table is a source of rows that can store them back after processing.
type Table interface {
	// Read loads and parses every row. A missing or unreadable table, or a
	// header without the required columns, is an error.
	Read(ctx context.Context) ([]*rows.Row, error)

	// Write stores rows in their original order with the output columns filled.
	Write(ctx context.Context, processed []*rows.Row) error

	// Describe names the adapter and its target for logs and errors.
	Describe() (adapter, target string)
}

// grid holds the header of a table that has been read, so writes reuse it.
type grid struct {
	header rows.HeaderIndex
	read   bool
}

func (g *grid) load(records [][]string) ([]*rows.Row, error) {
	header, parsed, err := rows.ParseRecords(records)
	if err != nil {
		return nil, err
	}
	g.header = header
	g.read = true
	return parsed, nil
}

// render merges processed rows under their output header.
func (g *grid) render(processed []*rows.Row) (rows.HeaderIndex, [][]string) {
	header := rows.OutputHeader(g.header, processed)
	return header, rows.Merge(header, processed)
}
