package rows_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/rows"
)

func TestParseRecords(t *testing.T) {
	t.Run("numbers lines from the header", func(t *testing.T) {
		records := [][]string{
			{"label", "type"},
			{"Brain", "term"},
			{"", ""},
			{"", "term"},
		}
		_, parsed, err := rows.ParseRecords(records)
		require.NoError(t, err)
		require.Len(t, parsed, 3)
		assert.Equal(t, 2, parsed[0].Line())
		assert.True(t, parsed[1].Blank())
		assert.Error(t, parsed[1].Invalid())
		assert.Error(t, parsed[2].Invalid())
		assert.Equal(t, 4, parsed[2].Line())
	})

	t.Run("empty table", func(t *testing.T) {
		_, _, err := rows.ParseRecords(nil)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestMerge(t *testing.T) {
	records := [][]string{
		{"label", "type", "notes"},
		{"Brain", "term", "keep me"},
		{"", "", ""},
		{"Cortex", "widget"},
	}
	idx, parsed, err := rows.ParseRecords(records)
	require.NoError(t, err)
	parsed[0].Succeed("ILX:0101431", "http://uri.interlex.org/base/ilx_0101431")

	out := rows.Merge(idx.WithOutputColumns(), parsed)

	assert.Equal(t, [][]string{
		{"label", "type", "notes", "InterLex Fragment", "InterLex IRI", "success", "error"},
		{"Brain", "term", "keep me", "ILX:0101431", "http://uri.interlex.org/base/ilx_0101431", "T", ""},
		{"", "", "", "", "", "F", "malformed row: row is blank"},
		{"Cortex", "widget", "", "", "", "F", parsed[2].ErrorMessage()},
	}, out)
}

func TestMergeOverwritesExistingOutputs(t *testing.T) {
	records := [][]string{
		{"label", "type", "success", "error", "InterLex Fragment", "InterLex IRI"},
		{"Brain", "term", "F", "old failure", "", ""},
	}
	idx, parsed, err := rows.ParseRecords(records)
	require.NoError(t, err)
	parsed[0].Succeed("ILX:0101431", "http://uri.interlex.org/base/ilx_0101431")

	out := rows.Merge(idx.WithOutputColumns(), parsed)
	assert.Equal(t, []string{"Brain", "term", "T", "", "ILX:0101431", "http://uri.interlex.org/base/ilx_0101431"}, out[1])
	assert.Len(t, out[0], 6)
}

func TestOutputHeader(t *testing.T) {
	t.Run("appends after the widest record", func(t *testing.T) {
		idx, parsed, err := rows.ParseRecords([][]string{
			{"label", "type"},
			{"Brain", "term", "note-a", "note-b"},
			{"Cortex", "term"},
		})
		require.NoError(t, err)
		parsed[0].Succeed("ILX:1", "http://x/ilx_1")

		header := rows.OutputHeader(idx, parsed)
		assert.Equal(t, []string{"label", "type", "", "", "InterLex Fragment", "InterLex IRI", "success", "error"}, header.Names())

		out := rows.Merge(header, parsed)
		assert.Equal(t, []string{"Brain", "term", "note-a", "note-b", "ILX:1", "http://x/ilx_1", "T", ""}, out[1])
		assert.Equal(t, []string{"Cortex", "term", "", "", "", "", "", ""}, out[2])
	})

	t.Run("existing output columns stay in place", func(t *testing.T) {
		idx, parsed, err := rows.ParseRecords([][]string{
			{"label", "type", "InterLex Fragment", "InterLex IRI", "success", "error"},
			{"Brain", "term", "", "", "F", "old", "note"},
		})
		require.NoError(t, err)

		header := rows.OutputHeader(idx, parsed)
		assert.Equal(t, idx.Names(), header.Names())
		assert.Equal(t, 4, header.Position(rows.ColumnSuccess))
	})
}
