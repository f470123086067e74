package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/ingest"
	"github.com/agentstation/ingest/pkg/rows"
)

func sampleResult(t *testing.T) *ingest.Result {
	t.Helper()
	header, parsed, err := rows.ParseRecords([][]string{
		{"label", "type"},
		{"Brain", "term"},
		{"Cortex", "term"},
		{"", ""},
		{"Widget", "gadget"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, header.Width())

	parsed[0].Succeed("ILX:0101431", "http://uri.interlex.org/base/ilx_0101431")
	parsed[1].Fail(errors.NewConflictError("Cortex", "Jane Doe", "http://uri.interlex.org/base/ilx_0101432"))

	return &ingest.Result{
		Rows:      parsed,
		Total:     4,
		Succeeded: 1,
		Failed:    3,
		Created:   1,
		Malformed: 2,
		Duration:  1500 * time.Millisecond,
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary("run-1", "csv", "in.csv", sampleResult(t))

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, "1.5s", s.Duration)
	require.Len(t, s.Failures, 3)
	assert.Equal(t, Failure{Line: 3, Label: "Cortex",
		Error: "Label [Cortex] already added by User [Jane Doe] With InterLex ID [http://uri.interlex.org/base/ilx_0101432]"}, s.Failures[0])
	assert.Equal(t, Failure{Line: 4, Error: "malformed row: row is blank"}, s.Failures[1])
	assert.Equal(t, 5, s.Failures[2].Line)
	assert.Equal(t, "4 rows: 1 succeeded (0 matched, 1 created), 3 failed (2 malformed)", s.Line())

	empty := NewSummary("run-2", "sheet", "terms/Sheet1", nil)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Failures)
}

func TestFormatters(t *testing.T) {
	s := NewSummary("run-1", "csv", "in.csv", sampleResult(t))

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatJSON).Format(&buf, s))

		var decoded Summary
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, s, decoded)
		assert.Contains(t, buf.String(), `"run_id": "run-1"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatYAML).Format(&buf, s))

		var decoded Summary
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, s.Failures, decoded.Failures)
		assert.Contains(t, buf.String(), "run_id: run-1")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, &s))

		out := buf.String()
		assert.Contains(t, out, "csv in.csv (run run-1, 1.5s)")
		assert.Contains(t, out, "Succeeded")
		assert.Contains(t, out, "Cortex")
		assert.Contains(t, out, "gadget")
	})

	t.Run("table without failures", func(t *testing.T) {
		var buf bytes.Buffer
		clean := s
		clean.Failures = nil
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, clean))
		assert.NotContains(t, strings.ToLower(buf.String()), "label")
	})

	t.Run("unknown format falls back to table", func(t *testing.T) {
		_, ok := NewFormatter("xml").(*TableFormatter)
		assert.True(t, ok)
	})
}

func TestStructsToTableData(t *testing.T) {
	type entry struct {
		RunID  string `json:"run_id"`
		Count  int
		hidden string
		Skip   string `json:"-"`
	}

	t.Run("slice of structs", func(t *testing.T) {
		data := StructsToTableData([]entry{{"a", 1, "x", "y"}, {"b", 22, "x", "y"}})
		assert.Equal(t, []string{"Run Id", "Count"}, data.Headers)
		assert.Equal(t, []Align{AlignLeft, AlignRight}, data.ColumnAlignment)
		assert.Equal(t, [][]string{{"a", "1"}, {"b", "22"}}, data.Rows)
	})

	t.Run("failures", func(t *testing.T) {
		data := StructsToTableData([]Failure{{Line: 4, Label: "Cortex", Error: "boom"}})
		assert.Equal(t, []string{"Line", "Label", "Error"}, data.Headers)
		assert.Equal(t, [][]string{{"4", "Cortex", "boom"}}, data.Rows)
	})

	t.Run("not a struct slice", func(t *testing.T) {
		assert.Empty(t, StructsToTableData(entry{}).Headers)
		assert.Empty(t, StructsToTableData([]string{"a"}).Headers)
	})

	t.Run("table formatter falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"total": 3}))
		assert.Contains(t, buf.String(), `"total": 3`)
	})
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatYAML, DetectFormat("YAML", &buf))
	assert.Equal(t, Format(""), DetectFormat("", &buf))

	f, err := os.Create(filepath.Join(t.TempDir(), "summary.json"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, FormatJSON, DetectFormat("", f))
	assert.Equal(t, FormatTable, DetectFormat("table", f))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Run Id", title("run_id,omitempty"))
	assert.Equal(t, "Total", title("total"))
}
