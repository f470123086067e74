package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agentstation/ingest/pkg/ingest"
)

// Summary is the end-of-run report.
type Summary struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Adapter   string    `json:"adapter" yaml:"adapter"`
	Target    string    `json:"target" yaml:"target"`
	Output    string    `json:"output,omitempty" yaml:"output,omitempty"`
	Total     int       `json:"total" yaml:"total"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Failed    int       `json:"failed" yaml:"failed"`
	Matched   int       `json:"matched" yaml:"matched"`
	Created   int       `json:"created" yaml:"created"`
	Malformed int       `json:"malformed" yaml:"malformed"`
	Duration  string    `json:"duration" yaml:"duration"`
	Failures  []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Failure is one unsuccessful row.
type Failure struct {
	Line  int    `json:"line" yaml:"line"`
	Label string `json:"label" yaml:"label"`
	Error string `json:"error" yaml:"error"`
}

// NewSummary builds a Summary from a finished run.
func NewSummary(runID, adapter, target string, res *ingest.Result) Summary {
	s := Summary{RunID: runID, Adapter: adapter, Target: target}
	if res == nil {
		return s
	}
	s.Total = res.Total
	s.Succeeded = res.Succeeded
	s.Failed = res.Failed
	s.Matched = res.Matched
	s.Created = res.Created
	s.Malformed = res.Malformed
	s.Duration = res.Duration.Round(1e6).String()
	for _, r := range res.Failures() {
		s.Failures = append(s.Failures, Failure{Line: r.Line(), Label: r.Label(), Error: r.ErrorMessage()})
	}
	return s
}

// Line is the one-line summary printed when no report format is requested.
func (s Summary) Line() string {
	return fmt.Sprintf("%d rows: %d succeeded (%d matched, %d created), %d failed (%d malformed)",
		s.Total, s.Succeeded, s.Matched, s.Created, s.Failed, s.Malformed)
}

// CountsToTableData renders the counters as a two-column table.
func CountsToTableData(s Summary) Data {
	data := Data{
		Headers:         []string{"Result", "Rows"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	for _, c := range []struct {
		name  string
		count int
	}{
		{"Total", s.Total},
		{"Succeeded", s.Succeeded},
		{"Matched", s.Matched},
		{"Created", s.Created},
		{"Failed", s.Failed},
		{"Malformed", s.Malformed},
	} {
		data.Rows = append(data.Rows, []string{c.name, strconv.Itoa(c.count)})
	}
	return data
}

func (f *TableFormatter) formatSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(w, "%s %s (run %s, %s)\n", s.Adapter, s.Target, s.RunID, s.Duration); err != nil {
		return err
	}
	if err := f.formatTable(w, CountsToTableData(s)); err != nil {
		return err
	}
	if len(s.Failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return f.formatTable(w, StructsToTableData(s.Failures))
}
