// Package rows holds the in-memory model of one ingestion record.
//
// A Row is built from one table line by Parse, which validates it exactly
// once. Input fields are read-only; only the four output fields change, and
// only through Succeed and Fail.
package rows

import (
	"fmt"
	"strings"

	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
)

// Row is one ingestion unit plus its result.
type Row struct {
	line  int
	cells []string
	blank bool

	label      string
	typ        Type
	synonyms   []string
	definition string
	comment    string
	superclass string
	curie      string
	preferred  bool

	invalid *errors.MalformedRowError

	state    State
	fragment string
	iri      string
	success  bool
	errText  string
}

// Parse builds a row from the cells of one table line. Line is the 1-based
// line in the source table, header included. Validation failures are kept
// on the row, which is then already Done and failed.
func Parse(line int, header HeaderIndex, cells []string) *Row {
	r := &Row{
		line:  line,
		cells: append([]string(nil), cells...),
	}

	get := func(column string) string {
		pos := header.Position(column)
		if pos < 0 || pos >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[pos])
	}

	r.blank = true
	for i, cell := range cells {
		if i < header.Width() && isOutputColumn(header.names[i]) {
			continue
		}
		if strings.TrimSpace(cell) != "" {
			r.blank = false
			break
		}
	}
	if r.blank {
		r.invalid = &errors.MalformedRowError{Line: line, Message: "row is blank"}
		r.Fail(r.invalid)
		return r
	}

	r.label = get(ColumnLabel)
	r.synonyms = SplitSynonyms(get(ColumnSynonyms))
	r.definition = get(ColumnDefinition)
	r.comment = get(ColumnComment)
	r.superclass = get(ColumnSuperclass)
	r.curie = get(ColumnCurie)

	r.invalid = r.validate(get(ColumnType), get(ColumnPreferred))
	if r.invalid != nil {
		r.Fail(r.invalid)
	}
	return r
}

func (r *Row) validate(typeToken, preferredToken string) *errors.MalformedRowError {
	if r.label == "" {
		return errors.NewMalformedRowError(r.line, ColumnLabel, "", "is required")
	}
	if typeToken == "" {
		return errors.NewMalformedRowError(r.line, ColumnType, "", "is required")
	}
	t, ok := ParseType(typeToken)
	if !ok {
		return errors.NewMalformedRowError(r.line, ColumnType, typeToken,
			fmt.Sprintf("%q is not one of term, term-set, personal-data-element, common-data-element, annotation, relationship", typeToken))
	}
	r.typ = t

	preferred, ok := ParsePreferred(preferredToken)
	if !ok {
		return errors.NewMalformedRowError(r.line, ColumnPreferred, preferredToken,
			fmt.Sprintf("%q is not a boolean flag (T/F)", preferredToken))
	}
	r.preferred = preferred
	return nil
}

// SplitSynonyms splits a comma-delimited cell, trimming entries and dropping empty ones.
func SplitSynonyms(cell string) []string {
	var out []string
	for _, s := range strings.Split(cell, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Line is the 1-based line of the row in its source table.
func (r *Row) Line() int { return r.line }

// Cells returns a copy of the raw input cells.
func (r *Row) Cells() []string { return append([]string(nil), r.cells...) }

// Blank reports whether every non-output cell is empty. Blank rows fail validation.
func (r *Row) Blank() bool { return r.blank }

// Invalid returns the validation failure, if any.
func (r *Row) Invalid() error {
	if r.invalid == nil {
		return nil
	}
	return r.invalid
}

func (r *Row) Label() string      { return r.label }
func (r *Row) Type() Type         { return r.typ }
func (r *Row) Definition() string { return r.definition }
func (r *Row) Comment() string    { return r.comment }
func (r *Row) Superclass() string { return r.superclass }
func (r *Row) Curie() string      { return r.curie }
func (r *Row) Preferred() bool    { return r.preferred }

// Synonyms returns a copy of the synonym list.
func (r *Row) Synonyms() []string { return append([]string(nil), r.synonyms...) }

// State returns the current state of the row.
func (r *Row) State() State { return r.state }

// Enter moves the row to s. Illegal transitions and moves out of Done are ignored
// and reported as false.
func (r *Row) Enter(s State) bool {
	if !canMove(r.state, s) {
		return false
	}
	r.state = s
	return true
}

// Succeed records the identifiers of a found or created entity. A missing
// identifier is recorded as a failure instead.
func (r *Row) Succeed(fragment, iri string) {
	if r.state == Done {
		return
	}
	if fragment == "" || iri == "" {
		r.Fail(errors.New("InterLex returned an entity without an identifier"))
		return
	}
	r.fragment, r.iri = fragment, iri
	r.success = true
	r.errText = ""
	r.state = Done
}

// Fail records err as the row outcome.
func (r *Row) Fail(err error) {
	if r.state == Done {
		return
	}
	if err == nil {
		err = errors.New("unknown failure")
	}
	r.fragment, r.iri = "", ""
	r.success = false
	r.errText = err.Error()
	r.state = Done
}

// Done reports whether the row has an outcome.
func (r *Row) Done() bool { return r.state == Done }

func (r *Row) Fragment() string { return r.fragment }
func (r *Row) IRI() string      { return r.iri }
func (r *Row) Success() bool    { return r.success }

// ErrorMessage returns the failure message, empty on success.
func (r *Row) ErrorMessage() string { return r.errText }

// Outputs returns the output cells in OutputColumns order.
func (r *Row) Outputs() []string {
	success := constants.FalseToken
	if r.success {
		success = constants.TrueToken
	}
	return []string{r.fragment, r.iri, success, r.errText}
}

func isOutputColumn(name string) bool {
	switch canonicalColumn(name) {
	case ColumnFragment, ColumnIRI, ColumnSuccess, ColumnError:
		return true
	}
	return false
}
