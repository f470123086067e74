package rows

import (
	"sort"
	"strings"

	"github.com/agentstation/ingest/pkg/errors"
)

// Input column names.
const (
	ColumnLabel      = "label"
	ColumnType       = "type"
	ColumnSynonyms   = "synonyms"
	ColumnDefinition = "definition"
	ColumnComment    = "comment"
	ColumnSuperclass = "superclass"
	ColumnCurie      = "curie"
	ColumnPreferred  = "preferred"
)

// Output column names.
const (
	ColumnFragment = "InterLex Fragment"
	ColumnIRI      = "InterLex IRI"
	ColumnSuccess  = "success"
	ColumnError    = "error"
)

// Columns is the input schema in canonical order.
var Columns = []string{
	ColumnLabel,
	ColumnType,
	ColumnSynonyms,
	ColumnDefinition,
	ColumnComment,
	ColumnSuperclass,
	ColumnCurie,
	ColumnPreferred,
}

// OutputColumns are written back after processing, in this order.
var OutputColumns = []string{
	ColumnFragment,
	ColumnIRI,
	ColumnSuccess,
	ColumnError,
}

// RequiredColumns must be present in every input header.
var RequiredColumns = []string{ColumnLabel, ColumnType}

// Type is the InterLex entity category of a row.
type Type string

// Entity types as sent to InterLex.
const (
	TypeTerm         Type = "term"
	TypeTermSet      Type = "TermSet"
	TypePDE          Type = "pde"
	TypeCDE          Type = "cde"
	TypeAnnotation   Type = "annotation"
	TypeRelationship Type = "relationship"
)

var typeTokens = map[string]Type{
	"term":                  TypeTerm,
	"term-set":              TypeTermSet,
	"termset":               TypeTermSet,
	"personal-data-element": TypePDE,
	"pde":                   TypePDE,
	"common-data-element":   TypeCDE,
	"cde":                   TypeCDE,
	"annotation":            TypeAnnotation,
	"relationship":          TypeRelationship,
}

// ParseType maps an input token to its entity type. Matching ignores case.
func ParseType(token string) (Type, bool) {
	t, ok := typeTokens[strings.ToLower(strings.TrimSpace(token))]
	return t, ok
}

// String returns the wire value.
func (t Type) String() string {
	return string(t)
}

// ParsePreferred reads a truthy flag. Empty means false.
func ParsePreferred(token string) (value bool, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "T", "TRUE", "1", "Y", "YES":
		return true, true
	case "", "F", "FALSE", "0", "N", "NO":
		return false, true
	}
	return false, false
}

// HeaderIndex maps known column names to their positions in a table header.
type HeaderIndex struct {
	names    []string
	position map[string]int
}

// Names returns a copy of the header as read.
func (h HeaderIndex) Names() []string {
	return append([]string(nil), h.names...)
}

// Width is the number of header cells.
func (h HeaderIndex) Width() int {
	return len(h.names)
}

// Position returns the index of a known column, or -1 when absent.
func (h HeaderIndex) Position(column string) int {
	if pos, ok := h.position[column]; ok {
		return pos
	}
	return -1
}

// Has reports whether the header contains column.
func (h HeaderIndex) Has(column string) bool {
	return h.Position(column) >= 0
}

// Extra returns header cells that are not part of the input or output schema.
func (h HeaderIndex) Extra() []string {
	var extra []string
	for i, name := range h.names {
		if canonicalColumn(name) == "" && strings.TrimSpace(name) != "" {
			extra = append(extra, h.names[i])
		}
	}
	return extra
}

// WithOutputColumns returns the header extended by any output column it lacks,
// appended in OutputColumns order.
func (h HeaderIndex) WithOutputColumns() HeaderIndex {
	names := h.Names()
	for _, col := range OutputColumns {
		if !h.Has(col) {
			names = append(names, col)
		}
	}
	idx, _ := indexHeader(names)
	return idx
}

// CheckHeader indexes a header row. Missing required columns and duplicated
// schema columns are reported together in a *errors.HeaderError.
func CheckHeader(header []string) (HeaderIndex, error) {
	idx, duplicated := indexHeader(header)

	var missing []string
	for _, col := range RequiredColumns {
		if !idx.Has(col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 || len(duplicated) > 0 {
		sort.Strings(missing)
		sort.Strings(duplicated)
		return idx, &errors.HeaderError{Missing: missing, Duplicated: duplicated}
	}
	return idx, nil
}

func indexHeader(header []string) (HeaderIndex, []string) {
	idx := HeaderIndex{
		names:    append([]string(nil), header...),
		position: make(map[string]int, len(header)),
	}
	var duplicated []string
	for i, name := range header {
		col := canonicalColumn(name)
		if col == "" {
			continue
		}
		if _, seen := idx.position[col]; seen {
			duplicated = append(duplicated, col)
			continue
		}
		idx.position[col] = i
	}
	return idx, duplicated
}

// canonicalColumn matches a header cell against the schema ignoring case and
// surrounding space. Unknown names yield "".
func canonicalColumn(name string) string {
	name = strings.TrimSpace(name)
	for _, col := range Columns {
		if strings.EqualFold(name, col) {
			return col
		}
	}
	for _, col := range OutputColumns {
		if strings.EqualFold(name, col) {
			return col
		}
	}
	return ""
}
