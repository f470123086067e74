package interlex

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/agentstation/ingest/pkg/errors"
)

// ID holds a SciCrunch identifier, which the API sends as either a JSON
// string or a number.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// User is the account that owns the API key.
type User struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// Name is the display name used in conflict messages.
func (u User) Name() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.ID != "" {
		return "uid " + string(u.ID)
	}
	return name
}

// Entity is an InterLex record as returned by the search and add endpoints.
type Entity struct {
	ID         ID     `json:"id"`
	ILX        string `json:"ilx"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Definition string `json:"definition,omitempty"`
	UID        ID     `json:"uid"`
	OrigUID    ID     `json:"orig_uid"`
	Owner      *User  `json:"user,omitempty"`
}

// Exists reports whether the record carries an InterLex identifier.
func (e *Entity) Exists() bool {
	return e != nil && e.ILX != ""
}

// OwnerID is the submitter of the entity.
func (e *Entity) OwnerID() ID {
	if e.OrigUID != "" {
		return e.OrigUID
	}
	return e.UID
}

// OwnerName returns the submitter's display name when the service sent it.
func (e *Entity) OwnerName() string {
	if e.Owner != nil {
		if name := e.Owner.Name(); name != "" {
			return name
		}
	}
	if id := e.OwnerID(); id != "" {
		return "uid " + string(id)
	}
	return "unknown"
}

// Fragment converts "ilx_0101431" into "ILX:0101431".
func Fragment(ilx string) string {
	prefix, id, ok := strings.Cut(ilx, "_")
	if !ok {
		return ilx
	}
	return strings.ToUpper(prefix) + ":" + id
}

// ILXFromFragment converts "ILX:0101431" or "ilx_0101431" into "ilx_0101431".
func ILXFromFragment(ref string) string {
	if prefix, id, ok := strings.Cut(ref, ":"); ok {
		return strings.ToLower(prefix) + "_" + id
	}
	return ref
}

// IsFragment reports whether ref names an InterLex identifier rather than an external curie.
func IsFragment(ref string) bool {
	for _, prefix := range []string{"ILX:", "TMP:", "ilx_", "tmp_"} {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

// ExistingID links an entity to an identifier in another ontology.
type ExistingID struct {
	IRI       string `json:"iri"`
	Curie     string `json:"curie"`
	Preferred string `json:"preferred"`
}

// Synonym is an alternate label.
type Synonym struct {
	Literal string `json:"literal"`
}

// Superclass references the parent entity by its InterLex record id.
type Superclass struct {
	ID ID `json:"id"`
}

// NewEntity is the body of a term/add request.
type NewEntity struct {
	Label        string       `json:"label"`
	Type         string       `json:"type"`
	Definition   string       `json:"definition,omitempty"`
	Comment      string       `json:"comment,omitempty"`
	Synonyms     []Synonym    `json:"synonyms,omitempty"`
	Superclasses []Superclass `json:"superclasses,omitempty"`
	ExistingIDs  []ExistingID `json:"existing_ids,omitempty"`
	Key          string       `json:"key,omitempty"`
}

// envelope wraps every SciCrunch response.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	ErrorMsg string          `json:"errormsg"`
	Success  *bool           `json:"success,omitempty"`
}

// CuriePrefix maps a curie prefix onto its namespace IRI.
type CuriePrefix struct {
	Prefix    string `json:"prefix"`
	Namespace string `json:"namespace"`
}

// ConflictError reports that term/add found an existing entity with the label.
type ConflictError struct {
	Existing Entity
	Message  string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "entity " + e.Existing.ILX + " already exists"
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == errors.ErrAlreadyExists
}

// RejectedError carries the service message for a refused request.
type RejectedError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *RejectedError) Error() string {
	return e.Message
}

// Unwrap implements errors.Unwrap
func (e *RejectedError) Unwrap() error {
	return e.Err
}
