package ingest

import (
	"context"
	"fmt"

	"github.com/agentstation/ingest/internal/interlex"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/rows"
)

// Created identifies a newly added entity.
type Created struct {
	Fragment string
	IRI      string
}

// Creator adds an entity for a row that has no match.
type Creator interface {
	Create(ctx context.Context, row *rows.Row) (Created, error)
}

// EntityCreator submits rows to InterLex term/add.
type EntityCreator struct {
	svc Service
}

// NewCreator creates a creator over svc.
func NewCreator(svc Service) *EntityCreator {
	return &EntityCreator{svc: svc}
}

// Create checks the curie and then the superclass reference, then submits
// every field of the row in one request. All failures are *errors.CreationError.
func (c *EntityCreator) Create(ctx context.Context, row *rows.Row) (Created, error) {
	label := row.Label()
	req := interlex.NewEntity{
		Label:      label,
		Type:       row.Type().String(),
		Definition: row.Definition(),
		Comment:    row.Comment(),
	}
	for _, s := range row.Synonyms() {
		req.Synonyms = append(req.Synonyms, interlex.Synonym{Literal: s})
	}

	if curie := row.Curie(); curie != "" {
		iri, ok := c.svc.ExpandCurie(curie)
		if !ok {
			return Created{}, errors.NewCreationError(label, prefixMissing(curie), nil)
		}
		preferred := "0"
		if row.Preferred() {
			preferred = "1"
		}
		req.ExistingIDs = []interlex.ExistingID{{IRI: iri, Curie: curie, Preferred: preferred}}
	}

	if ref := row.Superclass(); ref != "" {
		if _, ok := c.svc.ExpandCurie(ref); !ok && !interlex.IsFragment(ref) {
			return Created{}, errors.NewCreationError(label, prefixMissing(ref), nil)
		}
		parent, err := c.superclass(ctx, ref)
		if err != nil {
			return Created{}, errors.NewCreationError(label, "", err)
		}
		if parent == nil {
			return Created{}, errors.NewCreationError(label,
				fmt.Sprintf("Superclass %s does not exist in InterLex.", ref), nil)
		}
		req.Superclasses = []interlex.Superclass{{ID: parent.ID}}
	}

	entity, err := c.svc.AddEntity(ctx, req)
	if err != nil {
		return c.failure(label, err)
	}
	return Created{
		Fragment: interlex.Fragment(entity.ILX),
		IRI:      c.svc.IRI(entity.ILX),
	}, nil
}

// superclass finds the parent entity by InterLex identifier or by curie.
func (c *EntityCreator) superclass(ctx context.Context, ref string) (*interlex.Entity, error) {
	if interlex.IsFragment(ref) {
		return c.svc.EntityByILX(ctx, ref)
	}
	return c.svc.EntityByCurie(ctx, ref)
}

func (c *EntityCreator) failure(label string, err error) (Created, error) {
	var conflict *interlex.ConflictError
	if errors.As(err, &conflict) {
		existing := conflict.Existing
		if existing.OwnerID() == c.svc.User().ID {
			return Created{Fragment: interlex.Fragment(existing.ILX), IRI: c.svc.IRI(existing.ILX)}, nil
		}
		return Created{}, errors.NewConflictError(label, existing.OwnerName(), c.svc.IRI(existing.ILX))
	}

	var rejected *interlex.RejectedError
	if errors.As(err, &rejected) {
		return Created{}, errors.NewCreationError(label, rejected.Message, rejected)
	}
	return Created{}, errors.NewCreationError(label, "", err)
}

func prefixMissing(curie string) string {
	return fmt.Sprintf("Curie %s does not have a prefix that exists in InterLex.", curie)
}
