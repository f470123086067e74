package ingest

import (
	"context"

	"github.com/agentstation/ingest/internal/interlex"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
	"github.com/agentstation/ingest/pkg/rows"
)

// Match is the outcome of a lookup. Fragment and IRI are set when Found.
type Match struct {
	Found    bool
	Fragment string
	IRI      string
}

// Resolver finds an existing entity for a row.
type Resolver interface {
	Resolve(ctx context.Context, row *rows.Row) (Match, error)
}

// EntityResolver matches rows against entities owned by the session user,
// first by curie and then by exact label.
type EntityResolver struct {
	svc Service
}

// NewResolver creates a resolver over svc.
func NewResolver(svc Service) *EntityResolver {
	return &EntityResolver{svc: svc}
}

// Resolve never modifies InterLex. Lookup faults are returned as
// *errors.LookupError.
func (r *EntityResolver) Resolve(ctx context.Context, row *rows.Row) (Match, error) {
	uid := r.svc.User().ID
	log := logging.FromContext(ctx)

	if curie := row.Curie(); curie != "" {
		entity, err := r.svc.EntityByCurie(ctx, curie)
		if err != nil {
			return Match{}, errors.NewLookupError(row.Label(), curie, err)
		}
		if entity.Exists() && entity.OwnerID() == uid {
			log.Debug().Str("curie", curie).Str("ilx", entity.ILX).Msg("Matched by curie")
			return r.match(entity), nil
		}
	}

	found, err := r.svc.EntitiesByLabel(ctx, row.Label(), uid)
	if err != nil {
		return Match{}, errors.NewLookupError(row.Label(), "", err)
	}
	for i := range found {
		if found[i].Label == row.Label() && found[i].OwnerID() == uid {
			log.Debug().Str("ilx", found[i].ILX).Msg("Matched by label")
			return r.match(&found[i]), nil
		}
	}
	return Match{}, nil
}

func (r *EntityResolver) match(entity *interlex.Entity) Match {
	return Match{
		Found:    true,
		Fragment: interlex.Fragment(entity.ILX),
		IRI:      r.svc.IRI(entity.ILX),
	}
}
