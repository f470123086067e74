// Package ingest reconciles table rows against InterLex.
//
// A Resolver looks for an entity the submitter already owns, a Creator adds
// the ones that are missing, and an Orchestrator drives every row through
// both strictly in order, recording each outcome on the row itself.
package ingest

import (
	"context"

	"github.com/agentstation/ingest/internal/interlex"
)

// Service is the part of an InterLex session that ingestion uses.
// *interlex.Session implements it.
type Service interface {
	User() interlex.User
	IRI(ilx string) string
	ExpandCurie(curie string) (string, bool)
	EntityByCurie(ctx context.Context, curie string) (*interlex.Entity, error)
	EntityByILX(ctx context.Context, ref string) (*interlex.Entity, error)
	EntitiesByLabel(ctx context.Context, label string, uid interlex.ID) ([]interlex.Entity, error)
	AddEntity(ctx context.Context, entity interlex.NewEntity) (*interlex.Entity, error)
}

var _ Service = (*interlex.Session)(nil)
