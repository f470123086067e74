package ingest

import (
	"context"

	"github.com/agentstation/ingest/internal/interlex"
)

// Unavailable stands in for a session that could not be opened. Every
// lookup and submission fails with Err, so each row is recorded as a
// lookup failure and the table is still written.
type Unavailable struct {
	Err error
}

var _ Service = Unavailable{}

func (u Unavailable) User() interlex.User { return interlex.User{} }

func (u Unavailable) IRI(string) string { return "" }

func (u Unavailable) ExpandCurie(string) (string, bool) { return "", false }

func (u Unavailable) EntityByCurie(context.Context, string) (*interlex.Entity, error) {
	return nil, u.Err
}

func (u Unavailable) EntityByILX(context.Context, string) (*interlex.Entity, error) {
	return nil, u.Err
}

func (u Unavailable) EntitiesByLabel(context.Context, string, interlex.ID) ([]interlex.Entity, error) {
	return nil, u.Err
}

func (u Unavailable) AddEntity(context.Context, interlex.NewEntity) (*interlex.Entity, error) {
	return nil, u.Err
}

// Close is a no-op.
func (u Unavailable) Close() error { return nil }
