package ingest_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentstation/ingest/internal/interlex"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/ingest"
	"github.com/agentstation/ingest/pkg/rows"
)

const iriBase = "http://uri.interlex.org/base/"

// fakeService is an in-memory ingest.Service.
type fakeService struct {
	user      interlex.User
	byCurie   map[string]*interlex.Entity
	byILX     map[string]*interlex.Entity
	byLabel   map[string][]interlex.Entity
	prefixes  map[string]string
	addResult *interlex.Entity
	addErr    error
	lookupErr error

	added []interlex.NewEntity
}

func newFakeService() *fakeService {
	return &fakeService{
		user:     interlex.User{ID: "32290", FirstName: "Troy", LastName: "Sincomb"},
		byCurie:  map[string]*interlex.Entity{},
		byILX:    map[string]*interlex.Entity{},
		byLabel:  map[string][]interlex.Entity{},
		prefixes: map[string]string{"UBERON": "http://purl.obolibrary.org/obo/UBERON_"},
	}
}

func (f *fakeService) User() interlex.User   { return f.user }
func (f *fakeService) IRI(ilx string) string { return iriBase + ilx }

func (f *fakeService) ExpandCurie(curie string) (string, bool) {
	prefix, id, ok := strings.Cut(curie, ":")
	if !ok {
		return "", false
	}
	ns, ok := f.prefixes[prefix]
	return ns + id, ok
}

func (f *fakeService) EntityByCurie(_ context.Context, curie string) (*interlex.Entity, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byCurie[curie], nil
}

func (f *fakeService) EntityByILX(_ context.Context, ref string) (*interlex.Entity, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byILX[interlex.ILXFromFragment(ref)], nil
}

func (f *fakeService) EntitiesByLabel(_ context.Context, label string, uid interlex.ID) ([]interlex.Entity, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []interlex.Entity
	for _, e := range f.byLabel[label] {
		if e.OwnerID() == uid {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeService) AddEntity(_ context.Context, e interlex.NewEntity) (*interlex.Entity, error) {
	f.added = append(f.added, e)
	if f.addErr != nil {
		return nil, f.addErr
	}
	if f.addResult != nil {
		return f.addResult, nil
	}
	return &interlex.Entity{ID: "1", ILX: "ilx_0101431", Label: e.Label, OrigUID: f.user.ID}, nil
}

// countingResolver records calls and answers from fixed tables keyed by label.
type countingResolver struct {
	calls   []string
	matches map[string]ingest.Match
	errs    map[string]error
}

func (r *countingResolver) Resolve(_ context.Context, row *rows.Row) (ingest.Match, error) {
	r.calls = append(r.calls, row.Label())
	if err := r.errs[row.Label()]; err != nil {
		return ingest.Match{}, err
	}
	return r.matches[row.Label()], nil
}

// countingCreator records calls and mints sequential identifiers.
type countingCreator struct {
	calls []string
	errs  map[string]error
}

func (c *countingCreator) Create(_ context.Context, row *rows.Row) (ingest.Created, error) {
	c.calls = append(c.calls, row.Label())
	if err := c.errs[row.Label()]; err != nil {
		return ingest.Created{}, err
	}
	ilx := fmt.Sprintf("ilx_%07d", len(c.calls))
	return ingest.Created{Fragment: interlex.Fragment(ilx), IRI: iriBase + ilx}, nil
}

// memTable is an in-memory table.Table.
type memTable struct {
	records  [][]string
	readErr  error
	writeErr error
	written  [][]string
	writes   int
}

func (m *memTable) Describe() (string, string) { return "memory", "test" }

func (m *memTable) Read(context.Context) ([]*rows.Row, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	_, parsed, err := rows.ParseRecords(m.records)
	return parsed, err
}

func (m *memTable) Write(_ context.Context, processed []*rows.Row) error {
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	header, _ := rows.CheckHeader(m.records[0])
	m.written = rows.Merge(rows.OutputHeader(header, processed), processed)
	return nil
}

var errBoom = errors.New("boom")

// cancellingResolver cancels the run context on first use and fails if a
// later call sees the cancellation.
type cancellingResolver struct {
	cancel context.CancelFunc
}

func (r *cancellingResolver) Resolve(ctx context.Context, _ *rows.Row) (ingest.Match, error) {
	r.cancel()
	return ingest.Match{}, ctx.Err()
}
