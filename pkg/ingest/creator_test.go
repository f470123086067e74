package ingest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ingest/internal/interlex"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/ingest"
)

func TestCreatorSubmitsEveryField(t *testing.T) {
	svc := newFakeService()
	svc.byILX["ilx_0108124"] = &interlex.Entity{ID: "42", ILX: "ilx_0108124"}

	created, err := ingest.NewCreator(svc).Create(context.Background(), row(t,
		"Brain", "TermSet", "Synganglion, Encephalon", "Central organ", "No retina",
		"ILX:0108124", "UBERON:0000062", "T"))
	require.NoError(t, err)
	assert.Equal(t, ingest.Created{Fragment: "ILX:0101431", IRI: "http://uri.interlex.org/base/ilx_0101431"}, created)

	require.Len(t, svc.added, 1)
	assert.Equal(t, interlex.NewEntity{
		Label:        "Brain",
		Type:         "TermSet",
		Definition:   "Central organ",
		Comment:      "No retina",
		Synonyms:     []interlex.Synonym{{Literal: "Synganglion"}, {Literal: "Encephalon"}},
		Superclasses: []interlex.Superclass{{ID: "42"}},
		ExistingIDs: []interlex.ExistingID{{
			IRI:       "http://purl.obolibrary.org/obo/UBERON_0000062",
			Curie:     "UBERON:0000062",
			Preferred: "1",
		}},
	}, svc.added[0])
}

func TestCreatorMinimalRow(t *testing.T) {
	svc := newFakeService()
	_, err := ingest.NewCreator(svc).Create(context.Background(), row(t, "Brain", "pde"))
	require.NoError(t, err)
	require.Len(t, svc.added, 1)
	assert.Equal(t, "pde", svc.added[0].Type)
	assert.Empty(t, svc.added[0].Superclasses)
	assert.Empty(t, svc.added[0].ExistingIDs)
}

func TestCreatorRejections(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		setup func(*fakeService)
		want  string
	}{
		{
			name:  "unknown superclass identifier",
			cells: []string{"Brain", "term", "", "", "", "ILX:9999999"},
			want:  "Superclass ILX:9999999 does not exist in InterLex.",
		},
		{
			name:  "unknown superclass curie",
			cells: []string{"Brain", "term", "", "", "", "UBERON:FakeID"},
			want:  "Superclass UBERON:FakeID does not exist in InterLex.",
		},
		{
			name:  "superclass with unknown prefix",
			cells: []string{"Brain", "term", "", "", "", "FAKEPREFIX:0101431"},
			want:  "Curie FAKEPREFIX:0101431 does not have a prefix that exists in InterLex.",
		},
		{
			name:  "curie with unknown prefix",
			cells: []string{"Brain", "term", "", "", "", "", "FAKE:123"},
			want:  "Curie FAKE:123 does not have a prefix that exists in InterLex.",
		},
		{
			name:  "curie is checked before superclass",
			cells: []string{"Brain", "term", "", "", "", "ILX:9999999", "FAKE:123"},
			want:  "Curie FAKE:123 does not have a prefix that exists in InterLex.",
		},
		{
			name:  "duplicate owned by another user",
			cells: []string{"Brain", "term"},
			setup: func(f *fakeService) {
				f.addErr = &interlex.ConflictError{Existing: interlex.Entity{
					ILX: "ilx_0101431", OrigUID: "7",
					Owner: &interlex.User{ID: "7", FirstName: "Troy", LastName: "Sincomb"},
				}}
			},
			want: "Label [Brain] already added by User [Troy Sincomb] With InterLex ID [http://uri.interlex.org/base/ilx_0101431]",
		},
		{
			name:  "service refusal",
			cells: []string{"Brain", "term"},
			setup: func(f *fakeService) {
				f.addErr = &interlex.RejectedError{StatusCode: 400, Message: "definition too long"}
			},
			want: "definition too long",
		},
		{
			name:  "transport failure",
			cells: []string{"Brain", "term"},
			setup: func(f *fakeService) {
				f.addErr = errors.NewAPIError("interlex", 502, "bad gateway")
			},
			want: "failed to create Brain: API error from interlex (status 502): bad gateway",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			if tt.setup != nil {
				tt.setup(svc)
			}
			_, err := ingest.NewCreator(svc).Create(context.Background(), row(t, tt.cells...))
			var creationErr *errors.CreationError
			require.ErrorAs(t, err, &creationErr)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestCreatorConflictWithOwnEntity(t *testing.T) {
	svc := newFakeService()
	svc.addErr = &interlex.ConflictError{Existing: interlex.Entity{ILX: "ilx_0101431", OrigUID: svc.user.ID}}

	created, err := ingest.NewCreator(svc).Create(context.Background(), row(t, "Brain", "term"))
	require.NoError(t, err)
	assert.Equal(t, "ILX:0101431", created.Fragment)
}

func TestCreatorSkipsSubmitOnBadReference(t *testing.T) {
	svc := newFakeService()
	_, err := ingest.NewCreator(svc).Create(context.Background(), row(t, "Brain", "term", "", "", "", "", "FAKE:1"))
	require.Error(t, err)
	assert.Empty(t, svc.added)
}
