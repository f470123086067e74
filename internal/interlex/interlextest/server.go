// Package interlextest provides an in-memory InterLex server for tests.
package interlextest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/agentstation/ingest/internal/interlex"
)

// FirstILX is the identifier number minted for the first created entity.
const FirstILX = 101431

// Server imitates the SciCrunch InterLex endpoints used by ingestion.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]interlex.User
	prefixes []interlex.CuriePrefix
	records  []record
	next     int
	calls    map[string]int
}

type record struct {
	entity interlex.Entity
	curies []string
}

// NewServer starts a server that is closed when the test ends. It knows the
// UBERON, GO and ILX curie prefixes and no users.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users: make(map[string]interlex.User),
		prefixes: []interlex.CuriePrefix{
			{Prefix: "UBERON", Namespace: "http://purl.obolibrary.org/obo/UBERON_"},
			{Prefix: "GO", Namespace: "http://purl.obolibrary.org/obo/GO_"},
			{Prefix: "ILX", Namespace: "http://uri.interlex.org/base/ilx_"},
			{Prefix: "", Namespace: "ignored"},
		},
		next:  FirstILX,
		calls: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/1/user/info", s.authed("user/info", s.userInfo))
	mux.HandleFunc("GET /api/1/curies/catalog", s.authed("curies/catalog", s.catalog))
	mux.HandleFunc("GET /api/1/ilx/search/curie/{curie}", s.authed("ilx/search/curie", s.searchCurie))
	mux.HandleFunc("GET /api/1/ilx/search/identifier/{ilx}", s.authed("ilx/search/identifier", s.searchILX))
	mux.HandleFunc("GET /api/1/term/exists", s.authed("term/exists", s.exists))
	mux.HandleFunc("POST /api/1/term/add", s.authed("term/add", s.add))

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string {
	return s.URL + "/api/1/"
}

// AddUser registers an API key for user.
func (s *Server) AddUser(key string, user interlex.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[key] = user
}

// Seed stores an existing entity, optionally linked to external curies.
func (s *Server) Seed(entity interlex.Entity, curies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record{entity: entity, curies: curies})
}

// Calls returns how many requests reached endpoint, e.g. "term/add".
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// Entities returns every stored entity in creation order.
func (s *Server) Entities() []interlex.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interlex.Entity, len(s.records))
	for i, r := range s.records {
		out[i] = r.entity
	}
	return out
}

type handler func(w http.ResponseWriter, r *http.Request, user interlex.User)

func (s *Server) authed(endpoint string, h handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[endpoint]++
		key := r.URL.Query().Get("key")
		user, ok := s.users[key]
		s.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"errormsg": "invalid API key"})
			return
		}
		h(w, r, user)
	}
}

func (s *Server) userInfo(w http.ResponseWriter, _ *http.Request, user interlex.User) {
	writeJSON(w, http.StatusOK, map[string]any{"data": user})
}

func (s *Server) catalog(w http.ResponseWriter, _ *http.Request, _ interlex.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": s.prefixes})
}

func (s *Server) searchCurie(w http.ResponseWriter, r *http.Request, _ interlex.User) {
	curie := r.PathValue("curie")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		for _, c := range rec.curies {
			if c == curie {
				writeJSON(w, http.StatusOK, map[string]any{"data": rec.entity})
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"ilx": nil}})
}

func (s *Server) searchILX(w http.ResponseWriter, r *http.Request, _ interlex.User) {
	ilx := r.PathValue("ilx")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.entity.ILX == ilx {
			writeJSON(w, http.StatusOK, map[string]any{"data": rec.entity})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"errormsg": "not found"})
}

func (s *Server) exists(w http.ResponseWriter, r *http.Request, _ interlex.User) {
	label := r.URL.Query().Get("label")
	uid := interlex.ID(r.URL.Query().Get("uid"))
	s.mu.Lock()
	defer s.mu.Unlock()
	found := []interlex.Entity{}
	for _, rec := range s.records {
		if rec.entity.Label == label && (uid == "" || rec.entity.OwnerID() == uid) {
			found = append(found, rec.entity)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": found})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request, user interlex.User) {
	var req interlex.NewEntity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errormsg": "malformed JSON"})
		return
	}
	if req.Label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errormsg": "label is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.entity.Label == req.Label {
			existing := rec.entity
			if owner, ok := s.userByID(existing.OwnerID()); ok {
				existing.Owner = &owner
			}
			writeJSON(w, http.StatusConflict, map[string]any{
				"errormsg": fmt.Sprintf("term %q already exists", req.Label),
				"data":     existing,
			})
			return
		}
	}

	entity := interlex.Entity{
		ID:         interlex.ID(strconv.Itoa(len(s.records) + 1)),
		ILX:        fmt.Sprintf("ilx_%07d", s.next),
		Label:      req.Label,
		Type:       req.Type,
		Definition: req.Definition,
		UID:        user.ID,
		OrigUID:    user.ID,
	}
	s.next++

	var curies []string
	for _, id := range req.ExistingIDs {
		curies = append(curies, id.Curie)
	}
	s.records = append(s.records, record{entity: entity, curies: curies})

	writeJSON(w, http.StatusOK, map[string]any{"data": entity})
}

func (s *Server) userByID(id interlex.ID) (interlex.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return interlex.User{}, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
