package interlex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/ingest/internal/transport"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
)

// Session is an open connection to InterLex on behalf of one user. It is
// safe to read from several goroutines but is used by one run at a time.
type Session struct {
	client   *Client
	user     User
	prefixes map[string]string
}

// Close releases pooled connections. The session must not be used afterwards.
func (s *Session) Close() error {
	s.client.http.CloseIdleConnections()
	return nil
}

// User returns the submitter the session acts for.
func (s *Session) User() User {
	return s.user
}

// IRI returns the resolvable IRI of an InterLex identifier such as "ilx_0101431".
func (s *Session) IRI(ilx string) string {
	return s.client.iriBase + ilx
}

// ExpandCurie maps "UBERON:0000062" onto its full IRI using the curie catalog.
func (s *Session) ExpandCurie(curie string) (string, bool) {
	i := strings.LastIndex(curie, ":")
	if i <= 0 {
		return "", false
	}
	namespace, ok := s.prefixes[curie[:i]]
	if !ok || namespace == "" {
		return "", false
	}
	return namespace + curie[i+1:], true
}

// EntityByCurie looks an entity up by an external identifier. It returns
// nil without error when nothing matches.
func (s *Session) EntityByCurie(ctx context.Context, curie string) (*Entity, error) {
	return s.lookup(ctx, "ilx/search/curie/"+curie)
}

// EntityByILX looks an entity up by its InterLex identifier, in either
// "ILX:0101431" or "ilx_0101431" form.
func (s *Session) EntityByILX(ctx context.Context, ref string) (*Entity, error) {
	return s.lookup(ctx, "ilx/search/identifier/"+ILXFromFragment(ref))
}

func (s *Session) lookup(ctx context.Context, endpoint string) (*Entity, error) {
	var entity Entity
	err := s.client.get(ctx, endpoint, nil, &entity)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !entity.Exists() {
		return nil, nil
	}
	return &entity, nil
}

// EntitiesByLabel returns entities whose label equals label exactly and were
// submitted by uid.
func (s *Session) EntitiesByLabel(ctx context.Context, label string, uid ID) ([]Entity, error) {
	query := url.Values{"label": {label}}
	if uid != "" {
		query.Set("uid", string(uid))
	}

	var found []Entity
	err := s.client.get(ctx, "term/exists", query, &found)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	exact := found[:0]
	for _, e := range found {
		if e.Exists() && e.Label == label {
			exact = append(exact, e)
		}
	}
	return exact, nil
}

// AddEntity submits a new entity. A duplicate label yields *ConflictError;
// other refusals yield *RejectedError with the service message.
func (s *Session) AddEntity(ctx context.Context, entity NewEntity) (*Entity, error) {
	entity.Key = s.client.apiKey

	resp, err := s.client.http.PostJSON(ctx, "term/add", entity)
	if err != nil {
		return nil, err
	}
	body, err := transport.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)

	// A body that does not decode leaves env or created empty; the status
	// code still decides the outcome.
	var decodeErr error
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		decodeErr = errors.WrapParse("json", "term/add", err)
		log.Debug().Err(err).Int("status", resp.StatusCode).Str("body", snippet(body)).Msg("term/add body is not JSON")
	}

	var created Entity
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &created); err != nil {
			decodeErr = errors.WrapParse("json", "term/add data", err)
			log.Debug().Err(err).Int("status", resp.StatusCode).Msg("term/add data is not an entity")
		}
	}

	switch {
	case resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(env.ErrorMsg), "already exists"):
		if !created.Exists() {
			return nil, &RejectedError{StatusCode: resp.StatusCode, Message: messageOr(env.ErrorMsg, "label already exists"), Err: decodeErr}
		}
		return nil, &ConflictError{Existing: created, Message: env.ErrorMsg}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		apiErr := transport.StatusError(resp, serviceName, body)
		if env.ErrorMsg != "" {
			apiErr.Message = env.ErrorMsg
		}
		return nil, apiErr
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: messageOr(env.ErrorMsg, snippet(body)), Err: decodeErr}
	}

	if !created.Exists() {
		msg := "InterLex did not return an identifier"
		if decodeErr != nil {
			msg = "InterLex returned an unreadable response: " + snippet(body)
		}
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: messageOr(env.ErrorMsg, msg), Err: decodeErr}
	}

	log.Debug().
		Str("ilx", created.ILX).
		Str("label", created.Label).
		Msg("InterLex entity created")
	return &created, nil
}

func messageOr(msg, fallback string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	if fallback == "" {
		return "request rejected"
	}
	return fallback
}

// snippet trims a response body for messages and logs.
func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
