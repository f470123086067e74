// Package interlex is a client for the InterLex term service hosted on SciCrunch.
//
// A Client holds endpoint and credential configuration. Open exchanges it for
// a Session bound to the API key's user, which is what resolvers and creators
// talk to for the duration of one ingestion run.
package interlex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/ingest/internal/transport"
	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
)

const serviceName = "interlex"

// Config describes how to reach InterLex.
type Config struct {
	BaseURL    string
	APIKey     string
	IRIBase    string
	Timeout    time.Duration
	RateLimit  float64
	HTTPClient *http.Client
}

// Client is an unauthenticated handle on the InterLex API.
type Client struct {
	http    *transport.Client
	apiKey  string
	iriBase string
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.NewAuthenticationError(serviceName, "api_key",
			"API key not configured (set SCICRUNCH_API_KEY)", errors.ErrAPIKeyRequired)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.TestBaseURL
	}
	if cfg.IRIBase == "" {
		cfg.IRIBase = constants.DefaultIRIBase
	}
	if !strings.HasSuffix(cfg.IRIBase, "/") {
		cfg.IRIBase += "/"
	}

	opts := []transport.Option{
		transport.WithService(serviceName),
		transport.WithTimeout(cfg.Timeout),
		transport.WithRateLimit(cfg.RateLimit),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.HTTPClient))
	}

	hc, err := transport.New(cfg.BaseURL, &transport.QueryAuth{Param: "key"}, cfg.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, apiKey: cfg.APIKey, iriBase: cfg.IRIBase}, nil
}

// Open identifies the API key's user and loads the curie catalog.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SessionOpenTimeout)
	defer cancel()

	var user User
	if err := c.get(ctx, "user/info", nil, &user); err != nil {
		if errors.IsAPIKeyError(err) {
			return nil, errors.NewAuthenticationError(serviceName, "api_key", "API key rejected", err)
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.NewAuthenticationError(serviceName, "api_key", "user/info returned no user id", errors.ErrAPIKeyInvalid)
	}

	var catalog []CuriePrefix
	if err := c.get(ctx, "curies/catalog", nil, &catalog); err != nil {
		return nil, err
	}
	prefixes := make(map[string]string, len(catalog))
	for _, p := range catalog {
		if p.Prefix != "" {
			prefixes[p.Prefix] = p.Namespace
		}
	}

	logging.FromContext(ctx).Debug().
		Str("user_id", string(user.ID)).
		Str("user", user.Name()).
		Int("curie_prefixes", len(prefixes)).
		Msg("InterLex session opened")

	return &Session{client: c, user: user, prefixes: prefixes}, nil
}

// get fetches endpoint and decodes the envelope's data into target. A
// missing resource yields *errors.NotFoundError.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, target any) error {
	resp, err := c.http.Get(ctx, endpoint, query)
	if err != nil {
		return err
	}
	body, err := transport.ReadBody(resp)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewNotFoundError(serviceName, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		apiErr := transport.StatusError(resp, serviceName, body)
		if msg := errorMessage(body); msg != "" {
			apiErr.Message = msg
		}
		return apiErr
	}

	return decodeData(endpoint, body, target)
}

func decodeData(endpoint string, body []byte, target any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return errors.NewNotFoundError(serviceName, endpoint)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}

// errorMessage extracts the SciCrunch errormsg from a body, if any.
func errorMessage(body []byte) string {
	var env envelope
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return strings.TrimSpace(env.ErrorMsg)
}
