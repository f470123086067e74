package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
)

// ReadBody reads and closes a response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer drain(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	return body, nil
}

// DecodeResponse decodes a 2xx JSON response into target. Other statuses
// become an *errors.APIError carrying a trimmed copy of the body.
func DecodeResponse(resp *http.Response, service string, target any) error {
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusError(resp, service, body)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpointOf(resp), err)
	}
	return nil
}

// StatusError builds the APIError for a non-2xx response.
func StatusError(resp *http.Response, service string, body []byte) *errors.APIError {
	message := strings.TrimSpace(string(body))
	if len(message) > constants.MaxErrorBodyBytes {
		message = message[:constants.MaxErrorBodyBytes]
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &errors.APIError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Message:    message,
		Endpoint:   endpointOf(resp),
	}
}

func endpointOf(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.Path
	}
	return ""
}
