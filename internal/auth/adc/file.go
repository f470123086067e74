// Package adc locates Google credentials for the spreadsheet adapter.
package adc

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/ingest/pkg/errors"
)

const (
	// TypeAuthorizedUser represents user credentials from gcloud auth.
	TypeAuthorizedUser = "authorized_user"
	// TypeServiceAccount represents service account credentials.
	TypeServiceAccount = "service_account"
)

// EnvCredentials names the credentials file override.
const EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

// Credential sources reported by FindFile.
const (
	SourceConfig  = "config (google.credentials)"
	SourceEnv     = "env (" + EnvCredentials + ")"
	SourceDefault = "gcloud default"
)

// File represents a Google credentials JSON file.
type File struct {
	Type           string `json:"type"`
	QuotaProjectID string `json:"quota_project_id"`
	ProjectID      string `json:"project_id"`
	ClientEmail    string `json:"client_email"`
	Account        string `json:"account"`
	ClientID       string `json:"client_id"`
	UniverseDomain string `json:"universe_domain"`
}

// FindFile locates a credentials file. Returns empty strings if none exists.
//
// Search order:
//  1. explicit, usually the google.credentials setting
//  2. GOOGLE_APPLICATION_CREDENTIALS environment variable
//  3. ~/.config/gcloud/application_default_credentials.json
func FindFile(explicit string) (path, source string) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, SourceConfig
		}
	}
	if path := os.Getenv(EnvCredentials); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, SourceEnv
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	defaultPath := filepath.Join(home, ".config/gcloud/application_default_credentials.json")
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, SourceDefault
	}
	return "", ""
}

// ParseFile reads and validates a credentials file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user supplied credentials file
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	switch file.Type {
	case TypeAuthorizedUser, TypeServiceAccount:
		return &file, nil
	case "":
		return nil, errors.NewValidationError("type", file.Type, "is missing")
	default:
		return nil, errors.NewValidationError("type", file.Type, "is not a supported credential type")
	}
}
