package adc

import (
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/option"

	"github.com/agentstation/ingest/pkg/errors"
)

// State is the outcome of credentials discovery.
type State int

const (
	// StateConfigured means a valid credentials file was found.
	StateConfigured State = iota
	// StateMissing means no credentials file was found.
	StateMissing
	// StateInvalid means a credentials file was found but could not be used.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	default:
		return "invalid"
	}
}

// Details describes the credentials the spreadsheet adapter will use.
type Details struct {
	State         State
	Type          string // "User Credentials" | "Service Account"
	Account       string
	Project       string
	ProjectSource string
	Path          string
	Source        string
	LastAuth      time.Time
	Err           error
}

// Inspect finds and parses credentials. No network calls are made.
func Inspect(explicit string) *Details {
	path, source := FindFile(explicit)
	if path == "" {
		return &Details{
			State: StateMissing,
			Err: errors.NewAuthenticationError("google", "adc", "no credentials found; set "+EnvCredentials+
				" or run: gcloud auth application-default login --scopes=https://www.googleapis.com/auth/spreadsheets,https://www.googleapis.com/auth/drive.metadata.readonly", nil),
		}
	}

	file, err := ParseFile(path)
	if err != nil {
		return &Details{
			State:  StateInvalid,
			Path:   path,
			Source: source,
			Err:    errors.NewAuthenticationError("google", "adc", "credentials file invalid", err),
		}
	}

	d := &Details{
		State:    StateConfigured,
		Type:     credentialType(file.Type),
		Account:  accountIdentifier(file),
		Path:     path,
		Source:   source,
		LastAuth: fileModTime(path),
	}
	d.Project, d.ProjectSource = resolveProject(file)
	return d
}

// ClientOptions returns the Google API client options for the discovered
// credentials. User credentials carry the quota project, which falls back to
// the gcloud core project when the file has none.
func (d *Details) ClientOptions(scopes ...string) ([]option.ClientOption, error) {
	if d.State != StateConfigured {
		return nil, d.Err
	}
	opts := []option.ClientOption{
		option.WithCredentialsFile(d.Path),
		option.WithScopes(scopes...),
	}
	if d.Type == credentialType(TypeAuthorizedUser) && d.Project != "" {
		opts = append(opts, option.WithQuotaProject(d.Project))
	}
	return opts, nil
}

// Brief is a one-line summary for logs.
func (d *Details) Brief() string {
	if d.State != StateConfigured {
		return fmt.Sprintf("Google credentials %s: %v", d.State, d.Err)
	}
	parts := []string{d.Type}
	if d.Account != "" {
		parts = append(parts, d.Account)
	}
	if d.Project != "" {
		parts = append(parts, fmt.Sprintf("Project: %s (%s)", d.Project, d.ProjectSource))
	}
	parts = append(parts, "from "+d.Source)
	return strings.Join(parts, ", ")
}

func credentialType(adcType string) string {
	if adcType == TypeServiceAccount {
		return "Service Account"
	}
	return "User Credentials"
}

// accountIdentifier prefers an email address and falls back to the client ID.
func accountIdentifier(file *File) string {
	switch {
	case file.ClientEmail != "":
		return file.ClientEmail
	case file.Account != "":
		return file.Account
	case file.ClientID != "":
		return "(client ID: " + file.ClientID + ")"
	}
	return ReadConfig("account")
}

func fileModTime(path string) time.Time {
	if stat, err := os.Stat(path); err == nil {
		return stat.ModTime()
	}
	return time.Time{}
}

// resolveProject picks the quota project.
//
// Priority order:
//  1. quota_project_id
//  2. project_id
//  3. gcloud config (core.project)
func resolveProject(file *File) (project, source string) {
	if file.QuotaProjectID != "" {
		return file.QuotaProjectID, "quota_project_id"
	}
	if file.ProjectID != "" {
		return file.ProjectID, "project_id"
	}
	if p := ReadConfig("project"); p != "" {
		return p, "gcloud config"
	}
	return "", "not set"
}
