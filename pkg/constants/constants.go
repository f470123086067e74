// Package constants provides shared constants used throughout the ingest codebase.
// This includes timeouts, file permissions, default endpoints and the fixed
// column names of the ingestion table.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single InterLex request
	DefaultHTTPTimeout = 30 * time.Second

	// SessionOpenTimeout bounds fetching the user identity and curie catalog
	SessionOpenTimeout = 1 * time.Minute

	// SheetTimeout bounds each Sheets or Drive API call
	SheetTimeout = 2 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// InterLex endpoint defaults
const (
	// TestBaseURL is the InterLex API on the SciCrunch test host
	TestBaseURL = "https://test3.scicrunch.org/api/1/"

	// ProductionBaseURL is the InterLex API on the SciCrunch production host
	ProductionBaseURL = "https://scicrunch.org/api/1/"

	// DefaultIRIBase prefixes InterLex identifiers to form an entity IRI
	DefaultIRIBase = "http://uri.interlex.org/base/"

	// DefaultRateLimit is requests per second sent to InterLex (0 disables pacing)
	DefaultRateLimit = 0

	// MaxErrorBodyBytes caps how much of a failed response body is kept in errors
	MaxErrorBodyBytes = 4096
)

// Output formatting
const (
	// TrueToken and FalseToken are written to the success column
	TrueToken  = "T"
	FalseToken = "F"

	// CSVExtension is appended to file output paths that lack one
	CSVExtension = ".csv"
)
