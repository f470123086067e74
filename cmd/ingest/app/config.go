package app

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/ingest/internal/cmd/output"
	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables, .env files and flags.
type Config struct {
	// Global flags
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string
	Production bool

	// Config file
	ConfigFile string

	// InterLex
	BaseURL       string
	ProductionURL string
	APIKey        string
	IRIBase       string
	Timeout       time.Duration
	RateLimit     float64

	// Google
	GoogleCredentials string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or ~/.ingest.yaml and ./.ingest.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("interlex.base_url", constants.TestBaseURL)
	v.SetDefault("interlex.production_url", constants.ProductionBaseURL)
	v.SetDefault("interlex.iri_base", constants.DefaultIRIBase)
	v.SetDefault("interlex.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("interlex.rate_limit", constants.DefaultRateLimit)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".ingest")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read "+configOrDefault(configFile), err)
		}
	}

	return &Config{
		NoColor:    v.GetBool("no_color"),
		Production: v.GetBool("production"),
		ConfigFile: v.ConfigFileUsed(),

		BaseURL:       v.GetString("interlex.base_url"),
		ProductionURL: v.GetString("interlex.production_url"),
		APIKey:        v.GetString("interlex.api_key"),
		IRIBase:       v.GetString("interlex.iri_base"),
		Timeout:       v.GetDuration("interlex.timeout"),
		RateLimit:     v.GetFloat64("interlex.rate_limit"),

		GoogleCredentials: v.GetString("google.credentials"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

// bindEnv binds settings whose environment names don't follow the key.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"interlex.api_key":   {"INTERLEX_API_KEY", "SCICRUNCH_API_KEY"},
		"google.credentials": {"GOOGLE_APPLICATION_CREDENTIALS"},
		"production":         {"INTERLEX_PRODUCTION"},
		"no_color":           {"NO_COLOR"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return errors.NewConfigError("config", "failed to bind "+key, err)
		}
	}
	return nil
}

// UpdateFromFlags applies parsed command flags over loaded values.
// Only flags that were set on the command line are passed non-zero.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor, production bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	if noColor {
		c.NoColor = true
	}
	if production {
		c.Production = true
	}
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Endpoint is the InterLex API base URL for this run.
func (c *Config) Endpoint() string {
	if c.Production {
		return c.ProductionURL
	}
	return c.BaseURL
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.APIKey) == "" {
		problems = append(problems, "interlex.api_key is required (set SCICRUNCH_API_KEY or INTERLEX_API_KEY)")
	}
	if u, err := url.Parse(c.Endpoint()); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("InterLex URL %q is not an absolute URL", c.Endpoint()))
	}
	if c.Timeout <= 0 {
		problems = append(problems, "interlex.timeout must be positive")
	}
	if c.RateLimit < 0 {
		problems = append(problems, "interlex.rate_limit cannot be negative")
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		problems = append(problems, fmt.Sprintf("format %q must be one of: table, json, yaml", c.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.NewConfigError("ingest", strings.Join(problems, "; "), errors.ErrInvalidInput)
}

// loadEnvFiles loads .env then .env.local; existing variables win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func configOrDefault(path string) string {
	if path == "" {
		return ".ingest.yaml"
	}
	return path
}
