package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultAcceptedDir  = "sips"
	DefaultWithdrawnDir = "withdrawn-sips"
	DefaultBranch       = "main"
	DefaultCacheTTL     = 10 * time.Minute
	DefaultConcurrency  = 5
	DefaultTimeout      = 30 * time.Second
)

// Config is the complete application configuration, loaded from a TOML
// file with environment overrides for secrets.
type Config struct {
	Repository RepositoryConfig `toml:"repository"`
	Cache      CacheConfig      `toml:"cache"`
	Summariser SummariserConfig `toml:"summariser"`
}

// RepositoryConfig identifies the tracked proposal repository.
type RepositoryConfig struct {
	// Owner and Name identify the repository, e.g. "sipdex/sips".
	Owner string `toml:"owner"`
	Name  string `toml:"name"`

	// Branch is the branch holding the proposal folders.
	Branch string `toml:"branch"`

	// AcceptedDir holds accepted proposal documents.
	AcceptedDir string `toml:"accepted_dir"`

	// WithdrawnDir holds withdrawn proposal documents.
	WithdrawnDir string `toml:"withdrawn_dir"`

	// Token is a personal access token. Usually supplied via the
	// GITHUB_TOKEN environment variable rather than the file.
	Token string `toml:"token"`

	// Concurrency bounds concurrent per-pull-request fetches.
	Concurrency int `toml:"concurrency"`

	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// CacheConfig controls the reconciliation cache.
type CacheConfig struct {
	// TTLMinutes is how long a reconciled result set stays fresh.
	TTLMinutes int `toml:"ttl_minutes"`

	// DataDir overrides where the snapshot database lives.
	DataDir string `toml:"data_dir"`
}

// SummariserConfig configures the optional OpenAI summariser.
type SummariserConfig struct {
	// APIKey is usually supplied via OPENAI_API_KEY.
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// DefaultPath returns the default config file location,
// ~/.sipdex/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".sipdex", "config.toml"), nil
}

// Load reads configuration from the TOML file at path, applies
// defaults, and overlays environment variables for secrets. A missing
// file yields the defaults rather than an error, so a fresh install
// works with nothing but flags and environment.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// no file yet - defaults only
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Repository.Branch == "" {
		c.Repository.Branch = DefaultBranch
	}
	if c.Repository.AcceptedDir == "" {
		c.Repository.AcceptedDir = DefaultAcceptedDir
	}
	if c.Repository.WithdrawnDir == "" {
		c.Repository.WithdrawnDir = DefaultWithdrawnDir
	}
	if c.Repository.Concurrency <= 0 {
		c.Repository.Concurrency = DefaultConcurrency
	}
	if c.Repository.TimeoutSeconds <= 0 {
		c.Repository.TimeoutSeconds = int(DefaultTimeout.Seconds())
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = int(DefaultCacheTTL.Minutes())
	}
}

// applyEnv overlays secrets from the environment. Environment values
// win over file values so tokens never need to live on disk.
func (c *Config) applyEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.Repository.Token = token
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Summariser.APIKey = key
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Repository.TimeoutSeconds) * time.Second
}

// Validate checks that the configuration names a repository.
func (c *Config) Validate() error {
	if c.Repository.Owner == "" || c.Repository.Name == "" {
		return fmt.Errorf("config: repository.owner and repository.name are required")
	}
	return nil
}
