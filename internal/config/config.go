package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the Housers CLI.
type Config struct {
	BackendURL string
	AnonKey    string
	// JWTSecret, when set, enables signature checks on access tokens.
	JWTSecret string
	// DatabaseDSN switches profile and notification reads to a direct
	// PostgreSQL connection. Auth still goes through BackendURL.
	DatabaseDSN string

	LocalDBPath string
	KeyringDir  string

	OnboardingURL  string
	ImportCooldown time.Duration

	S3Endpoint   string
	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	AvatarURLTTL time.Duration

	MetricsAddr string
	LogLevel    string
	LogFormat   string

	Demo bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:54321"
	c.LocalDBPath = "housers.db"
	c.KeyringDir = ".housers"
	c.ImportCooldown = 10 * time.Minute
	c.S3Region = "us-east-1"
	c.S3Bucket = "avatars"
	c.AvatarURLTTL = 15 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings the client cannot start without.
func (c *Config) Validate() error {
	if c.Demo {
		return nil
	}
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is required"))
	}
	if c.AnonKey == "" {
		errs = append(errs, errors.New("anon key is required"))
	}
	if c.ImportCooldown < 0 {
		errs = append(errs, errors.New("import cooldown must not be negative"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, errors.New("log format must be text or json"))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones. args excludes the program
// name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
