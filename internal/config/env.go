package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "HOUSERS_"

// dotEnvFiles are loaded before reading the environment. Missing files are
// fine; variables already set in the process are never overwritten.
var dotEnvFiles = []string{".env"}

// parseEnv overlays cfg with HOUSERS_* variables.
func parseEnv(cfg *Config) error {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	str := func(dst *string, name string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	str(&cfg.BackendURL, "BACKEND_URL")
	str(&cfg.AnonKey, "ANON_KEY")
	str(&cfg.JWTSecret, "JWT_SECRET")
	str(&cfg.DatabaseDSN, "DATABASE_DSN")
	str(&cfg.LocalDBPath, "LOCAL_DB")
	str(&cfg.KeyringDir, "KEYRING_DIR")
	str(&cfg.OnboardingURL, "ONBOARDING_URL")
	str(&cfg.S3Endpoint, "S3_ENDPOINT")
	str(&cfg.S3Region, "S3_REGION")
	str(&cfg.S3Bucket, "S3_BUCKET")
	str(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	str(&cfg.S3SecretKey, "S3_SECRET_KEY")
	str(&cfg.MetricsAddr, "METRICS_ADDR")
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.LogFormat, "LOG_FORMAT")

	dur := func(dst *time.Duration, name string) error {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}
	if err := dur(&cfg.ImportCooldown, "IMPORT_COOLDOWN"); err != nil {
		return err
	}
	if err := dur(&cfg.AvatarURLTTL, "AVATAR_URL_TTL"); err != nil {
		return err
	}

	if v, ok := os.LookupEnv(envPrefix + "DEMO"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEMO: %w", envPrefix, err)
		}
		cfg.Demo = b
	}
	return nil
}
