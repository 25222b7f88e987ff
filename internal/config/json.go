package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/housersapp/housers/internal/flagx"
	"github.com/housersapp/housers/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "empty" so a file can override a single
// setting.
type JsonConfig struct {
	BackendURL     *string         `json:"backend_url"`
	AnonKey        *string         `json:"anon_key"`
	JWTSecret      *string         `json:"jwt_secret"`
	DatabaseDSN    *string         `json:"database_dsn"`
	LocalDBPath    *string         `json:"local_db"`
	KeyringDir     *string         `json:"keyring_dir"`
	OnboardingURL  *string         `json:"onboarding_url"`
	ImportCooldown *timex.Duration `json:"import_cooldown"`
	MetricsAddr    *string         `json:"metrics_addr"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	Demo           *bool           `json:"demo"`
	S3             *struct {
		Endpoint  *string         `json:"endpoint"`
		Region    *string         `json:"region"`
		Bucket    *string         `json:"bucket"`
		AccessKey *string         `json:"access_key"`
		SecretKey *string         `json:"secret_key"`
		URLTTL    *timex.Duration `json:"url_ttl"`
	} `json:"s3"`
}

// parseJson overlays cfg with values from the file named by -c or -config.
// Without either flag nothing changes.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	set(&cfg.BackendURL, jc.BackendURL)
	set(&cfg.AnonKey, jc.AnonKey)
	set(&cfg.JWTSecret, jc.JWTSecret)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.LocalDBPath, jc.LocalDBPath)
	set(&cfg.KeyringDir, jc.KeyringDir)
	set(&cfg.OnboardingURL, jc.OnboardingURL)
	set(&cfg.MetricsAddr, jc.MetricsAddr)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	set(&cfg.Demo, jc.Demo)
	if jc.ImportCooldown != nil {
		cfg.ImportCooldown = jc.ImportCooldown.Duration
	}
	if s3 := jc.S3; s3 != nil {
		set(&cfg.S3Endpoint, s3.Endpoint)
		set(&cfg.S3Region, s3.Region)
		set(&cfg.S3Bucket, s3.Bucket)
		set(&cfg.S3AccessKey, s3.AccessKey)
		set(&cfg.S3SecretKey, s3.SecretKey)
		if s3.URLTTL != nil {
			cfg.AvatarURLTTL = s3.URLTTL.Duration
		}
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
