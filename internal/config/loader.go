package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SMSGATE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. A missing file is not
// an error: the service can run entirely from defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SMSGATE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.LogLevel, "SMSGATE_LOG_LEVEL")

	// Server
	setInt(&cfg.Server.Port, "SMSGATE_SERVER_PORT")
	setStr(&cfg.Server.TrustedProxyHeader, "SMSGATE_SERVER_TRUSTED_PROXY_HEADER")
	setInt(&cfg.Server.DrainSeconds, "SMSGATE_SERVER_DRAIN_SECONDS")

	// Gateway policy
	setStr(&cfg.Gateway.Brand, "SMSGATE_GATEWAY_BRAND")
	setStrSlice(&cfg.Gateway.AllowedPrefixes, "SMSGATE_GATEWAY_ALLOWED_PREFIXES")

	// Store
	setStr(&cfg.Store.Backend, "SMSGATE_STORE_BACKEND")
	setStr(&cfg.Store.S3.Endpoint, "SMSGATE_S3_ENDPOINT")
	setStr(&cfg.Store.S3.Region, "SMSGATE_S3_REGION")
	setStr(&cfg.Store.S3.Bucket, "SMSGATE_S3_BUCKET")
	setStr(&cfg.Store.S3.AccessKey, "SMSGATE_S3_ACCESS_KEY")
	setStr(&cfg.Store.S3.SecretKey, "SMSGATE_S3_SECRET_KEY")
	setBool(&cfg.Store.S3.UseSSL, "SMSGATE_S3_USE_SSL")
	setBool(&cfg.Store.S3.ForcePathStyle, "SMSGATE_S3_FORCE_PATH_STYLE")
	setStr(&cfg.Store.S3.KeyPrefix, "SMSGATE_S3_KEY_PREFIX")
	setStr(&cfg.Store.Postgres.DSN, "SMSGATE_POSTGRES_DSN")
	setStr(&cfg.Store.Postgres.Host, "SMSGATE_POSTGRES_HOST")
	setInt(&cfg.Store.Postgres.Port, "SMSGATE_POSTGRES_PORT")
	setStr(&cfg.Store.Postgres.Database, "SMSGATE_POSTGRES_DATABASE")
	setStr(&cfg.Store.Postgres.User, "SMSGATE_POSTGRES_USER")
	setStr(&cfg.Store.Postgres.Password, "SMSGATE_POSTGRES_PASSWORD")
	setStr(&cfg.Store.Postgres.SSLMode, "SMSGATE_POSTGRES_SSLMODE")
	setInt(&cfg.Store.Postgres.PoolMaxConns, "SMSGATE_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Store.Postgres.PoolMinConns, "SMSGATE_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Store.Postgres.RunMigrations, "SMSGATE_POSTGRES_RUN_MIGRATIONS")

	// SNS
	setStr(&cfg.SNS.Region, "SMSGATE_SNS_REGION")
	setStr(&cfg.SNS.AccessKey, "SMSGATE_SNS_ACCESS_KEY")
	setStr(&cfg.SNS.SecretKey, "SMSGATE_SNS_SECRET_KEY")

	// Health
	setBool(&cfg.Health.CheckStore, "SMSGATE_HEALTH_CHECK_STORE")
}

// setStr overwrites dst with the value of the environment variable key when
// it is set and non-empty.
func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt overwrites dst when the environment variable parses as an integer.
func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// setBool overwrites dst when the environment variable parses as a boolean.
func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// setStrSlice overwrites dst with the comma-separated values of the
// environment variable, trimming whitespace around each entry.
func setStrSlice(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}
