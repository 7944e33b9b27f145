// Package config defines the gateway configuration and provides loading and
// validation helpers.
package config

import (
	"fmt"
	"strings"

	"github.com/naviai/smsgate/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SMSGATE_* environment
// variables.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Gateway   GatewayConfig   `toml:"gateway"`
	Store     StoreConfig     `toml:"store"`
	SNS       SNSConfig       `toml:"sns"`
	Responses ResponsesConfig `toml:"responses"`
	Health    HealthConfig    `toml:"health"`
	LogLevel  string          `toml:"log_level"`
}

// ServerConfig holds the HTTP trigger configuration.
type ServerConfig struct {
	Port int `toml:"port"`

	// TrustedProxyHeader names the header carrying the caller's source
	// IP when the gateway sits behind a trusted proxy (for example
	// "X-Forwarded-For"). Empty means the connection's remote address is
	// used. The source IP is always trigger metadata, never read from
	// the request body.
	TrustedProxyHeader string `toml:"trusted_proxy_header"`

	// DrainSeconds is how long graceful shutdown waits for in-flight
	// requests.
	DrainSeconds int `toml:"drain_seconds"`
}

// GatewayConfig holds the pipeline's policy knobs. The source variants of
// this service differed only in these values, so they are configuration,
// not code.
type GatewayConfig struct {
	// Brand is prepended to every outbound message as "[<brand>] ".
	Brand string `toml:"brand"`

	// AllowedPrefixes is the accepted recipient-number prefix policy.
	// A request phone number must start with one of these.
	AllowedPrefixes []string `toml:"allowed_prefixes"`
}

// StoreConfig selects and configures the profile store backend.
type StoreConfig struct {
	// Backend is "s3" or "postgres".
	Backend string `toml:"backend"`

	S3       S3Config       `toml:"s3"`
	Postgres PostgresConfig `toml:"postgres"`
}

// S3Config holds S3-compatible object storage parameters for the profile
// store.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`

	// KeyPrefix is prepended to "<user_id>.json" when building object
	// keys, e.g. "profiles/".
	KeyPrefix string `toml:"key_prefix"`
}

// PostgresConfig holds PostgreSQL connection parameters for the profile
// store.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// SNSConfig holds the AWS SNS messaging provider parameters.
type SNSConfig struct {
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// ResponsesConfig optionally overrides the client-facing body text per
// outcome. Empty fields fall back to the built-in defaults. These strings
// are the complete response body text; they must never be composed from
// request or profile data.
type ResponsesConfig struct {
	Success            string `toml:"success"`
	InvalidUserID      string `toml:"invalid_user_id"`
	MessageTooLong     string `toml:"message_too_long"`
	InvalidPhoneNumber string `toml:"invalid_phone_number"`
	UserNotFound       string `toml:"user_not_found"`
	UnauthorizedSource string `toml:"unauthorized_source"`
	NoRecipients       string `toml:"no_recipients"`
	InternalFault      string `toml:"internal_fault"`
}

// HealthConfig controls the health endpoint.
type HealthConfig struct {
	// CheckStore includes a profile-store connectivity check in the
	// health response.
	CheckStore bool `toml:"check_store"`
}

// For returns the configured body text for the outcome, falling back to the
// outcome's default when unset.
func (r ResponsesConfig) For(o domain.Outcome) string {
	var override string
	switch o {
	case domain.OutcomeSuccess:
		override = r.Success
	case domain.OutcomeInvalidUserID:
		override = r.InvalidUserID
	case domain.OutcomeMessageTooLong:
		override = r.MessageTooLong
	case domain.OutcomeInvalidPhoneNumber:
		override = r.InvalidPhoneNumber
	case domain.OutcomeUserNotFound:
		override = r.UserNotFound
	case domain.OutcomeUnauthorizedSource:
		override = r.UnauthorizedSource
	case domain.OutcomeNoRecipients:
		override = r.NoRecipients
	case domain.OutcomeInternalFault:
		override = r.InternalFault
	}
	if override != "" {
		return override
	}
	return o.ClientMessage()
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validBackends = map[string]bool{
	"s3":       true,
	"postgres": true,
}

// Defaults returns a Config populated with the built-in defaults. The
// accepted prefix policy defaults to Korean mobile numbers in both E.164
// spellings.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			DrainSeconds: 10,
		},
		Gateway: GatewayConfig{
			Brand:           "Navi.AI",
			AllowedPrefixes: []string{"+8210", "+82010"},
		},
		Store: StoreConfig{
			Backend: "s3",
			S3: S3Config{
				Region: "ap-northeast-2",
				UseSSL: true,
			},
			Postgres: PostgresConfig{
				Port:         5432,
				SSLMode:      "disable",
				PoolMaxConns: 4,
				PoolMinConns: 1,
			},
		},
		SNS: SNSConfig{
			Region: "ap-northeast-2",
		},
		Health: HealthConfig{
			CheckStore: true,
		},
		LogLevel: "info",
	}
}

// Validate checks the configuration for problems and returns an error
// listing all of them, or nil when the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %d out of range", c.Server.Port))
	}
	if c.Server.DrainSeconds < 0 {
		errs = append(errs, "server: drain_seconds must not be negative")
	}

	if c.Gateway.Brand == "" {
		errs = append(errs, "gateway: brand must not be empty")
	}
	if len(c.Gateway.AllowedPrefixes) == 0 {
		errs = append(errs, "gateway: allowed_prefixes must not be empty")
	}
	for _, p := range c.Gateway.AllowedPrefixes {
		if !strings.HasPrefix(p, "+") {
			errs = append(errs, fmt.Sprintf("gateway: allowed prefix %q must start with '+'", p))
		}
	}

	backend := strings.ToLower(c.Store.Backend)
	if !validBackends[backend] {
		errs = append(errs, fmt.Sprintf("store: unknown backend %q (valid: s3, postgres)", c.Store.Backend))
	}

	switch backend {
	case "s3":
		if c.Store.S3.Bucket == "" {
			errs = append(errs, "store.s3: bucket must not be empty")
		}
		if c.Store.S3.Region == "" {
			errs = append(errs, "store.s3: region must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(c.Store.Postgres.DSN) == "" {
			if c.Store.Postgres.Host == "" {
				errs = append(errs, "store.postgres: host must not be empty (or set store.postgres.dsn)")
			}
			if c.Store.Postgres.Port <= 0 || c.Store.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("store.postgres: port %d out of range", c.Store.Postgres.Port))
			}
			if c.Store.Postgres.Database == "" {
				errs = append(errs, "store.postgres: database must not be empty")
			}
		}
	}

	if c.SNS.Region == "" {
		errs = append(errs, "sns: region must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
