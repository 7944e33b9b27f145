package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields
// replaced by the redaction placeholder "***". Use this when logging or
// printing the active configuration so secrets are never accidentally
// exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	out.Store.S3 = cfg.Store.S3
	redact(&out.Store.S3.AccessKey)
	redact(&out.Store.S3.SecretKey)

	out.Store.Postgres = cfg.Store.Postgres
	redact(&out.Store.Postgres.DSN)
	redact(&out.Store.Postgres.Password)

	out.SNS = cfg.SNS
	redact(&out.SNS.AccessKey)
	redact(&out.SNS.SecretKey)

	return out
}

// redact replaces a non-empty string with the placeholder.
func redact(s *string) {
	if *s != "" {
		*s = "***"
	}
}
