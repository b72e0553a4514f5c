package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig mirrors Config for environment parsing. Only variables that are
// actually set override the values already in Config.
type EnvConfig struct {
	EndpointAddrHTTP        string        `env:"ADDRESS"`
	DatabaseDSN             string        `env:"DATABASE_DSN"`
	AuthProviderURL         string        `env:"AUTH_PROVIDER_URL"`
	AuthRequestTimeout      time.Duration `env:"AUTH_REQUEST_TIMEOUT"`
	SessionValidityDuration time.Duration `env:"SESSION_VALIDITY_DURATION"`
	SessionCleanupInterval  time.Duration `env:"SESSION_CLEANUP_INTERVAL"`
	S3RootUser              string        `env:"S3_ROOT_USER"`
	S3RootPassword          string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket                string        `env:"S3_BUCKET"`
	S3Region                string        `env:"S3_REGION"`
	S3BaseEndpoint          string        `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays environment variables onto the provided Config.
// Unset variables leave the existing values untouched; a malformed
// duration panics, same as a malformed JSON file would.
func parseEnv(config *Config) {
	c := &EnvConfig{}
	if err := env.Parse(c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AuthProviderURL != "" {
		config.AuthProviderURL = c.AuthProviderURL
	}
	if c.AuthRequestTimeout != 0 {
		config.AuthRequestTimeout = c.AuthRequestTimeout
	}
	if c.SessionValidityDuration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration
	}
	if c.SessionCleanupInterval != 0 {
		config.SessionCleanupInterval = c.SessionCleanupInterval
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
