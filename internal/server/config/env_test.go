package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_OverridesOnlySetVariables(t *testing.T) {
	t.Setenv("ADDRESS", "127.0.0.1:9090")
	t.Setenv("SESSION_VALIDITY_DURATION", "48h")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "127.0.0.1:9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, 48*time.Hour, cfg.SessionValidityDuration)

	// untouched fields keep their defaults
	assert.Equal(t, 10*time.Second, cfg.AuthRequestTimeout)
	assert.Equal(t, "http://127.0.0.1:9100", cfg.AuthProviderURL)
}

func Test_parseEnv_S3Settings(t *testing.T) {
	t.Setenv("S3_ROOT_USER", "admin")
	t.Setenv("S3_ROOT_PASSWORD", "secretpassword")
	t.Setenv("S3_BUCKET", "backups")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("S3_BASE_ENDPOINT", "http://127.0.0.1:9000/")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "admin", cfg.S3RootUser)
	assert.Equal(t, "secretpassword", cfg.S3RootPassword)
	assert.Equal(t, "backups", cfg.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", cfg.S3BaseEndpoint)
	assert.True(t, cfg.OffloadEnabled())
}

func Test_parseEnv_MalformedDurationPanics(t *testing.T) {
	t.Setenv("AUTH_REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseEnv(cfg) })
}
