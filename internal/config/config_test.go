package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: "9090"
  allowed_origins: ["http://localhost:3000"]
redis:
  addr: "localhost:6379"
quiz:
  cache_ttl: 30s
admin:
  jwt_secret: s3cret
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	require.Equal(t, BackendRedis, cfg.Storage.Backend)
	require.Equal(t, "s3cret", cfg.Admin.JWTSecret)
	require.Equal(t, 30*time.Second, TTLDuration(cfg.Quiz.CacheTTL, time.Minute))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://quiz@localhost/quizdb")
	t.Setenv("ADMIN_JWT_SECRET", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.Storage.Backend)
	require.Equal(t, "from-env", cfg.Admin.JWTSecret)
}

func TestValidateRejectsIncompleteBackends(t *testing.T) {
	tests := []struct {
		name    string
		backend string
	}{
		{"redis without addr", BackendRedis},
		{"postgres without url", BackendPostgres},
		{"unknown backend", "etcd"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.Storage.Backend = tc.backend
			require.Error(t, cfg.Validate())
		})
	}
}

func TestTTLDuration(t *testing.T) {
	require.Equal(t, time.Minute, TTLDuration("", time.Minute))
	require.Equal(t, time.Minute, TTLDuration("not-a-duration", time.Minute))
	require.Equal(t, 5*time.Second, TTLDuration("5s", time.Minute))
}
