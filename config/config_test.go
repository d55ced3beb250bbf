package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tagkit/artifact"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, SourceFile, cfg.Artifacts.Source)
	assert.Equal(t, artifact.DefaultNames(), cfg.Artifacts.Names)
	assert.Equal(t, 5, cfg.Ranking.TopN)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
  shutdown_timeout: 2s
log:
  level: debug
  format: json
artifacts:
  source: redis
  names:
    classifier: clf.json
  redis:
    addr: "redis:6379"
ranking:
  top_n: 3
  filter: 'item.id != "0"'
`)
	t.Setenv("TAGKIT_REDIS_PREFIX", "models:")
	t.Setenv("TAGKIT_RANKING_SEED", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, SourceRedis, cfg.Artifacts.Source)
	assert.Equal(t, "redis:6379", cfg.Artifacts.Redis.Addr)
	assert.Equal(t, "models:", cfg.Artifacts.Redis.Prefix)
	assert.Equal(t, "clf.json", cfg.Artifacts.Names.Classifier)
	assert.Equal(t, "vectorizer.json", cfg.Artifacts.Names.Vectorizer)
	assert.Equal(t, 3, cfg.Ranking.TopN)
	assert.Equal(t, uint64(42), cfg.Ranking.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Artifacts.Source = "ftp" }},
		{"file without dir", func(c *Config) { c.Artifacts.Dir = "" }},
		{"s3 without bucket", func(c *Config) { c.Artifacts.Source = SourceS3 }},
		{"http without url", func(c *Config) { c.Artifacts.Source = SourceHTTP }},
		{"redis without addr", func(c *Config) { c.Artifacts.Source = SourceRedis; c.Artifacts.Redis.Addr = "" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative top_n", func(c *Config) { c.Ranking.TopN = -1 }},
		{"seed overflows int64", func(c *Config) { c.Ranking.Seed = 1 << 63 }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Ranking.Seed = math.MaxInt64
	assert.NoError(t, cfg.Validate())
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	a := DefaultConfig().Artifacts
	a.Dir = "../testdata/artifacts"
	src, closeFn, err := a.OpenSource(ctx)
	require.NoError(t, err)
	defer closeFn()
	_, err = artifact.Load(ctx, src, a.Names)
	require.NoError(t, err)

	a.Source = SourceHTTP
	a.HTTP.BaseURL = "http://models.local/v1"
	src, _, err = a.OpenSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://models.local/v1", src.Name())

	a.Source = SourceS3
	a.S3.Bucket = "models"
	src, _, err = a.OpenSource(ctx)
	require.NoError(t, err)
	assert.NotNil(t, src)

	a.Source = "ftp"
	_, _, err = a.OpenSource(ctx)
	assert.Error(t, err)
}
