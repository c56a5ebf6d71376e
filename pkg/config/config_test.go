package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

func TestNewPoolConfig_Defaults(t *testing.T) {
	cfg := NewPoolConfig("buffers")

	assert.Equal(t, "buffers", cfg.Name)
	assert.Equal(t, GrowthConstant, cfg.Growth.Mode)
	assert.Equal(t, 128, cfg.Growth.BucketSize)
	assert.Equal(t, PolicyAll, cfg.Retention.Policy)
	assert.False(t, cfg.Profiler.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestPoolConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PoolConfig)
		wantErr bool
	}{
		{"defaults", func(*PoolConfig) {}, false},
		{"missing name", func(c *PoolConfig) { c.Name = "" }, true},
		{"unknown growth mode", func(c *PoolConfig) { c.Growth.Mode = "fibonacci" }, true},
		{"zero bucket size", func(c *PoolConfig) { c.Growth.BucketSize = 0 }, true},
		{"linear", func(c *PoolConfig) { c.Growth.Mode = GrowthLinear }, false},
		{"linear zero slope", func(c *PoolConfig) {
			c.Growth.Mode = GrowthLinear
			c.Growth.Slope = 0
		}, true},
		{"exponential", func(c *PoolConfig) { c.Growth.Mode = GrowthExponential }, false},
		{"exponential shrinking base", func(c *PoolConfig) {
			c.Growth.Mode = GrowthExponential
			c.Growth.Base = 0.5
		}, true},
		{"unknown policy", func(c *PoolConfig) { c.Retention.Policy = "lru" }, true},
		{"max", func(c *PoolConfig) { c.Retention.Policy = PolicyMax }, false},
		{"max zero limit", func(c *PoolConfig) {
			c.Retention.Policy = PolicyMax
			c.Retention.Limit = 0
		}, true},
		{"all_timed", func(c *PoolConfig) { c.Retention.Policy = PolicyAllTimed }, false},
		{"all_timed short interval", func(c *PoolConfig) {
			c.Retention.Policy = PolicyAllTimed
			c.Retention.Interval = time.Microsecond
		}, true},
		{"max_timed", func(c *PoolConfig) { c.Retention.Policy = PolicyMaxTimed }, false},
		{"max_timed zero limit", func(c *PoolConfig) {
			c.Retention.Policy = PolicyMaxTimed
			c.Retention.Limit = 0
		}, true},
		{"timed unknown evict", func(c *PoolConfig) {
			c.Retention.Policy = PolicyAllTimed
			c.Retention.Evict = "most"
		}, true},
		{"timed constant evict without count", func(c *PoolConfig) {
			c.Retention.Policy = PolicyAllTimed
			c.Retention.Evict = EvictConstant
			c.Retention.EvictCount = 0
		}, true},
		{"timed constant evict", func(c *PoolConfig) {
			c.Retention.Policy = PolicyAllTimed
			c.Retention.Evict = EvictConstant
			c.Retention.EvictCount = 16
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewPoolConfig("test")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	content := `
name: buffers
growth:
  mode: linear
  slope: 32
  intercept: 64
retention:
  policy: max_timed
  limit: 2048
  interval: 30s
  evict: half
profiler:
  enabled: true
  interval: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "buffers", cfg.Name)
	assert.Equal(t, GrowthLinear, cfg.Growth.Mode)
	assert.Equal(t, 32, cfg.Growth.Slope)
	assert.Equal(t, PolicyMaxTimed, cfg.Retention.Policy)
	assert.Equal(t, 2048, cfg.Retention.Limit)
	assert.Equal(t, 30*time.Second, cfg.Retention.Interval)
	assert.True(t, cfg.Profiler.Enabled)
}

func TestLoad_KeepsDefaultsForAbsentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: minimal\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := NewPoolConfig("minimal")
	assert.Equal(t, *want, *cfg)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	content := `
name: broken
retention:
  policy: lru
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("POOL_NAME", "from-env")
	t.Setenv("POOL_LIMIT", "512")

	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	content := `
name: ${POOL_NAME}
growth:
  mode: constant
  bucket_size: 128
retention:
  policy: max
  limit: ${POOL_LIMIT}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 512, cfg.Retention.Limit)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/pool.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")

	cfg := NewPoolConfig("saved")
	cfg.Retention.Policy = PolicyMax
	cfg.Retention.Limit = 1000
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, *cfg, *loaded)
}
