// Package config provides the configuration system for recycle pools.
// It defines a single PoolConfig structure describing a pool's bucket
// growth, retention behavior, and profiling, plus a YAML loader with
// environment variable substitution.
//
// Example usage:
//
//	cfg := config.NewPoolConfig("buffers")
//	cfg.Growth.BucketSize = 256
//	cfg.Retention.Policy = "max"
//	cfg.Retention.Limit = 4096
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"time"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// Growth modes understood by GrowthConfig.Mode.
const (
	GrowthConstant    = "constant"
	GrowthLinear      = "linear"
	GrowthExponential = "exponential"
)

// Retention policies understood by RetentionConfig.Policy.
const (
	PolicyAll      = "all"
	PolicyNone     = "none"
	PolicyMax      = "max"
	PolicyAllTimed = "all_timed"
	PolicyMaxTimed = "max_timed"
)

// Eviction functions understood by RetentionConfig.Evict.
const (
	EvictAll      = "all"
	EvictHalf     = "half"
	EvictConstant = "constant"
)

// PoolConfig is the unified configuration structure for one pool.
type PoolConfig struct {
	// Name identifies the pool instance
	Name string `yaml:"name" json:"name"`

	// Growth controls how bucket sizes grow as the pool fills
	Growth GrowthConfig `yaml:"growth" json:"growth"`

	// Retention controls whether and how long elements are kept
	Retention RetentionConfig `yaml:"retention" json:"retention"`

	// Profiler controls statistics gathering
	Profiler ProfilerConfig `yaml:"profiler" json:"profiler"`
}

// GrowthConfig selects the bucket growth curve.
type GrowthConfig struct {
	// Mode is one of constant, linear, exponential
	Mode string `yaml:"mode" json:"mode"`
	// BucketSize is the bucket length in constant mode
	BucketSize int `yaml:"bucket_size" json:"bucket_size"`
	// Slope and Intercept shape linear mode: slope*x + intercept
	Slope     int `yaml:"slope" json:"slope"`
	Intercept int `yaml:"intercept" json:"intercept"`
	// Coefficient and Base shape exponential mode: coefficient * base^x
	Coefficient int     `yaml:"coefficient" json:"coefficient"`
	Base        float64 `yaml:"base" json:"base"`
}

// RetentionConfig selects the retention policy.
type RetentionConfig struct {
	// Policy is one of all, none, max, all_timed, max_timed
	Policy string `yaml:"policy" json:"policy"`
	// Limit bounds retained elements for max and max_timed
	Limit int `yaml:"limit" json:"limit"`
	// Interval separates disposal runs for timed policies
	Interval time.Duration `yaml:"interval" json:"interval"`
	// Evict is one of all, half, constant
	Evict string `yaml:"evict" json:"evict"`
	// EvictCount is the per-run eviction count in constant mode
	EvictCount int `yaml:"evict_count" json:"evict_count"`
}

// ProfilerConfig controls the statistics decorator.
type ProfilerConfig struct {
	// Enabled wraps the pool in a Profiler
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Interval separates snapshot captures; zero disables the loop
	Interval time.Duration `yaml:"interval" json:"interval"`
}

// NewPoolConfig returns a configuration with sensible defaults: constant
// buckets of 128 elements, unlimited retention, profiling disabled.
func NewPoolConfig(name string) *PoolConfig {
	return &PoolConfig{
		Name: name,
		Growth: GrowthConfig{
			Mode:        GrowthConstant,
			BucketSize:  128,
			Slope:       64,
			Intercept:   64,
			Coefficient: 64,
			Base:        1.25,
		},
		Retention: RetentionConfig{
			Policy:   PolicyAll,
			Limit:    4096,
			Interval: time.Minute,
			Evict:    EvictHalf,
		},
		Profiler: ProfilerConfig{
			Enabled:  false,
			Interval: 10 * time.Second,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *PoolConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "pool name is required")
	}

	switch c.Growth.Mode {
	case GrowthConstant:
		if c.Growth.BucketSize < 1 {
			return errors.New(errors.ErrorTypeConfig, "bucket_size must be at least 1").
				WithDetail("bucket_size", c.Growth.BucketSize)
		}
	case GrowthLinear:
		if c.Growth.Slope < 1 || c.Growth.Intercept < 1 {
			return errors.New(errors.ErrorTypeConfig, "slope and intercept must be at least 1").
				WithDetail("slope", c.Growth.Slope).
				WithDetail("intercept", c.Growth.Intercept)
		}
	case GrowthExponential:
		if c.Growth.Coefficient < 1 {
			return errors.New(errors.ErrorTypeConfig, "coefficient must be at least 1").
				WithDetail("coefficient", c.Growth.Coefficient)
		}
		if c.Growth.Base < 1 {
			return errors.New(errors.ErrorTypeConfig, "base must be at least 1").
				WithDetail("base", c.Growth.Base)
		}
	default:
		return errors.New(errors.ErrorTypeConfig, "unknown growth mode").
			WithDetail("mode", c.Growth.Mode)
	}

	switch c.Retention.Policy {
	case PolicyAll, PolicyNone:
	case PolicyMax:
		if c.Retention.Limit < 1 {
			return errors.New(errors.ErrorTypeConfig, "retention limit must be at least 1").
				WithDetail("limit", c.Retention.Limit)
		}
	case PolicyAllTimed, PolicyMaxTimed:
		if c.Retention.Policy == PolicyMaxTimed && c.Retention.Limit < 1 {
			return errors.New(errors.ErrorTypeConfig, "retention limit must be at least 1").
				WithDetail("limit", c.Retention.Limit)
		}
		if c.Retention.Interval < time.Millisecond {
			return errors.New(errors.ErrorTypeConfig, "retention interval must be at least 1ms").
				WithDetail("interval", c.Retention.Interval.String())
		}
		switch c.Retention.Evict {
		case EvictAll, EvictHalf:
		case EvictConstant:
			if c.Retention.EvictCount < 1 {
				return errors.New(errors.ErrorTypeConfig, "evict_count must be at least 1").
					WithDetail("evict_count", c.Retention.EvictCount)
			}
		default:
			return errors.New(errors.ErrorTypeConfig, "unknown evict function").
				WithDetail("evict", c.Retention.Evict)
		}
	default:
		return errors.New(errors.ErrorTypeConfig, "unknown retention policy").
			WithDetail("policy", c.Retention.Policy)
	}

	if c.Profiler.Enabled && c.Profiler.Interval < 0 {
		return errors.New(errors.ErrorTypeConfig, "profiler interval is negative").
			WithDetail("interval", c.Profiler.Interval.String())
	}

	return nil
}
