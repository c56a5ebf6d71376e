package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// Load reads a pool configuration from a YAML file and validates it.
// ${VAR} references are expanded from the environment before parsing, and
// fields absent from the file keep the NewPoolConfig defaults.
func Load(filePath string) (*PoolConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", filePath)
	}

	cfg := NewPoolConfig("")
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse config file").
			WithDetail("path", filePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a pool configuration to a YAML file.
func Save(filePath string, cfg *PoolConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal config")
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file").
			WithDetail("path", filePath)
	}
	return nil
}

// substituteEnvVars expands ${VAR} references to environment values.
func substituteEnvVars(content string) string {
	return os.Expand(content, os.Getenv)
}
