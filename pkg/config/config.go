package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
)

// Config holds process-level settings for the evolution runtime.
type Config struct {
	Session SessionDefaults `yaml:"session" validate:"required"`
	Logging LoggingConfig   `yaml:"logging"`
}

// SessionDefaults seeds new sessions when the caller leaves the
// corresponding start parameters unset.
type SessionDefaults struct {
	PopulationSize       int     `yaml:"population_size" validate:"min=1"`
	MaxGenerations       int     `yaml:"max_generations" validate:"min=1"`
	ConvergenceThreshold float64 `yaml:"convergence_threshold" validate:"gte=0,lte=1"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`
	Quiet bool   `yaml:"quiet"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionDefaults{
			PopulationSize:       3,
			MaxGenerations:       5,
			ConvergenceThreshold: 0.95,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load reads a YAML config file, layering it over the defaults and
// validating the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if invalid, ok := err.(*validator.InvalidValidationError); ok {
			return errors.Wrap(invalid, errors.Unknown, "config validation could not run")
		}

		verrs := err.(validator.ValidationErrors)
		fields := errors.Fields{}
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "invalid configuration"), fields)
	}
	return nil
}
