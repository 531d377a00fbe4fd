package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/efebarandurmaz/pronet/internal/observability"
	"github.com/efebarandurmaz/pronet/internal/rank"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Network NetworkConfig `mapstructure:"network"`
	Rank    RankConfig    `mapstructure:"rank"`
	Graph   GraphConfig   `mapstructure:"graph"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type NetworkConfig struct {
	Path string `mapstructure:"path"`
}

type RankConfig struct {
	Damping       float64 `mapstructure:"damping"`
	Baseline      float64 `mapstructure:"baseline"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// Options converts the section into validated rank options.
func (c RankConfig) Options() rank.Options {
	opts := rank.Options{
		Damping:       c.Damping,
		Baseline:      c.Baseline,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
	opts.Validate()
	return opts
}

type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Observability converts the section into an observability.TracingConfig.
func (c TracingConfig) Observability() *observability.TracingConfig {
	cfg := observability.DefaultTracingConfig()
	cfg.OTLPEndpoint = c.Endpoint
	if c.ServiceName != "" {
		cfg.ServiceName = c.ServiceName
	}
	cfg.SampleRate = c.SampleRate
	return cfg
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	defaults := rank.DefaultOptions()
	return &Config{
		Network: NetworkConfig{Path: "ProNet.xml"},
		Rank: RankConfig{
			Damping:       defaults.Damping,
			Baseline:      defaults.Baseline,
			Tolerance:     defaults.Tolerance,
			MaxIterations: defaults.MaxIterations,
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{ServiceName: "pronet", SampleRate: 1.0},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("network.path", d.Network.Path)
	v.SetDefault("rank.damping", d.Rank.Damping)
	v.SetDefault("rank.baseline", d.Rank.Baseline)
	v.SetDefault("rank.tolerance", d.Rank.Tolerance)
	v.SetDefault("rank.max_iterations", d.Rank.MaxIterations)
	v.SetDefault("graph.uri", "")
	v.SetDefault("graph.username", "")
	v.SetDefault("graph.password", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Rank.Damping <= 0 || c.Rank.Damping > 1 {
		warnings = append(warnings, fmt.Sprintf("rank damping %.2f is outside (0, 1]; using %.2f", c.Rank.Damping, rank.DefaultDamping))
	}
	if c.Rank.Damping == 1 {
		warnings = append(warnings, "rank damping 1 may not converge on cyclic networks; max_iterations bounds the solve")
	}
	if c.Rank.Baseline <= 0 {
		warnings = append(warnings, fmt.Sprintf("rank baseline %.2f is not positive", c.Rank.Baseline))
	}
	if c.Rank.MaxIterations < 0 {
		warnings = append(warnings, fmt.Sprintf("rank max_iterations %d is negative", c.Rank.MaxIterations))
	}

	if c.Graph.URI != "" && c.Graph.Username == "" {
		warnings = append(warnings, fmt.Sprintf("graph uri '%s' is configured but username is empty", c.Graph.URI))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("log level '%s' is unknown", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		warnings = append(warnings, fmt.Sprintf("log format '%s' is unknown", c.Log.Format))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside [0.0, 1.0]", c.Tracing.SampleRate))
	}

	return warnings
}

// Load reads configuration from file and environment. An empty path uses
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PRONET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s was not found: %w", path, err)
			}
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}
