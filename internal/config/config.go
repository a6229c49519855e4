// Package config loads the command-line settings of graphapi.
//
// Settings are layered: built-in defaults, then graphapi.yaml (or the file
// named by GRAPHAPI_CONFIG), then GRAPHAPI_* environment variables. Command
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
)

// Prefix is the environment variable prefix.
const Prefix = "graphapi"

// DefaultFile is read when no configuration path is given.
const DefaultFile = "graphapi.yaml"

// Config is the merged command-line configuration.
type Config struct {
	// File is the configuration file that was read, if any.
	File string `yaml:"-" envconfig:"CONFIG"`

	// Nullability names the nullability encoding: flag, union or arrayType.
	Nullability string `yaml:"nullability,omitempty" envconfig:"NULLABILITY"`

	// Enums names the enum member layout: list or const.
	Enums string `yaml:"enums,omitempty" envconfig:"ENUMS"`

	DisableStringEnums bool `yaml:"disableStringEnums,omitempty" envconfig:"DISABLE_STRING_ENUMS"`
	StrictScalars      bool `yaml:"strictScalars,omitempty" envconfig:"STRICT_SCALARS"`

	// Format is the output document format.
	Format string `yaml:"format,omitempty" envconfig:"FORMAT"`

	LogLevel string `yaml:"logLevel,omitempty" envconfig:"LOG_LEVEL"`

	// Schema lists the input files used when a command gets no arguments.
	Schema StringList `yaml:"schema,omitempty" envconfig:"SCHEMA"`

	// Output is the output directory of build.
	Output string `yaml:"output,omitempty" envconfig:"OUTPUT"`

	// Workers bounds the number of files converted at once.
	Workers int `yaml:"workers,omitempty" envconfig:"WORKERS"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Nullability: "flag",
		Enums:       string(builder.EnumList),
		Format:      string(graphapi.FormatJSON),
		LogLevel:    "info",
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// Load merges the defaults, the configuration file and the environment.
// An empty path means GRAPHAPI_CONFIG, or graphapi.yaml when that is unset;
// only an explicitly named file has to exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var env struct {
			File string `envconfig:"CONFIG"`
		}
		if err := envconfig.Process(Prefix, &env); err != nil {
			return nil, fmt.Errorf("config: process environment: %w", err)
		}
		path, explicit = env.File, env.File != ""
	}
	if path == "" {
		path = DefaultFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("no configuration file", "path", path)
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.File = path
		slog.Debug("loaded configuration file", "path", path)
	}

	// Environment variables override the file.
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every selector value.
func (c *Config) Validate() error {
	if _, err := builder.NewConfig(c.BuilderOptions()...); err != nil {
		return err
	}
	if _, err := graphapi.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers < 1 {
		return graphapi.NewConfigError("Workers", c.Workers, "must be at least 1")
	}
	return nil
}

// BuilderOptions returns the build options selected by c.
func (c *Config) BuilderOptions() []builder.Option {
	opts := []builder.Option{
		builder.WithNullabilityName(c.Nullability),
		builder.WithDisableStringEnums(c.DisableStringEnums),
		builder.WithStrictScalars(c.StrictScalars),
	}
	enums, err := builder.ParseEnumEncoding(c.Enums)
	if err != nil {
		opts = append(opts, func(*builder.Config) error { return err })
	} else {
		opts = append(opts, builder.WithEnumEncoding(enums))
	}
	return opts
}

// OutputFormat returns the configured document format.
func (c *Config) OutputFormat() (graphapi.Format, error) {
	return graphapi.ParseFormat(c.Format)
}

// ParsedLogLevel returns the slog.Level named by LogLevel, falling back to
// info.
func (c *Config) ParsedLogLevel() slog.Level {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, graphapi.NewConfigError("LogLevel", s, "use debug, info, warn, or error")
}
