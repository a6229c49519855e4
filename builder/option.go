package builder

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/typeref"
)

// EnumEncoding selects how enum members are written.
type EnumEncoding string

const (
	// EnumList writes members as a flat "enum" list.
	EnumList EnumEncoding = "list"
	// EnumConst writes every member as a {const} branch of "oneOf".
	EnumConst EnumEncoding = "const"
)

// ParseEnumEncoding returns the enum encoding called name.
func ParseEnumEncoding(name string) (EnumEncoding, error) {
	switch strings.ToLower(name) {
	case "", "list", "enum":
		return EnumList, nil
	case "const", "oneof":
		return EnumConst, nil
	}
	return "", graphapi.NewConfigError("EnumEncoding", name, "unknown enum encoding; use list or const")
}

// Config holds the build options.
type Config struct {
	// Nullability is the nullability encoding of every type fragment.
	Nullability typeref.Encoding
	// Enums selects the enum member layout.
	Enums EnumEncoding
	// DisableStringEnums writes a values entry for every enum member.
	DisableStringEnums bool
	// StrictScalars tags the Float built-in with its name.
	StrictScalars bool
	// Logger receives debug records for emitted and skipped types.
	Logger *slog.Logger
}

// Option configures a build.
type Option func(*Config) error

// WithNullability sets the nullability encoding.
func WithNullability(enc typeref.Encoding) Option {
	return func(c *Config) error {
		if enc == nil {
			return graphapi.NewConfigError("Nullability", nil, "encoding cannot be nil")
		}
		if enc == typeref.Auto {
			return graphapi.NewConfigError("Nullability", enc.Name(), "auto only decodes; pick flag, union, or arrayType")
		}
		c.Nullability = enc
		return nil
	}
}

// WithNullabilityName sets the nullability encoding by name.
func WithNullabilityName(name string) Option {
	return func(c *Config) error {
		enc, err := typeref.Parse(name)
		if err != nil {
			return err
		}
		if enc == typeref.Auto {
			enc = typeref.Flag
		}
		c.Nullability = enc
		return nil
	}
}

// WithEnumEncoding sets the enum member layout.
func WithEnumEncoding(e EnumEncoding) Option {
	return func(c *Config) error {
		switch e {
		case EnumList, EnumConst:
			c.Enums = e
			return nil
		}
		return graphapi.NewConfigError("EnumEncoding", string(e), "unknown enum encoding; use list or const")
	}
}

// WithDisableStringEnums writes the values map for every enum member,
// including members without description or deprecation.
func WithDisableStringEnums(disable bool) Option {
	return func(c *Config) error {
		c.DisableStringEnums = disable
		return nil
	}
}

// WithStrictScalars keeps the Float built-in name as format.
func WithStrictScalars(strict bool) Option {
	return func(c *Config) error {
		c.StrictScalars = strict
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return graphapi.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config with defaults (flag nullability, enum list)
// and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Nullability: typeref.Flag,
		Enums:       EnumList,
		Logger:      slog.Default(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) coercion() typeref.Coercion {
	return typeref.Coercion{Strict: c.StrictScalars}
}
