package printer

import (
	"log/slog"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/typeref"
)

// Config holds the print options.
type Config struct {
	// Encoding decodes type fragments. Auto accepts every encoding.
	Encoding typeref.Encoding
	// SchemaDefinition prints the schema block when the document has a
	// description.
	SchemaDefinition bool
	Logger           *slog.Logger
}

// Option configures printing.
type Option func(*Config) error

// WithEncoding sets the nullability encoding fragments are read with.
func WithEncoding(enc typeref.Encoding) Option {
	return func(c *Config) error {
		if enc == nil {
			return graphapi.NewConfigError("Encoding", nil, "encoding cannot be nil")
		}
		c.Encoding = enc
		return nil
	}
}

// WithSchemaDefinition toggles the schema block.
func WithSchemaDefinition(on bool) Option {
	return func(c *Config) error {
		c.SchemaDefinition = on
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

func newConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Encoding:         typeref.Auto,
		SchemaDefinition: true,
		Logger:           slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
