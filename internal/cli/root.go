// Package cli contains the graphapi command tree.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/graphapi/internal/config"
)

// state is shared by every command of one invocation.
type state struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	st := &state{}
	rootCmd := &cobra.Command{
		Use:   "graphapi",
		Short: "Convert GraphQL schemas to GraphApi documents and back",
		Long: `graphapi converts a GraphQL schema, given as SDL or as introspection
JSON, into a GraphApi document and prints documents back to SDL.

Settings are read from graphapi.yaml (or $GRAPHAPI_CONFIG), then from
GRAPHAPI_* environment variables; command flags win over both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: st.load,
	}
	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", "", "Configuration file (default graphapi.yaml)")
	rootCmd.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	registerBuildCmd(rootCmd, st)
	registerPrintCmd(rootCmd, st)
	registerIntrospectCmd(rootCmd, st)
	registerFetchCmd(rootCmd, st)
	registerInspectCmd(rootCmd, st)
	registerOpenAPICmd(rootCmd, st)

	return rootCmd
}

// load reads the configuration and installs the logger.
func (st *state) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	if st.logLevel != "" {
		cfg.LogLevel = st.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	st.cfg = cfg
	st.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.ParsedLogLevel()}))
	slog.SetDefault(st.logger)
	st.logger.Debug("configuration loaded", "file", cfg.File, "nullability", cfg.Nullability, "format", cfg.Format)
	return nil
}
