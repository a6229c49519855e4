package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
	"github.com/syssam/graphapi/internal/config"
)

type buildOptions struct {
	from               string
	format             string
	nullability        string
	enums              string
	disableStringEnums bool
	strictScalars      bool
	output             string
	workers            int
	watch              bool
}

func registerBuildCmd(parent *cobra.Command, st *state) {
	parent.AddCommand(newBuildCmd(st))
}

func newBuildCmd(st *state) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [FILE...]",
		Short: "Build GraphApi documents from GraphQL schemas",
		Long: `Build a GraphApi document from each schema file. Files ending in .json are
read as introspection results, anything else as SDL, unless --from says
otherwise. Without arguments the schema files of the configuration are used.`,
		Example: `  # Print the document of one schema
  graphapi build schema.graphql

  # Build several schemas as YAML into a directory
  graphapi build a.graphql b.json --format yaml -o docs

  # Rebuild on every change
  graphapi build schema.graphql -o docs --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, st, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Input kind: sdl or introspection (default by extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json, yaml or msgpack")
	cmd.Flags().StringVar(&opts.nullability, "nullability", "", "Nullability encoding: flag, union or arrayType")
	cmd.Flags().StringVar(&opts.enums, "enums", "", "Enum encoding: list or const")
	cmd.Flags().BoolVar(&opts.disableStringEnums, "disable-string-enums", false, "Write a values entry for every enum member")
	cmd.Flags().BoolVar(&opts.strictScalars, "strict-scalars", false, "Tag Float with its scalar name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default stdout)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Files converted at once")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Rebuild when an input file changes (requires --output)")

	return cmd
}

// merge applies the flags that were set on top of the configuration.
func (o *buildOptions) merge(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("nullability") {
		cfg.Nullability = o.nullability
	}
	if flags.Changed("enums") {
		cfg.Enums = o.enums
	}
	if flags.Changed("disable-string-enums") {
		cfg.DisableStringEnums = o.disableStringEnums
	}
	if flags.Changed("strict-scalars") {
		cfg.StrictScalars = o.strictScalars
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	return cfg.Validate()
}

func runBuild(cmd *cobra.Command, st *state, opts *buildOptions, args []string) error {
	cfg := *st.cfg
	if err := opts.merge(cmd, &cfg); err != nil {
		return err
	}
	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Schema
	}
	if len(inputs) == 0 {
		return errors.New("no schema files given")
	}
	if opts.watch && cfg.Output == "" {
		return errors.New("--watch requires --output")
	}

	b, err := newBatch(&cfg, opts.from, st)
	if err != nil {
		return err
	}
	if err := b.run(cmd, inputs); err != nil {
		return err
	}
	if opts.watch {
		return watch(cmd.Context(), inputs, st.logger, func(path string) error {
			_, err := b.write(cmd, path)
			return err
		})
	}
	return nil
}

// batch converts schema files with one configuration.
type batch struct {
	cfg    *config.Config
	from   string
	format graphapi.Format
	st     *state
}

func newBatch(cfg *config.Config, from string, st *state) (*batch, error) {
	format, err := cfg.OutputFormat()
	if err != nil {
		return nil, err
	}
	return &batch{cfg: cfg, from: from, format: format, st: st}, nil
}

// run converts every input in parallel. Without an output directory the
// documents are written to stdout in argument order.
func (b *batch) run(cmd *cobra.Command, inputs []string) error {
	results := make([][]byte, len(inputs))
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(b.cfg.Workers)

	for i, path := range inputs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			data, err := b.write(cmd, path)
			results[i] = data
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if b.cfg.Output != "" {
		return nil
	}
	for _, data := range results {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}
	return nil
}

// write converts one input. With an output directory the document is
// written there and nil is returned; otherwise the encoded bytes are.
func (b *batch) write(cmd *cobra.Command, path string) ([]byte, error) {
	opts := append(b.cfg.BuilderOptions(), builder.WithLogger(b.st.logger))
	doc, err := buildFile(path, b.from, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Encode(&buf, b.format); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b.cfg.Output == "" {
		return buf.Bytes(), nil
	}
	out := outputPath(b.cfg.Output, path, b.format)
	if err := writeOutput(cmd, out, buf.Bytes()); err != nil {
		return nil, err
	}
	b.st.logger.Info("built document", "input", path, "output", out)
	return nil, nil
}
