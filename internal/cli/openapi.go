package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/syssam/graphapi/export/openapi"
)

type openAPIOptions struct {
	title   string
	version string
	output  string
}

func registerOpenAPICmd(parent *cobra.Command, st *state) {
	parent.AddCommand(newOpenAPICmd(st))
}

func newOpenAPICmd(st *state) *cobra.Command {
	opts := &openAPIOptions{}

	cmd := &cobra.Command{
		Use:   "openapi DOC",
		Short: "Export the components of a document as OpenAPI 3.0 schemas",
		Example: `  graphapi openapi schema.json --title "Todo API" -o openapi.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpenAPI(cmd, st, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "API title (default \"GraphQL API\")")
	cmd.Flags().StringVar(&opts.version, "version", "", "API version (default the document version)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runOpenAPI(cmd *cobra.Command, st *state, opts *openAPIOptions, path string) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	spec, err := openapi.Export(doc, openapi.Info{
		Title:   opts.title,
		Version: opts.version,
		Logger:  st.logger,
	})
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, append(data, '\n'))
}
