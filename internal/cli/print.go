package cli

import (
	"github.com/spf13/cobra"

	"github.com/syssam/graphapi/printer"
)

type printOptions struct {
	output           string
	schemaDefinition bool
}

func registerPrintCmd(parent *cobra.Command, st *state) {
	parent.AddCommand(newPrintCmd(st))
}

func newPrintCmd(st *state) *cobra.Command {
	opts := &printOptions{}

	cmd := &cobra.Command{
		Use:   "print DOC",
		Short: "Print a GraphApi document as GraphQL SDL",
		Long: `Decode a GraphApi document and print it as GraphQL SDL. The document format
is chosen by extension: .json, .yaml/.yml or .msgpack. Any nullability
encoding is accepted.`,
		Example: `  graphapi print schema.json
  graphapi print schema.yaml -o schema.graphql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, st, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&opts.schemaDefinition, "schema-definition", true, "Print the schema block when the document has a description")

	return cmd
}

func runPrint(cmd *cobra.Command, st *state, opts *printOptions, path string) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	sdl, err := printer.Print(doc,
		printer.WithLogger(st.logger),
		printer.WithSchemaDefinition(opts.schemaDefinition),
	)
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, []byte(sdl+"\n"))
}
