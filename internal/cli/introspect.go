package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi/graph/introspection"
)

func registerIntrospectCmd(parent *cobra.Command, st *state) {
	parent.AddCommand(newIntrospectCmd(st))
}

func newIntrospectCmd(st *state) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "introspect FILE.graphql",
		Short: "Write the introspection result of an SDL schema",
		Example: `  graphapi introspect schema.graphql -o schema.json
  graphapi build schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntrospect(cmd, st, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runIntrospect(cmd *cobra.Command, st *state, path, output string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := gqlparser.LoadSchema(&ast.Source{Name: path, Input: string(data)})
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	out, err := introspection.Marshal(introspection.FromSchema(s))
	if err != nil {
		return err
	}
	st.logger.Debug("introspected schema", "path", path, "types", len(s.Types))
	return writeOutput(cmd, output, append(out, '\n'))
}
