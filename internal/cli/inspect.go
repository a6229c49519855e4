package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/go-openapi/inflect"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/graphapi"
)

func registerInspectCmd(parent *cobra.Command, st *state) {
	parent.AddCommand(newInspectCmd(st))
}

func newInspectCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect DOC",
		Short: "Summarize a GraphApi document and check its references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, st, args[0])
		},
	}
}

// count is one line of the inspect report.
type count struct {
	label string
	n     int
}

func runInspect(cmd *cobra.Command, st *state, path string) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Version\t%s\n", doc.GraphAPI)
	for _, c := range summarize(doc) {
		fmt.Fprintf(tw, "%s\t%d\n", c.label, c.n)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	st.logger.Debug("document references resolve", "path", path)
	return nil
}

// summarize counts the root operations and the components of every kind.
func summarize(doc *graphapi.Document) []count {
	counts := []count{
		{label("queries"), doc.Queries.Len()},
		{label("mutations"), doc.Mutations.Len()},
		{label("subscriptions"), doc.Subscriptions.Len()},
	}
	c := doc.Components
	if c == nil {
		c = &graphapi.Components{}
	}
	sizes := map[graphapi.Kind]int{
		graphapi.KindDirectiveDefinition: c.DirectiveDefinitions.Len(),
		graphapi.KindScalar:              c.Scalars.Len(),
		graphapi.KindObject:              c.Objects.Len(),
		graphapi.KindInterface:           c.Interfaces.Len(),
		graphapi.KindUnion:               c.Unions.Len(),
		graphapi.KindEnum:                c.Enums.Len(),
		graphapi.KindInputObject:         c.InputObjects.Len(),
	}
	for _, k := range graphapi.Kinds {
		counts = append(counts, count{label(k.Bucket()), sizes[k]})
	}
	return counts
}

// label turns a document key such as "inputObjects" into "Input Objects".
func label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(inflect.Underscore(key), "_", " "))
}
