package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
	"github.com/syssam/graphapi/graph/gqlast"
	"github.com/syssam/graphapi/graph/introspection"
)

// Input kinds accepted by build.
const (
	fromSDL           = "sdl"
	fromIntrospection = "introspection"
)

// sourceKind returns from, or infers it from the file extension.
func sourceKind(path, from string) (string, error) {
	switch strings.ToLower(from) {
	case fromSDL, "graphql":
		return fromSDL, nil
	case fromIntrospection, "json":
		return fromIntrospection, nil
	case "":
	default:
		return "", graphapi.NewConfigError("From", from, "use sdl or introspection")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return fromIntrospection, nil
	}
	return fromSDL, nil
}

// buildFile converts one schema file into a document.
func buildFile(path, from string, opts ...builder.Option) (*graphapi.Document, error) {
	kind, err := sourceKind(path, from)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc *graphapi.Document
	switch kind {
	case fromIntrospection:
		s, err := introspection.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc, err = builder.FromIntrospection(s, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		g, err := gqlast.Load(&ast.Source{Name: path, Input: string(data)})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc, err = builder.Build(g, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return doc, nil
}

// readDocument decodes a document, choosing the format by extension.
func readDocument(path string) (*graphapi.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := graphapi.Decode(f, graphapi.FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputPath returns the document path of input under dir.
func outputPath(dir, input string, f graphapi.Format) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+f.Ext())
}
