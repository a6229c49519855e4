package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gqlintrospection "github.com/99designs/gqlgen/graphql/introspection"
	"github.com/spf13/cobra"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
	"github.com/syssam/graphapi/graph/introspection"
)

type fetchOptions struct {
	headers []string
	timeout time.Duration
	format  string
	output  string
	save    string
}

func registerFetchCmd(parent *cobra.Command, st *state) {
	parent.AddCommand(newFetchCmd(st))
}

func newFetchCmd(st *state) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Introspect a running GraphQL endpoint and build its document",
		Example: `  graphapi fetch http://localhost:8080/query
  graphapi fetch https://api.example.com/graphql -H "Authorization: Bearer $TOKEN" -o api.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, st, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, `Request header as "Name: value"`)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json, yaml or msgpack")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&opts.save, "save-introspection", "", "Also write the raw introspection result to this file")

	return cmd
}

func runFetch(cmd *cobra.Command, st *state, opts *fetchOptions, url string) error {
	cfg := *st.cfg
	if cmd.Flags().Changed("format") {
		cfg.Format = opts.format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	data, err := fetchIntrospection(cmd, url, opts)
	if err != nil {
		return err
	}
	if opts.save != "" {
		if err := writeOutput(cmd, opts.save, data); err != nil {
			return err
		}
	}
	s, err := introspection.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", url, err)
	}
	doc, err := builder.FromIntrospection(s, append(cfg.BuilderOptions(), builder.WithLogger(st.logger))...)
	if err != nil {
		return err
	}
	out, err := doc.Marshal(format)
	if err != nil {
		return err
	}
	st.logger.Info("fetched schema", "url", url, "types", len(s.Types))
	return writeOutput(cmd, opts.output, out)
}

// fetchIntrospection posts the standard introspection query and returns the
// response body.
func fetchIntrospection(cmd *cobra.Command, url string, opts *fetchOptions) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"query": gqlintrospection.Query})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, h := range opts.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, graphapi.NewConfigError("Header", h, `expected "Name: value"`)
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return data, nil
}
