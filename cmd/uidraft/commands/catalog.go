package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/sweetpotato0/uidraft/action"
)

func newCatalogCmd(a *app) *cobra.Command {
	var (
		query  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the action catalog offered to the model",
		Long: `Print the tool definitions used for action generation.

--query filters the catalog JSON with a jq expression, for example:
  uidraft catalog --query '.[] | select(.function.name == "setIcon")'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := json.Marshal(action.Catalog())
			if err != nil {
				return err
			}
			var doc any
			if err := json.Unmarshal(data, &doc); err != nil {
				return err
			}

			results := []any{doc}
			if query != "" {
				if results, err = runQuery(cmd, query, doc); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, v := range results {
				switch format {
				case formatJSON:
					b, err := json.MarshalIndent(v, "", "  ")
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintln(out, string(b)); err != nil {
						return err
					}
				case formatYAML:
					b, err := yaml.Marshal(v)
					if err != nil {
						return err
					}
					if _, err := out.Write(b); err != nil {
						return err
					}
				case formatText:
					if err := writeCatalogText(out, v); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown format %q", format)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "jq expression applied to the catalog")
	cmd.Flags().StringVarP(&format, "format", "o", formatJSON, "output format: json, yaml or text")
	return cmd
}

func runQuery(cmd *cobra.Command, expr string, doc any) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	var results []any
	iter := q.RunWithContext(cmd.Context(), doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq %q: %w", expr, err)
		}
		results = append(results, v)
	}
	return results, nil
}

// writeCatalogText lists tool names and descriptions when v is the catalog,
// and falls back to plain values otherwise.
func writeCatalogText(out io.Writer, v any) error {
	tools, ok := v.([]any)
	if !ok {
		_, err := fmt.Fprintln(out, v)
		return err
	}
	for _, t := range tools {
		m, _ := t.(map[string]any)
		fn, _ := m["function"].(map[string]any)
		var err error
		if fn == nil {
			_, err = fmt.Fprintln(out, t)
		} else {
			_, err = fmt.Fprintf(out, "%s  %s\n", styles.Action.Render(fmt.Sprint(fn["name"])), styles.Dim.Render(fmt.Sprint(fn["description"])))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
