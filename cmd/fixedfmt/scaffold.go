package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fixed-format/internal/analyze"
	"fixed-format/schema"
)

func newScaffoldCmd(opts *rootOptions) *cobra.Command {
	var (
		out   string
		all   bool
		names []string
	)

	cmd := &cobra.Command{
		Use:   "scaffold PACKAGE...",
		Short: "Write a YAML schema skeleton for the tagged structs of Go packages",
		Example: `  fixedfmt scaffold ./model -o model.schema.yaml
  fixedfmt scaffold --type Statement --type Transaction ./model`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := analyze.NewAnalyzer(opts.dir).LoadPackages(cmd.Context(), args...)
			if err != nil {
				return err
			}

			selected, err := selectStructs(graph, names, all)
			if err != nil {
				return err
			}

			opts.dump(cmd, selected)

			f := analyze.Scaffold(selected)

			if out != "" {
				if err := schema.WriteFile(f, out); err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d types to %s\n", len(f.Types), out)

				return nil
			}

			data, err := schema.Marshal(f)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write the schema to this file instead of stdout")
	cmd.Flags().BoolVar(&all, "all", false, "include structs without `fixed` tags")
	cmd.Flags().StringSliceVar(&names, "type", nil, "only these types (repeatable)")

	return cmd
}

func selectStructs(graph *analyze.TypeGraph, names []string, all bool) ([]*analyze.TypeInfo, error) {
	if len(names) > 0 {
		var out []*analyze.TypeInfo

		for _, n := range names {
			found := graph.Lookup(n)
			if len(found) == 0 {
				return nil, fmt.Errorf("type %q not found", n)
			}

			out = append(out, found...)
		}

		return out, nil
	}

	var out []*analyze.TypeInfo

	for _, t := range graph.Structs("") {
		if all || analyze.Tagged(t) {
			out = append(out, t)
		}
	}

	if len(out) == 0 {
		return nil, errors.New("no tagged structs found; use --all to include every struct")
	}

	return out, nil
}
