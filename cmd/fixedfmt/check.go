package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixed-format/internal/analyze"
	"fixed-format/internal/check"
	"fixed-format/schema"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "check --schema FILE PACKAGE...",
		Short: "Validate a YAML schema file against the Go types it names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}

			graph, err := analyze.NewAnalyzer(opts.dir).LoadPackages(cmd.Context(), args...)
			if err != nil {
				return err
			}

			res := check.Validate(f, graph)
			opts.dump(cmd, res)

			for _, d := range res.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Severity, d)
			}

			if res.HasErrors() {
				return fmt.Errorf("%s: %d error(s)", schemaPath, len(res.Errors))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d types)\n", schemaPath, len(f.Types))

			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file to check")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
