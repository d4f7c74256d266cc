package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	debug bool
	dir   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fixedfmt",
		Short:         "Inspect patterns and maintain schema files for fixed-width records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "dump intermediate structures")
	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "directory package patterns are resolved in")

	cmd.AddCommand(
		newTokensCmd(opts),
		newScaffoldCmd(opts),
		newCheckCmd(opts),
	)

	return cmd
}

// dump writes v to the command's error stream when --debug is set.
func (o *rootOptions) dump(cmd *cobra.Command, v ...any) {
	if !o.debug {
		return
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(cmd.ErrOrStderr(), v...)
}
