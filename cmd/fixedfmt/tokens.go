package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fixed-format/path"
	"fixed-format/pattern"
)

func newTokensCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens PATTERN",
		Short: "Compile a pattern and list its tokens",
		Example: `  fixedfmt tokens '${bankCode:8}${accountNumber:10}'
  fixedfmt tokens 'TX${transactions:45}[10]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := pattern.Compile(args[0])
			if err != nil {
				return err
			}

			opts.dump(cmd, tokens)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tKIND\tTOKEN\tWIDTH\tPATH")

			for i, tok := range tokens {
				if tok.IsLiteral() {
					fmt.Fprintf(tw, "%d\tliteral\t%q\t%d\t\n", i, tok.Literal, len([]rune(tok.Literal)))
					continue
				}

				width := "-"
				if tok.Field.Width != nil {
					width = strconv.Itoa(*tok.Field.Width)
				}

				fmt.Fprintf(tw, "%d\tfield\t%s\t%s\t%s\n", i, tok, width, describePath(tok.Field))
			}

			return tw.Flush()
		},
	}
}

// describePath lists the segments of a placeholder path with their selectors.
func describePath(f *pattern.Field) string {
	expr, err := path.Parse(f.Expr)
	if err != nil {
		return "invalid: " + err.Error()
	}

	if err := path.ApplyRepeat(expr, f.Repeat); err != nil {
		return "invalid: " + err.Error()
	}

	parts := make([]string, 0, len(expr.Segments))
	for _, seg := range expr.Segments {
		parts = append(parts, seg.Name+"("+seg.Kind.String()+")")
	}

	return strings.Join(parts, " ")
}
