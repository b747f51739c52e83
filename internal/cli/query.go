package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/simtab/internal/alias"
	"github.com/roach88/simtab/internal/table"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	Source string
	Names  []string
	Start  int
	End    int
}

// NewQueryCommand creates the query command: resolve variable names
// against a source's alias group and print the resulting table.
func NewQueryCommand(root *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query variables from a source",
		Long: "Query resolves the requested variable names through the source's\n" +
			"alias group, reads only the raw columns the resolution needs, and\n" +
			"prints the derived table. Without --names, all raw columns are\n" +
			"returned with no aliasing applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(root.Config)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading workspace", err)
			}
			reg, err := BuildRegistry(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "building registry", err)
			}

			req := alias.Request{
				Names: opts.Names,
				Span:  &table.Span{Start: opts.Start, End: opts.End},
			}
			tbl, err := reg.Fetch(cmd.Context(), opts.Source, req)
			if err != nil {
				return WrapExitError(ExitFailure, "query failed", err)
			}
			return RenderTable(cmd.OutOrStdout(), root.Format, tbl)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source name (required)")
	cmd.Flags().StringSliceVarP(&opts.Names, "names", "n", nil, "variable names to query (default: all raw columns)")
	cmd.Flags().IntVar(&opts.Start, "start", 0, "first row of the output (positional)")
	cmd.Flags().IntVar(&opts.End, "end", -1, "row after the last output row (-1 = end)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
