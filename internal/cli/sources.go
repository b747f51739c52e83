package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/simtab/internal/registry"
	"github.com/roach88/simtab/internal/table"
)

// NewSourcesCommand creates the sources command: list registered
// sources and the size of their raw-column vocabularies.
func NewSourcesCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the workspace's sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(root.Config)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading workspace", err)
			}
			reg, err := BuildRegistry(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "building registry", err)
			}

			names := reg.SourceNames()
			out, err := table.New(
				nameColumn("source", names),
				columnCounts(reg, names),
			)
			if err != nil {
				return err
			}
			return RenderTable(cmd.OutOrStdout(), root.Format, out)
		},
	}
}

// NewNamesCommand creates the names command: list the raw variable
// names one source can serve.
func NewNamesCommand(root *RootOptions) *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List a source's raw variable names",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(root.Config)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading workspace", err)
			}
			reg, err := BuildRegistry(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "building registry", err)
			}
			src, ok := reg.Source(sourceName)
			if !ok {
				return WrapExitError(ExitFailure, "unknown source", fmt.Errorf("source %q does not exist", sourceName))
			}
			out, err := table.New(nameColumn("name", src.ValidNames()))
			if err != nil {
				return err
			}
			return RenderTable(cmd.OutOrStdout(), root.Format, out)
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "source name (required)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func nameColumn(header string, names []string) table.Column {
	return table.NewString(header, names)
}

func columnCounts(reg *registry.Registry, names []string) table.Column {
	counts := make([]int64, len(names))
	for i, n := range names {
		if src, ok := reg.Source(n); ok {
			counts[i] = int64(len(src.ValidNames()))
		}
	}
	return table.NewInt("columns", counts)
}
