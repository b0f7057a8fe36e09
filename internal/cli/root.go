// Package cli assembles the formdoc command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the formdoc command with every subcommand attached.
func NewRootCmd(version, buildDate string, opts ...Option) *cobra.Command {
	rt := &runtime{version: version, buildDate: buildDate}
	for _, opt := range opts {
		if opt != nil {
			opt(rt)
		}
	}

	root := &cobra.Command{
		Use:           "formdoc",
		Short:         "Fill document templates with typed placeholders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.Close()
		},
	}
	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newServeCmd(rt))
	root.AddCommand(newTemplateCmd(rt))
	root.AddCommand(newFieldsCmd())
	root.AddCommand(newFillCmd(rt))
	root.AddCommand(newRenderCmd(rt))
	root.AddCommand(newSubmissionCmd(rt))
	root.AddCommand(newExportCmd(rt))
	return root
}

func newVersionCmd(version, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "formdoc %s (%s)\n", version, buildDate)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
