package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdoc/internal/service"
)

type renderFlags struct {
	renderer string
	output   string
	fragment bool
	theme    string
	variant  string
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.renderer, "renderer", "", "Renderer name: html or markdown")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to this file, or '.' for the suggested file name")
	cmd.Flags().BoolVar(&f.fragment, "fragment", false, "Emit the body only, without the page shell")
	cmd.Flags().StringVar(&f.theme, "theme", "", "Theme name")
	cmd.Flags().StringVar(&f.variant, "variant", "", "Theme variant")
}

func (f *renderFlags) request() service.PreviewRequest {
	return service.PreviewRequest{
		Renderer:     f.renderer,
		Fragment:     f.fragment,
		ThemeName:    f.theme,
		ThemeVariant: f.variant,
	}
}

func newRenderCmd(rt *runtime) *cobra.Command {
	var (
		flags      renderFlags
		valuesPath string
	)
	cmd := &cobra.Command{
		Use:   "render <template-id>",
		Short: "Render a template with values from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.Service(cmd.Context())
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			req := flags.request()
			req.Values = values
			doc, err := svc.Preview(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return writeRendered(cmd.OutOrStdout(), flags.output, doc)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with field values")
	return cmd
}

func newExportCmd(rt *runtime) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <submission-id>",
		Short: "Export a submission as json, yaml or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.Service(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := svc.ExportSubmission(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			return writeRendered(cmd.OutOrStdout(), output, doc)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, yaml or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file, or '.' for the suggested file name")
	return cmd
}

// writeRendered writes doc to stdout, to path, or to doc.FileName when path
// is ".".
func writeRendered(stdout io.Writer, path string, doc service.Rendered) error {
	switch path {
	case "":
		_, err := stdout.Write(doc.Body)
		return err
	case ".":
		path = doc.FileName
	}
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}
