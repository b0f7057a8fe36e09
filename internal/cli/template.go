package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/render"
)

type templateCommands struct {
	rt *runtime

	title        string
	description  string
	format       string
	canonicalize bool
}

func newTemplateCmd(rt *runtime) *cobra.Command {
	t := &templateCommands{rt: rt}
	cmd := &cobra.Command{Use: "template", Short: "Manage document templates"}

	add := &cobra.Command{
		Use:   "add <file>",
		Short: "Store a template from a markdown, HTML or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  t.add,
	}
	add.Flags().StringVar(&t.title, "title", "", "Template title (defaults to the file name)")
	add.Flags().StringVar(&t.description, "description", "", "Template description")
	add.Flags().StringVar(&t.format, "format", "", "Body format: markdown or html (defaults from the file extension)")
	add.Flags().BoolVar(&t.canonicalize, "canonicalize", false, "Rewrite legacy placeholders into canonical tokens")

	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{Use: "list", Short: "List templates", Args: cobra.NoArgs, RunE: t.list})
	cmd.AddCommand(&cobra.Command{Use: "show <id>", Short: "Show a template and its fields", Args: cobra.ExactArgs(1), RunE: t.show})
	cmd.AddCommand(&cobra.Command{Use: "delete <id>", Short: "Delete a template", Args: cobra.ExactArgs(1), RunE: t.delete})
	return cmd
}

// templateFile is the YAML layout accepted by template add.
type templateFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Format      string `yaml:"format"`
	Markup      string `yaml:"markup"`
}

func readTemplateInput(path string) (service.TemplateInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.TemplateInput{}, fmt.Errorf("read template: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	in := service.TemplateInput{Title: name, Markup: string(data)}

	switch ext {
	case ".yaml", ".yml":
		var doc templateFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return service.TemplateInput{}, fmt.Errorf("parse template %s: %w", path, err)
		}
		in.Markup = doc.Markup
		in.Description = doc.Description
		in.Format = doc.Format
		if doc.Title != "" {
			in.Title = doc.Title
		}
	case ".html", ".htm":
		in.Format = string(render.BodyHTML)
	default:
		in.Format = string(render.BodyMarkdown)
	}
	return in, nil
}

func (t *templateCommands) add(cmd *cobra.Command, args []string) error {
	in, err := readTemplateInput(args[0])
	if err != nil {
		return err
	}
	if t.title != "" {
		in.Title = t.title
	}
	if t.description != "" {
		in.Description = t.description
	}
	if t.format != "" {
		in.Format = t.format
	}
	in.Canonicalize = t.canonicalize

	svc, err := t.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	tpl, err := svc.CreateTemplate(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "template %s saved with %d field(s)\n", tpl.ID, len(tpl.Fields))
	return nil
}

func (t *templateCommands) list(cmd *cobra.Command, args []string) error {
	svc, err := t.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	templates, err := svc.ListTemplates(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFIELDS\tUPDATED")
	for _, tpl := range templates {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", tpl.ID, tpl.Title, len(tpl.Fields), tpl.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (t *templateCommands) show(cmd *cobra.Command, args []string) error {
	svc, err := t.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	tpl, err := svc.GetTemplate(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), tpl)
}

func (t *templateCommands) delete(cmd *cobra.Command, args []string) error {
	svc, err := t.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	if err := svc.DeleteTemplate(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "template %s deleted\n", args[0])
	return nil
}
