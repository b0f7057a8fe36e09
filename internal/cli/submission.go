package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdoc/pkg/store"
)

type submissionCommands struct {
	rt *runtime

	templateID string
	format     string
	output     string
	render     renderFlags
}

func newSubmissionCmd(rt *runtime) *cobra.Command {
	s := &submissionCommands{rt: rt}
	cmd := &cobra.Command{Use: "submission", Short: "Inspect stored submissions"}

	list := &cobra.Command{Use: "list", Short: "List submissions", Args: cobra.NoArgs, RunE: s.list}
	list.Flags().StringVar(&s.templateID, "template", "", "Only list submissions of this template")

	document := &cobra.Command{
		Use:   "document <id>",
		Short: "Render the filled document of a submission",
		Args:  cobra.ExactArgs(1),
		RunE:  s.document,
	}
	s.render.bind(document)

	dump := &cobra.Command{
		Use:   "export-all",
		Short: "Export every submission into one file",
		Args:  cobra.NoArgs,
		RunE:  s.exportAll,
	}
	dump.Flags().StringVar(&s.templateID, "template", "", "Only export submissions of this template")
	dump.Flags().StringVarP(&s.format, "format", "f", "json", "Export format: json, yaml or csv")
	dump.Flags().StringVarP(&s.output, "output", "o", "", "Write to this file, or '.' for the suggested file name")

	cmd.AddCommand(list, document, dump)
	cmd.AddCommand(&cobra.Command{Use: "show <id>", Short: "Show a submission", Args: cobra.ExactArgs(1), RunE: s.show})
	cmd.AddCommand(&cobra.Command{Use: "delete <id>", Short: "Delete a submission", Args: cobra.ExactArgs(1), RunE: s.delete})
	return cmd
}

func (s *submissionCommands) list(cmd *cobra.Command, args []string) error {
	subs, err := s.load(cmd)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEMPLATE\tVALUES\tSUBMITTED")
	for _, sub := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", sub.ID, sub.TemplateID, len(sub.Data), sub.SubmittedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (s *submissionCommands) show(cmd *cobra.Command, args []string) error {
	svc, err := s.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	sub, err := svc.GetSubmission(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), sub)
}

func (s *submissionCommands) delete(cmd *cobra.Command, args []string) error {
	svc, err := s.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	if err := svc.DeleteSubmission(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "submission %s deleted\n", args[0])
	return nil
}

func (s *submissionCommands) document(cmd *cobra.Command, args []string) error {
	svc, err := s.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := svc.RenderSubmission(cmd.Context(), args[0], s.render.request())
	if err != nil {
		return err
	}
	return writeRendered(cmd.OutOrStdout(), s.render.output, doc)
}

func (s *submissionCommands) exportAll(cmd *cobra.Command, args []string) error {
	svc, err := s.rt.Service(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := svc.ExportSubmissions(cmd.Context(), s.templateID, s.format, time.Now())
	if err != nil {
		return err
	}
	return writeRendered(cmd.OutOrStdout(), s.output, doc)
}

func (s *submissionCommands) load(cmd *cobra.Command) ([]store.Submission, error) {
	svc, err := s.rt.Service(cmd.Context())
	if err != nil {
		return nil, err
	}
	return svc.ListSubmissions(cmd.Context(), s.templateID)
}
