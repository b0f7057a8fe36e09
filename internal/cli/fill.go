package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/renderers/tui"
)

func newFillCmd(rt *runtime) *cobra.Command {
	var (
		valuesPath string
		attempts   int
	)
	cmd := &cobra.Command{
		Use:   "fill <template-id>",
		Short: "Prompt for every field of a template and store the submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := rt.Service(ctx)
			if err != nil {
				return err
			}
			form, err := svc.Form(ctx, args[0])
			if err != nil {
				return err
			}
			prefill, err := readValues(valuesPath)
			if err != nil {
				return err
			}

			renderer := tui.New(
				tui.WithPromptDriver(rt.driver),
				tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
			)

			var errs map[string][]string
			for attempt := 1; ; attempt++ {
				values, err := renderer.Fill(ctx, form, prefill, errs)
				if err != nil {
					return err
				}
				sub, err := svc.Submit(ctx, args[0], values)
				var verr *service.ValidationError
				if errors.As(err, &verr) && attempt < attempts {
					prefill = values
					errs = verr.Result.Payload()
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "submission %s stored\n", sub.ID)
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with default values")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "Prompt rounds before giving up on invalid input")
	return cmd
}
