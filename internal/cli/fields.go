package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/token"
)

func newFieldsCmd() *cobra.Command {
	var (
		output string
		tokens bool
	)
	cmd := &cobra.Command{
		Use:   "fields <file>",
		Short: "Print the fields declared by a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readTemplateInput(args[0])
			if err != nil {
				return err
			}

			var v any
			if tokens {
				v = token.Extract(in.Markup)
			} else {
				v = model.ToSchema(token.Extract(in.Markup))
			}

			switch output {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(v)
			case "json", "":
				return printJSON(cmd.OutOrStdout(), v)
			default:
				return fmt.Errorf("unknown output %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "Print raw tokens instead of the field schema")
	return cmd
}

// readValues loads prefilled values from a JSON or YAML file.
func readValues(path string) (model.Values, error) {
	if path == "" {
		return model.Values{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := model.Values{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
