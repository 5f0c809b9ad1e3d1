package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSchemaCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the tool definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _ := newRegistry()
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				return writeJSON(out, registry.Schemas())
			case "openai":
				return writeJSON(out, registry.OpenAITools())
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(registry.Schemas())
			default:
				return fmt.Errorf("unknown format %q (json, yaml, openai)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or openai")

	return cmd
}
