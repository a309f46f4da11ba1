package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available workers",
		Long: `List the available workers, one per line, as tab-separated
name, output mode and description.

Examples:
  scenario list
  scenario list | cut -f1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, m := range a.registry.Models() {
				info := m.Info()
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", info.Name, info.Mode, info.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
