package cmd

import (
	"github.com/spf13/cobra"

	"clipsmith/internal/model"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "inspect <file>",
		Short:         "Probe a media file and show its streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := resolveEnv(cmd, false)
			if err != nil {
				return err
			}
			return runIntent(cmd, e, model.InspectIntent{Source: args[0]})
		},
	}
}
