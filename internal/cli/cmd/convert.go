package cmd

import (
	"github.com/spf13/cobra"

	"clipsmith/internal/model"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "convert <file>",
		Short:         "Rewrite a file with per-stream keep/transcode/drop decisions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		Example: `  clipsmith convert movie.mkv --stream 0=libx265 --stream 1=copy
  clipsmith convert movie.mkv --stream 2=drop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, _ := cmd.Flags().GetStringArray("stream")
			actions, err := parseStreamActions(specs)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			e, rerr := resolveEnv(cmd, true)
			if rerr != nil {
				return rerr
			}
			return runIntent(cmd, e, model.ConvertIntent{
				Source:  args[0],
				Actions: actions,
			})
		},
	}
	cmd.Flags().StringArray("stream", nil, "Per-stream action INDEX=copy|drop|ENCODER (repeatable)")
	addDryRunFlag(cmd.Flags())
	return cmd
}
