package cmd

import (
	"github.com/spf13/cobra"

	"clipsmith/internal/model"
)

func newCropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crop <file>",
		Short:         "Cut the video frame down to a region (re-encodes video)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		Example:       `  clipsmith crop input.mp4 --region 1280:720:320:180`,
		RunE: func(cmd *cobra.Command, args []string) error {
			regionStr, _ := cmd.Flags().GetString("region")
			region, err := parseRegion(regionStr)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			e, rerr := resolveEnv(cmd, true)
			if rerr != nil {
				return rerr
			}
			return runIntent(cmd, e, model.CropIntent{
				Source: args[0],
				Region: region,
			})
		},
	}
	cmd.Flags().String("region", "", "Crop region W:H:X:Y in source pixels (X:Y default to 0)")
	addDryRunFlag(cmd.Flags())
	_ = cmd.MarkFlagRequired("region")
	return cmd
}
