package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipsmith/internal/model"
	"clipsmith/internal/util/timecode"
)

func newTrimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "trim <file>",
		Short:         "Cut a segment out of a file without re-encoding",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startStr, _ := cmd.Flags().GetString("start")
			endStr, _ := cmd.Flags().GetString("end")
			streamsStr, _ := cmd.Flags().GetString("streams")

			start, err := timecode.Parse(startStr)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --start: %v", err)}
			}
			end, err := timecode.Parse(endStr)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --end: %v", err)}
			}
			keep, err := parseStreamIndices(streamsStr)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			e, rerr := resolveEnv(cmd, true)
			if rerr != nil {
				return rerr
			}
			return runIntent(cmd, e, model.TrimIntent{
				Source:      args[0],
				StartSec:    start,
				EndSec:      end,
				KeepStreams: keep,
			})
		},
	}
	cmd.Flags().String("start", "0", "Segment start (seconds or HH:MM:SS.mmm)")
	cmd.Flags().String("end", "", "Segment end (seconds or HH:MM:SS.mmm)")
	cmd.Flags().String("streams", "", "Comma-separated stream indices to keep (default: all)")
	addDryRunFlag(cmd.Flags())
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
