package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clipsmith/internal/model"
	"clipsmith/internal/util/media"
)

func newJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "join <files...|directory>",
		Short:         "Concatenate clips into one file, reconciling formats first",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := collectJoinInputs(args)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			rate, _ := cmd.Flags().GetInt("sample-rate")
			return executeJoin(cmd, inputs, width, height, rate)
		},
	}
	cmd.Flags().Int("width", 0, "Target width override (0: highest among inputs)")
	cmd.Flags().Int("height", 0, "Target height override (0: highest among inputs)")
	cmd.Flags().Int("sample-rate", 0, "Target audio sample rate override in Hz (0: highest among inputs)")
	addDryRunFlag(cmd.Flags())
	return cmd
}

// collectJoinInputs expands a single directory argument into its media files,
// in sorted order; multiple arguments are taken verbatim in the given order.
func collectJoinInputs(args []string) ([]string, error) {
	if len(args) == 1 {
		fi, err := os.Stat(args[0])
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", args[0], err)
		}
		if fi.IsDir() {
			files, err := media.Discover(filepath.Clean(args[0]))
			if err != nil {
				return nil, err
			}
			if len(files) < 2 {
				return nil, fmt.Errorf("%s contains %d media file(s); joining needs at least two", args[0], len(files))
			}
			return files, nil
		}
		return nil, fmt.Errorf("joining needs at least two files (or one directory)")
	}
	return args, nil
}

func executeJoin(cmd *cobra.Command, inputs []string, width, height, sampleRate int) error {
	e, err := resolveEnv(cmd, true)
	if err != nil {
		return err
	}
	return runIntent(cmd, e, model.JoinIntent{
		Inputs:           inputs,
		TargetWidth:      width,
		TargetHeight:     height,
		TargetSampleRate: sampleRate,
	})
}
