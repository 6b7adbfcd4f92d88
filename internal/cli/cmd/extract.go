package cmd

import (
	"github.com/spf13/cobra"

	"clipsmith/internal/model"
)

func newExtractAudioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "extract-audio <file>",
		Short:         "Pull one audio track into a standalone file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			stream, _ := cmd.Flags().GetInt("stream")

			format, err := parseAudioFormat(formatStr)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			e, rerr := resolveEnv(cmd, true)
			if rerr != nil {
				return rerr
			}
			return runIntent(cmd, e, model.ExtractAudioIntent{
				Source:      args[0],
				Format:      format,
				StreamIndex: stream,
			})
		},
	}
	cmd.Flags().String("format", "mp3", "Audio format: mp3, flac, wav, m4a")
	cmd.Flags().Int("stream", -1, "Audio stream index to extract (default: first audio stream)")
	addDryRunFlag(cmd.Flags())
	return cmd
}
