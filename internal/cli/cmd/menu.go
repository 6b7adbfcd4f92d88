package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"clipsmith/internal/ui"
)

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "menu [file]",
		Short:         "Open the interactive menu",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := ui.Entry{}
			if len(args) == 1 {
				entry.Source = args[0]
			}
			return runMenu(cmd, entry)
		},
	}
}

func runMenu(cmd *cobra.Command, entry ui.Entry) error {
	if !isTerminal() {
		return &ExitError{
			Code: ExitCLIError,
			Err:  errors.New("interactive mode needs a terminal; use the subcommands in scripts"),
		}
	}

	e, err := resolveEnv(cmd, true)
	if err != nil {
		return err
	}
	log := openSessionLog()
	defer log.Close()

	uerr := ui.Run(cmd.Context(), ui.Config{
		Entry:       entry,
		FFmpegPath:  e.FFmpegPath,
		FFprobePath: e.FFprobePath,
		OutDir:      e.OutDir,
		Verbose:     e.Verbose,
		Jobs:        e.Jobs,
		Sessions:    log,
	})
	if uerr != nil {
		return classify(uerr)
	}
	return nil
}
