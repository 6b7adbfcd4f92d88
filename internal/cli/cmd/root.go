package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"clipsmith/internal/config"
	"clipsmith/internal/ui"
	"clipsmith/internal/util/media"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitMissingDep  = 2
	ExitProbeError  = 3
	ExitPlanError   = 4
	ExitProcessFail = 5
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clipsmith [file-or-directory]",
		Short:         "Menu-driven front end for common ffmpeg tasks",
		Long:          "Clipsmith assembles and runs ffmpeg invocations for everyday media tasks: inspecting files, joining clips, trimming, extracting audio, per-stream conversion, and cropping. Run it bare for the interactive menu, point it at a file to act on that file, or at a directory to join its media files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args)
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().StringP("out-dir", "o", ".", "Output directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "Show full subprocess commands/output")
	root.PersistentFlags().String("ffmpeg", "", "Path to the ffmpeg binary")
	root.PersistentFlags().String("ffprobe", "", "Path to the ffprobe binary")
	root.PersistentFlags().Int("jobs", 2, "Max concurrent join pre-steps")

	_ = config.Init(root)

	// Subcommands
	root.AddCommand(newInspectCmd())
	root.AddCommand(newJoinCmd())
	root.AddCommand(newTrimCmd())
	root.AddCommand(newExtractAudioCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newCropCmd())
	root.AddCommand(newMenuCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// addDryRunFlag binds --dry-run on the operation subcommands.
func addDryRunFlag(fs *pflag.FlagSet) {
	fs.Bool("dry-run", false, "Show the ffmpeg invocation(s) without executing")
}

// runRoot dispatches the bare invocation: no argument opens the interactive
// menu, a media file opens the action menu for that file, a directory joins
// the media files found inside it.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runMenu(cmd, ui.Entry{})
	}

	target := filepath.Clean(args[0])
	fi, err := os.Stat(target)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("cannot access %s: %w", target, err)}
	}

	if fi.IsDir() {
		files, err := media.Discover(target)
		if err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		if len(files) < 2 {
			return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%s contains %d media file(s); joining needs at least two", target, len(files))}
		}
		return executeJoin(cmd, files, 0, 0, 0)
	}

	if !media.IsMediaFile(target) {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%s does not look like a media file", target)}
	}
	return runMenu(cmd, ui.Entry{Source: target})
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// Helpers. cobra merges persistent flags into Flags() during execution, so
// these work from the root command and subcommands alike.
func getPersistentString(cmd *cobra.Command, name, def string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil || v == "" {
		return def
	}
	return v
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return def
	}
	return v
}

func getPersistentInt(cmd *cobra.Command, name string, def int) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return def
	}
	return v
}
