package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"clipsmith/internal/dirs"
	"clipsmith/internal/inspect"
	"clipsmith/internal/model"
	"clipsmith/internal/pipeline"
	"clipsmith/internal/plan"
	"clipsmith/internal/probe"
	"clipsmith/internal/session"
	"clipsmith/internal/util/deps"
	"clipsmith/internal/util/format"
)

// env carries the resolved common options for one invocation.
type env struct {
	FFmpegPath  string
	FFprobePath string
	OutDir      string
	Verbose     bool
	DryRun      bool
	Jobs        int
}

// resolveEnv locates the external tools and normalizes common flags.
// needFFmpeg is false for probe-only operations and dry runs.
func resolveEnv(cmd *cobra.Command, needFFmpeg bool) (env, error) {
	e := env{
		OutDir:  filepath.Clean(getPersistentString(cmd, "out-dir", ".")),
		Verbose: getPersistentBool(cmd, "verbose", false),
		Jobs:    getPersistentInt(cmd, "jobs", 2),
	}
	if e.Jobs <= 0 {
		e.Jobs = 2
	}
	if f := cmd.Flags().Lookup("dry-run"); f != nil {
		e.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}

	ffprobe, err := deps.FindFFprobe(getPersistentString(cmd, "ffprobe", ""))
	if err != nil {
		return env{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	e.FFprobePath = ffprobe

	if needFFmpeg && !e.DryRun {
		ffmpeg, err := deps.FindFFmpeg(getPersistentString(cmd, "ffmpeg", ""))
		if err != nil {
			return env{}, &ExitError{Code: ExitMissingDep, Err: err}
		}
		e.FFmpegPath = ffmpeg
	}

	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return env{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}
	return e, nil
}

// openSessionLog opens the invocation log; a nil logger is fine on failure.
func openSessionLog() *session.Logger {
	path, err := dirs.SessionLogPath()
	if err != nil {
		return nil
	}
	l, err := session.Open(path)
	if err != nil {
		return nil
	}
	return l
}

// runIntent executes an intent in plain (non-TUI) mode and prints the outcome.
func runIntent(cmd *cobra.Command, e env, intent model.OperationIntent) error {
	log := openSessionLog()
	defer log.Close()

	svc := pipeline.NewService(
		pipeline.WithFFmpegPath(e.FFmpegPath),
		pipeline.WithFFprobePath(e.FFprobePath),
		pipeline.WithOutDir(e.OutDir),
		pipeline.WithVerbose(e.Verbose),
		pipeline.WithDryRun(e.DryRun),
		pipeline.WithJobs(e.Jobs),
		pipeline.WithSessionLogger(log),
	)

	res, err := svc.RunIntent(cmd.Context(), intent)
	if err != nil {
		return classify(err)
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Operation == model.OpInspect:
		for _, d := range res.Descriptors {
			fmt.Fprint(out, inspect.Render(d))
		}
	case res.Planned:
		fmt.Fprintln(out, "Dry-run plan:")
		for _, p := range res.Plans {
			fmt.Fprintf(out, "  %s\n", p.Preview)
		}
		fmt.Fprintf(out, "Output: %s\n", res.OutputPath)
	default:
		fmt.Fprintf(out, "Saved: %s (%s)\n", res.OutputPath, format.HumanizeBytes(res.Bytes))
	}
	return nil
}

// classify maps domain errors onto process exit codes.
func classify(err error) error {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}

	var probeErr *probe.ProbeError
	if errors.As(err, &probeErr) {
		return &ExitError{Code: ExitProbeError, Err: err}
	}

	var (
		rangeErr  *plan.InvalidRangeError
		audioErr  *plan.NoAudioStreamError
		selErr    *plan.NoStreamsSelectedError
		regionErr *plan.InvalidRegionError
		streamErr *plan.IncompatibleStreamsError
	)
	if errors.As(err, &rangeErr) || errors.As(err, &audioErr) ||
		errors.As(err, &selErr) || errors.As(err, &regionErr) ||
		errors.As(err, &streamErr) {
		return &ExitError{Code: ExitPlanError, Err: err}
	}

	return &ExitError{Code: ExitProcessFail, Err: err}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
