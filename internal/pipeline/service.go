// Package pipeline orchestrates the probe → plan → execute workflow.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"clipsmith/internal/model"
	"clipsmith/internal/plan"
	"clipsmith/internal/probe"
	"clipsmith/internal/progress"
	"clipsmith/internal/runner"
	"clipsmith/internal/session"
	"clipsmith/internal/util"
	"clipsmith/internal/util/format"
)

// Service orchestrates media operations: it probes inputs, builds invocation
// plans, and executes them. It never prints; when a Reporter is present, it
// emits progress events and a final Result.
type Service struct {
	ffmpegPath  string
	ffprobePath string
	outDir      string
	workDir     string
	verbose     bool
	dryRun      bool
	jobs        int
	runner      runner.Runner
	reporter    progress.Reporter
	sessions    *session.Logger
	jobID       string
}

// Option configures a Service.
type Option func(*Service)

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithFFprobePath sets the ffprobe binary path.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithOutDir sets the directory where final outputs are written.
func WithOutDir(dir string) Option {
	return func(s *Service) {
		s.outDir = dir
	}
}

// WithWorkDir sets the staging directory for join pre-step outputs and the
// concat list. When unset, a per-run temporary directory is created and
// removed afterwards.
func WithWorkDir(dir string) Option {
	return func(s *Service) {
		s.workDir = dir
	}
}

// WithVerbose enables streaming of subprocess output.
func WithVerbose(v bool) Option {
	return func(s *Service) {
		s.verbose = v
	}
}

// WithDryRun computes plans without executing anything.
func WithDryRun(v bool) Option {
	return func(s *Service) {
		s.dryRun = v
	}
}

// WithJobs caps how many join pre-steps run concurrently.
func WithJobs(n int) Option {
	return func(s *Service) {
		s.jobs = n
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r runner.Runner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithSessionLogger attaches the invocation log.
func WithSessionLogger(l *session.Logger) Option {
	return func(s *Service) {
		s.sessions = l
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// NewService constructs a new Service with the provided options.
// It applies sensible defaults for missing components.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = runner.NewDefaultRunner()
	}
	if s.outDir == "" {
		s.outDir = "."
	}
	if s.jobs <= 0 {
		s.jobs = 2
	}
	return s
}

// Result is the outcome of RunIntent.
type Result struct {
	Operation   model.OperationKind
	Descriptors []model.MediaDescriptor
	Plans       []plan.Plan // execution order; for joins: pre-steps then concat
	OutputPath  string
	Bytes       int64
	Planned     bool // true when dry-run stopped after planning
}

// RunIntent executes one operation end to end. The switch is exhaustive over
// every intent type; an unknown intent is a programming error.
func (s *Service) RunIntent(ctx context.Context, intent model.OperationIntent) (Result, error) {
	if s.ffprobePath == "" {
		return Result{}, fmt.Errorf("ffprobe path is required")
	}
	if _, ok := intent.(model.InspectIntent); !ok && !s.dryRun && s.ffmpegPath == "" {
		return Result{}, fmt.Errorf("ffmpeg path is required")
	}

	switch it := intent.(type) {
	case model.InspectIntent:
		return s.runInspect(ctx, it)
	case model.JoinIntent:
		return s.runJoin(ctx, it)
	case model.TrimIntent:
		return s.runTrim(ctx, it)
	case model.ExtractAudioIntent:
		return s.runExtractAudio(ctx, it)
	case model.ConvertIntent:
		return s.runConvert(ctx, it)
	case model.CropIntent:
		return s.runCrop(ctx, it)
	default:
		return Result{}, fmt.Errorf("unsupported operation %q", intent.Kind())
	}
}

func (s *Service) runInspect(ctx context.Context, it model.InspectIntent) (Result, error) {
	desc, err := s.probeOne(ctx, it.Source)
	if err != nil {
		return Result{Operation: model.OpInspect}, err
	}
	res := Result{
		Operation:   model.OpInspect,
		Descriptors: []model.MediaDescriptor{desc},
	}
	if s.reporter != nil {
		s.reporter.Update(progress.Update{
			JobID:   s.jobID,
			Stage:   progress.StageCompleted,
			Percent: 100,
			Message: fmt.Sprintf("Probed: %s", filepath.Base(it.Source)),
		})
		s.reporter.Result(progress.Result{JobID: s.jobID})
	}
	return res, nil
}

func (s *Service) runTrim(ctx context.Context, it model.TrimIntent) (Result, error) {
	desc, err := s.probeOne(ctx, it.Source)
	if err != nil {
		return Result{Operation: model.OpTrim}, err
	}
	pl, err := plan.Trim(desc, it, s.outDir)
	if err != nil {
		return Result{Operation: model.OpTrim, Descriptors: []model.MediaDescriptor{desc}}, err
	}
	return s.finishSingle(ctx, model.OpTrim, desc, pl, it.EndSec-it.StartSec, "Trimming")
}

func (s *Service) runExtractAudio(ctx context.Context, it model.ExtractAudioIntent) (Result, error) {
	desc, err := s.probeOne(ctx, it.Source)
	if err != nil {
		return Result{Operation: model.OpExtractAudio}, err
	}
	pl, err := plan.ExtractAudio(desc, it, s.outDir)
	if err != nil {
		return Result{Operation: model.OpExtractAudio, Descriptors: []model.MediaDescriptor{desc}}, err
	}
	return s.finishSingle(ctx, model.OpExtractAudio, desc, pl, desc.DurationSec, "Extracting audio")
}

func (s *Service) runConvert(ctx context.Context, it model.ConvertIntent) (Result, error) {
	desc, err := s.probeOne(ctx, it.Source)
	if err != nil {
		return Result{Operation: model.OpConvert}, err
	}
	pl, err := plan.Convert(desc, it, s.outDir)
	if err != nil {
		return Result{Operation: model.OpConvert, Descriptors: []model.MediaDescriptor{desc}}, err
	}
	return s.finishSingle(ctx, model.OpConvert, desc, pl, desc.DurationSec, "Converting")
}

func (s *Service) runCrop(ctx context.Context, it model.CropIntent) (Result, error) {
	desc, err := s.probeOne(ctx, it.Source)
	if err != nil {
		return Result{Operation: model.OpCrop}, err
	}
	pl, err := plan.Crop(desc, it, s.outDir)
	if err != nil {
		return Result{Operation: model.OpCrop, Descriptors: []model.MediaDescriptor{desc}}, err
	}
	return s.finishSingle(ctx, model.OpCrop, desc, pl, desc.DurationSec, "Cropping")
}

// finishSingle handles the shared tail of single-plan operations: dry-run
// short-circuit, execution, and final reporting.
func (s *Service) finishSingle(ctx context.Context, op model.OperationKind, desc model.MediaDescriptor, pl plan.Plan, durationSec float64, message string) (Result, error) {
	res := Result{
		Operation:   op,
		Descriptors: []model.MediaDescriptor{desc},
		Plans:       []plan.Plan{pl},
		OutputPath:  pl.OutputPath,
	}

	if s.dryRun {
		res.Planned = true
		s.emitPlanned(pl.OutputPath)
		return res, nil
	}

	if err := s.runPlan(ctx, op, pl, progress.StageProcessing, durationSec, message); err != nil {
		s.emitError(pl.OutputPath, err)
		return res, err
	}

	res.Bytes = fileSize(pl.OutputPath)
	s.emitSaved(pl.OutputPath, res.Bytes)
	return res, nil
}

func (s *Service) runJoin(ctx context.Context, it model.JoinIntent) (Result, error) {
	res := Result{Operation: model.OpJoin}

	descs, err := s.probeAll(ctx, it.Inputs)
	if err != nil {
		return res, err
	}
	res.Descriptors = descs

	workDir := s.workDir
	if workDir == "" {
		workDir, err = util.MakeTempWorkdir("join")
		if err != nil {
			return res, fmt.Errorf("staging dir: %w", err)
		}
		defer os.RemoveAll(workDir)
	}

	jp, err := plan.Join(descs, it, s.outDir, workDir)
	if err != nil {
		return res, err
	}
	res.Plans = append(append(res.Plans, jp.PreSteps...), jp.Concat)
	res.OutputPath = jp.Concat.OutputPath

	if s.dryRun {
		res.Planned = true
		s.emitPlanned(jp.Concat.OutputPath)
		return res, nil
	}

	// Phase 1: pre-steps are independent, run them concurrently. Phase 2 must
	// not start unless every one of them succeeded.
	if err := s.runPreSteps(ctx, descs, jp.PreSteps); err != nil {
		s.emitError(jp.Concat.OutputPath, err)
		return res, fmt.Errorf("join pre-step: %w", err)
	}

	totalSec := 0.0
	for _, d := range descs {
		totalSec += d.DurationSec
	}
	if err := s.runPlan(ctx, model.OpJoin, jp.Concat, progress.StageConcatenating, totalSec, "Concatenating"); err != nil {
		s.emitError(jp.Concat.OutputPath, err)
		return res, err
	}

	res.Bytes = fileSize(jp.Concat.OutputPath)
	s.emitSaved(jp.Concat.OutputPath, res.Bytes)
	return res, nil
}

// runPreSteps executes phase-1 plans with bounded concurrency and returns the
// first error. On failure every pre-step output is removed, including those
// that already completed.
func (s *Service) runPreSteps(ctx context.Context, descs []model.MediaDescriptor, steps []plan.Plan) error {
	if len(steps) == 0 {
		return nil
	}

	durationFor := func(outPath string) float64 {
		// Pre-step outputs carry the source basename; fall back to 0 (unknown).
		for _, d := range descs {
			if d.DurationSec > 0 && matchesSource(outPath, d.Path) {
				return d.DurationSec
			}
		}
		return 0
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.jobs)
	errs := make([]error, len(steps))
	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		go func(i int, step plan.Plan) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			msg := fmt.Sprintf("Normalizing %s", filepath.Base(step.OutputPath))
			if err := s.runPlan(ctx, model.OpJoin, step, progress.StagePreprocessing, durationFor(step.OutputPath), msg); err != nil {
				errs[i] = err
				cancel() // abort siblings; phase 2 must not run
			}
		}(i, step)
	}
	wg.Wait()

	var first error
	for _, err := range errs {
		if err != nil {
			first = err
			break
		}
	}
	if first != nil {
		for _, step := range steps {
			_ = util.RemoveIfExists(step.OutputPath)
		}
	}
	return first
}

// runPlan executes one ffmpeg invocation: materializes the concat list when
// present, wires machine-readable progress, records the invocation in the
// session log, and removes the partial output on failure or cancellation.
func (s *Service) runPlan(ctx context.Context, op model.OperationKind, pl plan.Plan, stage progress.Stage, durationSec float64, message string) error {
	if pl.ConcatListPath != "" {
		if err := os.WriteFile(pl.ConcatListPath, []byte(pl.ConcatListData), 0o644); err != nil {
			return fmt.Errorf("write concat list: %w", err)
		}
	}
	if dir := filepath.Dir(pl.OutputPath); dir != "" && dir != "." {
		if err := util.EnsureDir(dir); err != nil {
			return fmt.Errorf("output dir: %w", err)
		}
	}

	s.emitUpdate(progress.Update{
		JobID:   s.jobID,
		Stage:   stage,
		Percent: 0,
		Message: message,
	})

	// Progress plumbing is an execution concern, not part of the plan. It is
	// spliced in before the output path, which every plan keeps last.
	args := make([]string, 0, len(pl.Args)+3)
	args = append(args, pl.Args[:len(pl.Args)-1]...)
	args = append(args, "-progress", "pipe:1", "-nostats")
	args = append(args, pl.Args[len(pl.Args)-1])

	var st progress.State
	start := time.Now()
	res, runErr := s.runner.Run(ctx, runner.CmdSpec{
		Path:    s.ffmpegPath,
		Args:    args,
		Verbose: s.verbose,
		StdoutLine: func(line string) {
			if u, ok := st.UpdateFromLine(line, s.jobID, stage, durationSec, message); ok {
				s.emitUpdate(u)
			}
		},
		StderrLine: func(line string) {
			if s.reporter != nil {
				s.reporter.Log(progress.Log{JobID: s.jobID, Stream: progress.StreamStderr, Line: line})
			}
		},
	})

	err := runErr
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		err = ctxErr
	}

	s.sessions.Append(session.Record{
		Operation:  string(op),
		Command:    pl.Preview,
		OutputPath: pl.OutputPath,
		ExitCode:   res.Code,
		Duration:   time.Since(start),
		Err:        err,
	})

	if err != nil {
		// Never leave a truncated file behind.
		_ = util.RemoveIfExists(pl.OutputPath)
		if runErr != nil && err != runErr {
			return fmt.Errorf("%w (%v)", err, runErr)
		}
		return err
	}
	return nil
}

// probeOne inspects a single source, reporting the probing stage.
func (s *Service) probeOne(ctx context.Context, source string) (model.MediaDescriptor, error) {
	s.emitUpdate(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageProbing,
		Percent: -1,
		Message: fmt.Sprintf("Probing %s", filepath.Base(source)),
	})
	return probe.Probe(ctx, source, probe.Options{
		FFprobePath: s.ffprobePath,
		Verbose:     s.verbose,
		Runner:      s.runner,
	})
}

// probeAll inspects every input concurrently, preserving input order.
func (s *Service) probeAll(ctx context.Context, inputs []string) ([]model.MediaDescriptor, error) {
	s.emitUpdate(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageProbing,
		Percent: -1,
		Message: fmt.Sprintf("Probing %d inputs", len(inputs)),
	})

	descs := make([]model.MediaDescriptor, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			descs[i], errs[i] = probe.Probe(ctx, in, probe.Options{
				FFprobePath: s.ffprobePath,
				Verbose:     s.verbose,
				Runner:      s.runner,
			})
		}(i, in)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return descs, nil
}

func (s *Service) emitUpdate(u progress.Update) {
	if s.reporter != nil {
		s.reporter.Update(u)
	}
}

// emitPlanned sends a final "planned" update and reporter result for TUI.
func (s *Service) emitPlanned(outPath string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: fmt.Sprintf("Planned: %s (dry-run)", filepath.Base(outPath)),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: outPath,
	})
}

// emitSaved sends a final "saved" update and reporter result for TUI.
func (s *Service) emitSaved(outPath string, bytes int64) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: fmt.Sprintf("Saved: %s (%s)", filepath.Base(outPath), format.HumanizeBytes(bytes)),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: outPath,
		Bytes:      bytes,
	})
}

func (s *Service) emitError(outPath string, err error) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageError,
		Percent: -1,
		Message: err.Error(),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: outPath,
		Err:        err,
	})
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// matchesSource reports whether a staged pre-step output was derived from the
// given source file, based on the basename embedded by the plan builder.
func matchesSource(stepOut, source string) bool {
	stem := filepath.Base(source)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	return stem != "" && strings.Contains(filepath.Base(stepOut), stem)
}
