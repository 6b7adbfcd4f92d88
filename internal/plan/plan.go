// Package plan turns validated operation intents plus probe results into
// deterministic ffmpeg invocation plans. Builders are pure: no filesystem,
// no subprocess, no clock. Identical inputs always produce byte-identical
// argument vectors.
package plan

import "clipsmith/internal/util"

// Plan is one complete ffmpeg invocation: the ordered argument vector, a
// display-only preview line, and the expected output path. Argument order is
// processor-mandated: global flags, then per-input flags, then per-output
// flags, with the output path last.
type Plan struct {
	Args       []string
	Preview    string
	OutputPath string

	// Concat demuxer sidecar. When ConcatListPath is non-empty the executor
	// must write ConcatListData to that path before running Args (the builder
	// itself never touches the filesystem).
	ConcatListPath string
	ConcatListData string
}

// JoinPlan is the two-phase pipeline for a join: zero or more independent
// pre-processing plans (phase 1), then a single concatenation plan (phase 2).
// Phase 2 must not run unless every phase-1 plan succeeded.
type JoinPlan struct {
	PreSteps []Plan
	Concat   Plan

	TargetWidth      int
	TargetHeight     int
	TargetSampleRate int
}

func newPlan(args []string, outputPath string) Plan {
	return Plan{
		Args:       args,
		Preview:    "ffmpeg " + util.ShellJoin(args[0], args[1:]),
		OutputPath: outputPath,
	}
}
