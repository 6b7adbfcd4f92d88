package plan

import (
	"fmt"
	"path/filepath"

	"clipsmith/internal/model"
	"clipsmith/internal/util/media"
	"clipsmith/internal/util/timecode"
)

// Trim builds a stream-copy cut of [StartSec, EndSec). The seek flag is
// placed before the input for fast keyframe seeking and the window length is
// expressed as an output duration. All original streams are preserved unless
// the intent filters which container indices to keep.
func Trim(desc model.MediaDescriptor, intent model.TrimIntent, outDir string) (Plan, error) {
	if intent.StartSec < 0 {
		return Plan{}, &InvalidRangeError{Source: intent.Source, StartSec: intent.StartSec, EndSec: intent.EndSec}
	}
	if intent.EndSec <= intent.StartSec {
		return Plan{}, &InvalidRangeError{Source: intent.Source, StartSec: intent.StartSec, EndSec: intent.EndSec}
	}
	for _, idx := range intent.KeepStreams {
		if _, ok := desc.StreamByIndex(idx); !ok {
			return Plan{}, fmt.Errorf("trim %s: stream index %d not present (file has %d streams)",
				intent.Source, idx, len(desc.Streams))
		}
	}

	out := filepath.Join(outDir, media.TrimmedName(intent.Source))
	args := []string{
		"-y",
		"-ss", timecode.Format(intent.StartSec),
		"-i", intent.Source,
		"-t", timecode.Format(intent.EndSec - intent.StartSec),
	}
	if len(intent.KeepStreams) == 0 {
		args = append(args, "-map", "0")
	} else {
		for _, idx := range intent.KeepStreams {
			args = append(args, "-map", "0:"+itoa(idx))
		}
	}
	args = append(args, "-c", "copy", out)
	return newPlan(args, out), nil
}
