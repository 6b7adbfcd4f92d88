package plan

import (
	"fmt"
	"path/filepath"

	"clipsmith/internal/model"
	"clipsmith/internal/util/media"
)

// Convert builds a plan applying a per-stream keep/transcode/drop decision.
// One explicit -map flag is emitted per surviving stream in ascending index
// order, so output track order is reproducible and matches the source.
func Convert(desc model.MediaDescriptor, intent model.ConvertIntent, outDir string) (Plan, error) {
	for idx, action := range intent.Actions {
		s, ok := desc.StreamByIndex(idx)
		if !ok {
			return Plan{}, fmt.Errorf("convert %s: stream index %d not present (file has %d streams)",
				intent.Source, idx, len(desc.Streams))
		}
		if action.Mode == model.ActionTranscode && !validConvertCodec(s.Kind, action.Codec) {
			return Plan{}, fmt.Errorf("convert %s: codec %q is not valid for %s stream %d",
				intent.Source, action.Codec, s.Kind, idx)
		}
	}

	out := filepath.Join(outDir, media.ModifiedName(intent.Source))
	args := []string{"-y", "-i", intent.Source}

	// Walk streams in report order (ascending index); map flags first, then
	// per-output-stream codec flags using per-kind output counters.
	var mapArgs, codecFlags []string
	counters := map[model.StreamKind]int{}
	kept := 0
	for _, s := range desc.Streams {
		action, ok := intent.Actions[s.Index]
		if !ok {
			action = model.StreamAction{Mode: model.ActionKeep}
		}
		if action.Mode == model.ActionDrop {
			continue
		}
		kept++
		mapArgs = append(mapArgs, "-map", "0:"+itoa(s.Index))
		n := counters[s.Kind]
		counters[s.Kind] = n + 1
		if action.Mode == model.ActionTranscode {
			codecFlags = codecArgs(codecFlags, s.Kind, n, action.Codec)
		} else {
			codecFlags = copyArgs(codecFlags, s.Kind, n)
		}
	}
	if kept == 0 {
		return Plan{}, &NoStreamsSelectedError{Source: intent.Source}
	}

	args = append(args, mapArgs...)
	args = append(args, codecFlags...)
	args = append(args, out)
	return newPlan(args, out), nil
}
