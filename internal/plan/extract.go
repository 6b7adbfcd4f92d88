package plan

import (
	"fmt"
	"path/filepath"

	"clipsmith/internal/model"
	"clipsmith/internal/util/media"
)

// ExtractAudio builds a plan pulling one audio track into a standalone file.
// With no explicit index the first audio stream in report order is selected.
func ExtractAudio(desc model.MediaDescriptor, intent model.ExtractAudioIntent, outDir string) (Plan, error) {
	codec, ok := audioFormatCodecs[intent.Format]
	if !ok {
		return Plan{}, fmt.Errorf("extract-audio %s: unsupported format %q", intent.Source, intent.Format)
	}

	var selected *model.StreamDescriptor
	if intent.StreamIndex >= 0 {
		s, ok := desc.StreamByIndex(intent.StreamIndex)
		if !ok || s.Kind != model.StreamAudio {
			return Plan{}, &NoAudioStreamError{Source: intent.Source, Index: intent.StreamIndex}
		}
		selected = &s
	} else {
		audio := desc.AudioStreams()
		if len(audio) == 0 {
			return Plan{}, &NoAudioStreamError{Source: intent.Source, Index: -1}
		}
		selected = &audio[0]
	}

	out := filepath.Join(outDir, media.AudioName(intent.Source, string(intent.Format)))
	args := []string{
		"-y",
		"-i", intent.Source,
		"-vn",
		"-map", "0:" + itoa(selected.Index),
		"-c:a", codec,
	}
	switch codec {
	case "libmp3lame", "aac":
		args = append(args, "-b:a", "192k")
	}
	args = append(args, out)
	return newPlan(args, out), nil
}
