package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"clipsmith/internal/model"
)

// parseStreamActions turns --stream specs like "0=copy", "1=libx265", or
// "2=drop" into the per-stream action map. Unlisted streams default to keep.
func parseStreamActions(specs []string) (map[int]model.StreamAction, error) {
	actions := make(map[int]model.StreamAction, len(specs))
	for _, spec := range specs {
		idxStr, action, found := strings.Cut(spec, "=")
		if !found {
			return nil, fmt.Errorf("invalid stream spec %q (want INDEX=copy|drop|ENCODER)", spec)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid stream index in %q", spec)
		}
		if _, dup := actions[idx]; dup {
			return nil, fmt.Errorf("stream %d specified more than once", idx)
		}

		switch action = strings.TrimSpace(strings.ToLower(action)); action {
		case "":
			return nil, fmt.Errorf("missing action in %q", spec)
		case "copy", "keep":
			actions[idx] = model.StreamAction{Mode: model.ActionKeep}
		case "drop", "remove":
			actions[idx] = model.StreamAction{Mode: model.ActionDrop}
		default:
			actions[idx] = model.StreamAction{Mode: model.ActionTranscode, Codec: action}
		}
	}
	return actions, nil
}

// parseRegion parses "W:H:X:Y" in the same order ffmpeg's crop filter takes.
// X and Y default to 0 when omitted.
func parseRegion(s string) (model.CropRegion, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 4 {
		return model.CropRegion{}, fmt.Errorf("invalid region %q (want W:H or W:H:X:Y)", s)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return model.CropRegion{}, fmt.Errorf("invalid region %q: %v", s, err)
		}
		vals[i] = v
	}
	r := model.CropRegion{Width: vals[0], Height: vals[1]}
	if len(vals) == 4 {
		r.X, r.Y = vals[2], vals[3]
	}
	return r, nil
}

// parseStreamIndices parses a comma-separated index list like "0,1,3".
// An empty string means "all streams" and yields nil.
func parseStreamIndices(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid stream index %q", p)
		}
		indices = append(indices, v)
	}
	return indices, nil
}

// parseAudioFormat validates the extract-audio target format.
func parseAudioFormat(s string) (model.AudioFormat, error) {
	switch f := model.AudioFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case model.AudioMP3, model.AudioFLAC, model.AudioWAV, model.AudioM4A:
		return f, nil
	default:
		return "", fmt.Errorf("invalid audio format %q (valid: mp3|flac|wav|m4a)", s)
	}
}
