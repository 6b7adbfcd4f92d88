package plan

import (
	"fmt"
	"strconv"

	"clipsmith/internal/model"
)

// videoEncoders maps probed video codec names to the encoder that reproduces
// the same codec family. Join pre-steps use this to re-encode non-conforming
// inputs into something stream-copy concatenation can accept.
var videoEncoders = map[string]string{
	"h264":  "libx264",
	"hevc":  "libx265",
	"vp9":   "libvpx-vp9",
	"mpeg4": "mpeg4",
}

// audioEncoders is the audio counterpart of videoEncoders.
var audioEncoders = map[string]string{
	"aac":       "aac",
	"mp3":       "libmp3lame",
	"opus":      "libopus",
	"vorbis":    "libvorbis",
	"flac":      "flac",
	"pcm_s16le": "pcm_s16le",
}

// audioFormatCodecs maps an extract-audio target format to its encoder.
var audioFormatCodecs = map[model.AudioFormat]string{
	model.AudioMP3:  "libmp3lame",
	model.AudioFLAC: "flac",
	model.AudioWAV:  "pcm_s16le",
	model.AudioM4A:  "aac",
}

// convertCodecs lists the encoders offered per stream kind during Convert.
var convertCodecs = map[model.StreamKind][]string{
	model.StreamVideo:    {"libx264", "libx265", "libvpx-vp9"},
	model.StreamAudio:    {"aac", "libmp3lame", "libopus", "libvorbis", "flac"},
	model.StreamSubtitle: {"srt", "ass", "mov_text"},
}

// ConvertCodecs returns the encoder choices for a stream kind, for selector
// UIs and flag validation.
func ConvertCodecs(kind model.StreamKind) []string {
	out := make([]string, len(convertCodecs[kind]))
	copy(out, convertCodecs[kind])
	return out
}

func validConvertCodec(kind model.StreamKind, codec string) bool {
	for _, c := range convertCodecs[kind] {
		if c == codec {
			return true
		}
	}
	return false
}

// codecArgs appends the per-output-stream codec flags for one converted
// stream, using the stream-type counter n (e.g. -c:v:0, -c:a:1). Quality
// defaults follow the interactive converter's conventions.
func codecArgs(args []string, kind model.StreamKind, n int, codec string) []string {
	sel := streamSelector(kind)
	args = append(args, fmt.Sprintf("-c:%s:%d", sel, n), codec)
	switch codec {
	case "libx264":
		args = append(args,
			fmt.Sprintf("-crf:v:%d", n), "23",
			fmt.Sprintf("-preset:v:%d", n), "medium",
			fmt.Sprintf("-pix_fmt:v:%d", n), "yuv420p",
		)
	case "libx265":
		args = append(args,
			fmt.Sprintf("-crf:v:%d", n), "28",
			fmt.Sprintf("-preset:v:%d", n), "medium",
		)
	case "aac", "libmp3lame", "libvorbis":
		args = append(args, fmt.Sprintf("-b:a:%d", n), "192k")
	case "libopus":
		args = append(args, fmt.Sprintf("-b:a:%d", n), "160k")
	}
	return args
}

func copyArgs(args []string, kind model.StreamKind, n int) []string {
	return append(args, fmt.Sprintf("-c:%s:%d", streamSelector(kind), n), "copy")
}

func streamSelector(kind model.StreamKind) string {
	switch kind {
	case model.StreamVideo:
		return "v"
	case model.StreamAudio:
		return "a"
	default:
		return "s"
	}
}

func itoa(v int) string { return strconv.Itoa(v) }
