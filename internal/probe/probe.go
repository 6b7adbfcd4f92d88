// Package probe inspects media files with ffprobe and maps its JSON report
// into typed descriptors. It is the only package that depends on the exact
// shape of ffprobe's output.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"clipsmith/internal/model"
	"clipsmith/internal/runner"
)

// ProbeError reports a failed or unparsable inspection. Output holds the raw
// diagnostic text from ffprobe so callers can surface it verbatim.
type ProbeError struct {
	Path   string
	Output string
	Err    error
}

func (e *ProbeError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("probe %s: %v: %s", e.Path, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Options controls how a probe call is executed.
type Options struct {
	FFprobePath string
	Verbose     bool
	Runner      runner.Runner
}

// Probe inspects the file at path and returns its descriptor. A missing or
// unreadable path, a non-zero ffprobe exit, or unparsable output all yield a
// *ProbeError. There are no retries: a probe failure is terminal for the
// current operation.
func Probe(ctx context.Context, path string, opts Options) (model.MediaDescriptor, error) {
	if opts.FFprobePath == "" {
		return model.MediaDescriptor{}, &ProbeError{Path: path, Err: fmt.Errorf("ffprobe path is required")}
	}
	if _, err := os.Stat(path); err != nil {
		return model.MediaDescriptor{}, &ProbeError{Path: path, Err: err}
	}

	r := opts.Runner
	if r == nil {
		r = runner.NewDefaultRunner()
	}

	args := []string{
		"-v", "error",
		"-hide_banner",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	res, runErr := r.Run(ctx, runner.CmdSpec{
		Path:          opts.FFprobePath,
		Args:          args,
		Verbose:       opts.Verbose,
		CaptureStdout: true,
	})
	if runErr != nil {
		return model.MediaDescriptor{}, &ProbeError{Path: path, Output: string(res.Stderr), Err: runErr}
	}

	desc, err := ParseReport(path, res.Stdout)
	if err != nil {
		return model.MediaDescriptor{}, &ProbeError{Path: path, Output: string(res.Stdout), Err: err}
	}
	return desc, nil
}

// report mirrors the fields of ffprobe's JSON output that we care about.
type report struct {
	Streams []reportStream `json:"streams"`
	Format  reportFormat   `json:"format"`
}

type reportStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Tags       struct {
		Language string `json:"language"`
		Title    string `json:"title"`
	} `json:"tags"`
}

type reportFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// ParseReport decodes an ffprobe JSON report into a MediaDescriptor.
// Missing optional fields (unlabeled subtitle language, absent frame rate)
// are tolerated and substituted with documented defaults rather than failing.
func ParseReport(path string, data []byte) (model.MediaDescriptor, error) {
	var rep report
	if err := json.Unmarshal(data, &rep); err != nil {
		return model.MediaDescriptor{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if len(rep.Streams) == 0 && rep.Format.FormatName == "" {
		return model.MediaDescriptor{}, fmt.Errorf("ffprobe report is empty")
	}

	desc := model.MediaDescriptor{
		Path:        path,
		Container:   rep.Format.FormatName,
		DurationSec: parseFloat(rep.Format.Duration),
	}
	for _, s := range rep.Streams {
		kind, ok := streamKind(s.CodecType)
		if !ok {
			// Data/attachment streams are not actionable; skip them but keep
			// the reported indices of the ones we do expose.
			continue
		}
		desc.Streams = append(desc.Streams, model.StreamDescriptor{
			Index:        s.Index,
			Kind:         kind,
			Codec:        s.CodecName,
			Width:        s.Width,
			Height:       s.Height,
			FrameRate:    parseRate(s.RFrameRate),
			SampleRateHz: int(parseFloat(s.SampleRate)),
			Channels:     s.Channels,
			Language:     languageOrUnknown(s.Tags.Language),
			Title:        s.Tags.Title,
		})
	}
	return desc, nil
}

func streamKind(codecType string) (model.StreamKind, bool) {
	switch strings.ToLower(codecType) {
	case "video":
		return model.StreamVideo, true
	case "audio":
		return model.StreamAudio, true
	case "subtitle":
		return model.StreamSubtitle, true
	default:
		return "", false
	}
}

func languageOrUnknown(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || lang == "und" {
		return model.LanguageUnknown
	}
	return lang
}

func parseFloat(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseRate handles ffprobe's rational frame rates like "30000/1001".
func parseRate(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" || v == "0/0" {
		return 0
	}
	num, den, found := strings.Cut(v, "/")
	if !found {
		return parseFloat(v)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}
