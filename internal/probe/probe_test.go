package probe

import (
	"context"
	"errors"
	"testing"

	"clipsmith/internal/model"
	"clipsmith/internal/runner"
)

const sampleReport = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "r_frame_rate": "30000/1001"
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "sample_rate": "48000",
      "channels": 2,
      "tags": {"language": "eng"}
    },
    {
      "index": 2,
      "codec_name": "subrip",
      "codec_type": "subtitle",
      "tags": {"title": "Signs"}
    },
    {
      "index": 3,
      "codec_name": "bin_data",
      "codec_type": "data"
    }
  ],
  "format": {
    "format_name": "matroska,webm",
    "duration": "120.500000"
  }
}`

func TestParseReport(t *testing.T) {
	desc, err := ParseReport("/media/sample.mkv", []byte(sampleReport))
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}

	if desc.Path != "/media/sample.mkv" {
		t.Errorf("Path = %q", desc.Path)
	}
	if desc.Container != "matroska,webm" {
		t.Errorf("Container = %q", desc.Container)
	}
	if desc.DurationSec != 120.5 {
		t.Errorf("DurationSec = %v, want 120.5", desc.DurationSec)
	}
	// Data stream at index 3 is skipped
	if len(desc.Streams) != 3 {
		t.Fatalf("len(Streams) = %d, want 3", len(desc.Streams))
	}

	v := desc.Streams[0]
	if v.Kind != model.StreamVideo || v.Codec != "h264" || v.Width != 1920 || v.Height != 1080 {
		t.Errorf("video stream = %+v", v)
	}
	if got := v.FrameRate; got < 29.96 || got > 29.98 {
		t.Errorf("FrameRate = %v, want ~29.97", got)
	}

	a := desc.Streams[1]
	if a.Kind != model.StreamAudio || a.SampleRateHz != 48000 || a.Channels != 2 || a.Language != "eng" {
		t.Errorf("audio stream = %+v", a)
	}

	// Subtitle without a language tag falls back to "unknown"
	s := desc.Streams[2]
	if s.Kind != model.StreamSubtitle || s.Language != model.LanguageUnknown || s.Title != "Signs" {
		t.Errorf("subtitle stream = %+v", s)
	}
}

func TestParseReport_Unparsable(t *testing.T) {
	if _, err := ParseReport("x.mp4", []byte("not json")); err == nil {
		t.Fatal("expected error for unparsable report")
	}
	if _, err := ParseReport("x.mp4", []byte("{}")); err == nil {
		t.Fatal("expected error for empty report")
	}
}

type stubRunner struct {
	res runner.CmdResult
	err error
}

func (s stubRunner) Run(_ context.Context, _ runner.CmdSpec) (runner.CmdResult, error) {
	return s.res, s.err
}

func TestProbe_MissingFile(t *testing.T) {
	_, err := Probe(context.Background(), "/nonexistent/file.mp4", Options{
		FFprobePath: "/usr/bin/ffprobe",
		Runner:      stubRunner{},
	})
	var pe *ProbeError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProbeError", err)
	}
	if pe.Path != "/nonexistent/file.mp4" {
		t.Errorf("ProbeError.Path = %q", pe.Path)
	}
}

func TestProbe_ToolFailure(t *testing.T) {
	// Point at an existing path so the stat check passes; the stubbed runner
	// then simulates a non-zero ffprobe exit with diagnostics on stderr.
	_, err := Probe(context.Background(), "probe.go", Options{
		FFprobePath: "/usr/bin/ffprobe",
		Runner: stubRunner{
			res: runner.CmdResult{Stderr: []byte("Invalid data found"), Code: 1},
			err: errors.New("command failed (exit 1)"),
		},
	})
	var pe *ProbeError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProbeError", err)
	}
	if pe.Output == "" {
		t.Error("ProbeError.Output should carry raw diagnostics")
	}
}
