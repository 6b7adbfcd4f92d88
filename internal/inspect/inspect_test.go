package inspect

import (
	"strings"
	"testing"

	"clipsmith/internal/model"
)

func sampleDescriptor() model.MediaDescriptor {
	return model.MediaDescriptor{
		Path:        "movie.mkv",
		Container:   "matroska,webm",
		DurationSec: 3723.5,
		Streams: []model.StreamDescriptor{
			{Index: 0, Kind: model.StreamVideo, Codec: "h264", Width: 1920, Height: 1080, FrameRate: 23.976, Language: "unknown"},
			{Index: 1, Kind: model.StreamAudio, Codec: "aac", SampleRateHz: 48000, Channels: 6, Language: "eng", Title: "Surround"},
			{Index: 2, Kind: model.StreamSubtitle, Codec: "subrip", Language: "spa"},
		},
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleDescriptor())

	for _, want := range []string{
		"movie.mkv",
		"matroska,webm",
		"01:02:03.500",
		"1920x1080",
		"48000 Hz, 6 ch",
		"subrip",
		"eng",
		"Surround",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestStreamTable_EmptyStreams(t *testing.T) {
	out := StreamTable(model.MediaDescriptor{Path: "x.mp4"})
	if !strings.Contains(out, "Codec") {
		t.Errorf("table should still carry a header:\n%s", out)
	}
}
