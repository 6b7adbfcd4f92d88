package plan

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"clipsmith/internal/model"
)

func joinInput(path string, w, h int, vcodec string, rate int, acodec string) model.MediaDescriptor {
	d := model.MediaDescriptor{
		Path: path,
		Streams: []model.StreamDescriptor{
			{Index: 0, Kind: model.StreamVideo, Codec: vcodec, Width: w, Height: h},
		},
	}
	if rate > 0 {
		d.Streams = append(d.Streams, model.StreamDescriptor{
			Index: 1, Kind: model.StreamAudio, Codec: acodec, SampleRateHz: rate, Channels: 2,
		})
	}
	return d
}

func TestJoin_AllMatching(t *testing.T) {
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1280, 720, "h264", 48000, "aac"),
		joinInput("/media/b.mp4", 1280, 720, "h264", 48000, "aac"),
		joinInput("/media/c.mp4", 1280, 720, "h264", 48000, "aac"),
	}
	jp, err := Join(descs, model.JoinIntent{Inputs: []string{"/media/a.mp4", "/media/b.mp4", "/media/c.mp4"}}, "/out", "/work")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if len(jp.PreSteps) != 0 {
		t.Errorf("PreSteps = %d, want 0 for matching inputs", len(jp.PreSteps))
	}
	got := strings.Join(jp.Concat.Args, " ")
	for _, want := range []string{"-f concat", "-safe 0", "-c copy"} {
		if !strings.Contains(got, want) {
			t.Errorf("concat args missing %q, got: %v", want, jp.Concat.Args)
		}
	}
	if jp.Concat.ConcatListPath == "" || jp.Concat.ConcatListData == "" {
		t.Fatal("concat plan must carry the list file sidecar")
	}
	wantList := "file '/media/a.mp4'\nfile '/media/b.mp4'\nfile '/media/c.mp4'\n"
	if jp.Concat.ConcatListData != wantList {
		t.Errorf("list data = %q, want %q", jp.Concat.ConcatListData, wantList)
	}
	if jp.Concat.OutputPath != "/out/joined_output.mp4" {
		t.Errorf("OutputPath = %q", jp.Concat.OutputPath)
	}
}

func TestJoin_MixedResolutionPrefersHighest(t *testing.T) {
	// Majority is 720p but the target must be the highest quality, 1080p.
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1280, 720, "h264", 44100, "aac"),
		joinInput("/media/b.mp4", 1280, 720, "h264", 44100, "aac"),
		joinInput("/media/c.mp4", 1920, 1080, "h264", 48000, "aac"),
	}
	jp, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if jp.TargetWidth != 1920 || jp.TargetHeight != 1080 {
		t.Errorf("target = %dx%d, want 1920x1080", jp.TargetWidth, jp.TargetHeight)
	}
	if jp.TargetSampleRate != 48000 {
		t.Errorf("target sample rate = %d, want 48000", jp.TargetSampleRate)
	}
	// The two non-conforming 720p inputs each get one pre-step.
	if len(jp.PreSteps) != 2 {
		t.Fatalf("PreSteps = %d, want 2", len(jp.PreSteps))
	}
	for _, ps := range jp.PreSteps {
		got := strings.Join(ps.Args, " ")
		for _, want := range []string{"-map 0:v:0", "-map 0:a:0", "-vf scale=1920:1080", "-c:v libx264", "-ar 48000", "-c:a aac"} {
			if !strings.Contains(got, want) {
				t.Errorf("pre-step args missing %q, got: %v", want, ps.Args)
			}
		}
	}
	// Concat list references pre-step outputs for reconciled inputs and the
	// untouched path for the conforming one, preserving input order.
	lines := strings.Split(strings.TrimSpace(jp.Concat.ConcatListData), "\n")
	if len(lines) != 3 {
		t.Fatalf("list lines = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "a_normalized.mp4") || !strings.Contains(lines[1], "b_normalized.mp4") {
		t.Errorf("reconciled inputs should reference pre-step outputs: %v", lines)
	}
	if lines[2] != "file '/media/c.mp4'" {
		t.Errorf("conforming input entry = %q", lines[2])
	}
}

func TestJoin_ExtraStreamsForceNormalization(t *testing.T) {
	// b.mkv matches the target geometry and codecs but carries a subtitle
	// track and a second audio track. Passing it through untouched would hand
	// the concat demuxer mismatched stream counts, so it must be normalized
	// down to one video plus one audio.
	withExtras := joinInput("/media/b.mkv", 1280, 720, "h264", 48000, "aac")
	withExtras.Streams = append(withExtras.Streams,
		model.StreamDescriptor{Index: 2, Kind: model.StreamAudio, Codec: "aac", SampleRateHz: 48000, Channels: 2, Language: "deu"},
		model.StreamDescriptor{Index: 3, Kind: model.StreamSubtitle, Codec: "subrip", Language: "eng"},
	)
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1280, 720, "h264", 48000, "aac"),
		withExtras,
	}
	jp, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if len(jp.PreSteps) != 1 {
		t.Fatalf("PreSteps = %d, want 1 for the input with extra tracks", len(jp.PreSteps))
	}
	got := strings.Join(jp.PreSteps[0].Args, " ")
	for _, want := range []string{"-i /media/b.mkv", "-map 0:v:0", "-map 0:a:0"} {
		if !strings.Contains(got, want) {
			t.Errorf("pre-step args missing %q, got: %v", want, jp.PreSteps[0].Args)
		}
	}
	lines := strings.Split(strings.TrimSpace(jp.Concat.ConcatListData), "\n")
	if lines[0] != "file '/media/a.mp4'" || !strings.Contains(lines[1], "b_normalized.mp4") {
		t.Errorf("concat entries = %v", lines)
	}
}

func TestJoin_ExplicitTargetOverride(t *testing.T) {
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1920, 1080, "h264", 48000, "aac"),
		joinInput("/media/b.mp4", 1920, 1080, "h264", 48000, "aac"),
	}
	jp, err := Join(descs, model.JoinIntent{TargetWidth: 1280, TargetHeight: 720, TargetSampleRate: 44100}, "/out", "/work")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if jp.TargetWidth != 1280 || jp.TargetHeight != 720 || jp.TargetSampleRate != 44100 {
		t.Errorf("targets = %dx%d@%d", jp.TargetWidth, jp.TargetHeight, jp.TargetSampleRate)
	}
	// Nothing conforms to the explicit target, so every input is re-encoded.
	if len(jp.PreSteps) != 2 {
		t.Errorf("PreSteps = %d, want 2", len(jp.PreSteps))
	}
}

func TestJoin_CodecFamilyMismatch(t *testing.T) {
	// Same geometry but an unbridgeable codec family in the majority.
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mov", 1920, 1080, "prores", 48000, "aac"),
		joinInput("/media/b.mp4", 1280, 720, "prores", 48000, "aac"),
	}
	_, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	var ise *IncompatibleStreamsError
	if !errors.As(err, &ise) {
		t.Fatalf("error = %v, want *IncompatibleStreamsError", err)
	}
	if len(ise.Sources) != 2 {
		t.Errorf("error sources = %v", ise.Sources)
	}
}

func TestJoin_MissingVideoStream(t *testing.T) {
	audioOnly := model.MediaDescriptor{
		Path:    "/media/song.mp3",
		Streams: []model.StreamDescriptor{{Index: 0, Kind: model.StreamAudio, Codec: "mp3", SampleRateHz: 44100}},
	}
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1280, 720, "h264", 48000, "aac"),
		audioOnly,
	}
	_, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	var ise *IncompatibleStreamsError
	if !errors.As(err, &ise) {
		t.Fatalf("error = %v, want *IncompatibleStreamsError", err)
	}
}

func TestJoin_MixedAudioPresence(t *testing.T) {
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1280, 720, "h264", 48000, "aac"),
		joinInput("/media/b.mp4", 1280, 720, "h264", 0, ""),
	}
	_, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	var ise *IncompatibleStreamsError
	if !errors.As(err, &ise) {
		t.Fatalf("error = %v, want *IncompatibleStreamsError", err)
	}
}

func TestJoin_TooFewInputs(t *testing.T) {
	descs := []model.MediaDescriptor{joinInput("/media/a.mp4", 1280, 720, "h264", 48000, "aac")}
	if _, err := Join(descs, model.JoinIntent{}, "/out", "/work"); err == nil {
		t.Fatal("expected error for single input")
	}
}

func TestJoin_Deterministic(t *testing.T) {
	descs := []model.MediaDescriptor{
		joinInput("/media/a.mp4", 1280, 720, "h264", 44100, "aac"),
		joinInput("/media/b.mp4", 1920, 1080, "h264", 48000, "aac"),
	}
	first, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	second, err := Join(descs, model.JoinIntent{}, "/out", "/work")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("join plans differ between identical builds:\n%+v\n%+v", first, second)
	}
}
