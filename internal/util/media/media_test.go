package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNaming(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{TrimmedName("/v/clip.mkv"), "clip_trimmed.mkv"},
		{ModifiedName("clip.mp4"), "clip_modified.mp4"},
		{CroppedName("clip.webm"), "clip_cropped.webm"},
		{AudioName("/v/clip.mp4", "flac"), "clip_audio.flac"},
		{NormalizedName("clip.avi"), "clip_normalized.mp4"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	for _, yes := range []string{"a.mp4", "b.MKV", "/x/c.flac", "d.webm"} {
		if !IsMediaFile(yes) {
			t.Errorf("IsMediaFile(%q) = false", yes)
		}
	}
	for _, no := range []string{"a.txt", "b", "c.srt.bak", "d.go"} {
		if IsMediaFile(no) {
			t.Errorf("IsMediaFile(%q) = true", no)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.mkv", "notes.txt", "c.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.mkv"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "c.wav"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Discover() = %v, want %v", files, want)
	}
}
