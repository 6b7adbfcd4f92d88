package plan

import (
	"fmt"
	"path/filepath"

	"clipsmith/internal/model"
	"clipsmith/internal/util/media"
)

// Crop builds a plan cutting the frame down to the given region. Cropping
// cannot be done via stream copy, so the video stream is re-encoded; audio
// and subtitle streams are copied through untouched.
func Crop(desc model.MediaDescriptor, intent model.CropIntent, outDir string) (Plan, error) {
	video := desc.VideoStream()
	if video == nil {
		return Plan{}, &InvalidRegionError{
			Source: intent.Source,
			Region: intent.Region,
			Reason: "file has no video stream",
		}
	}
	r := intent.Region
	frameErr := func(reason string) error {
		return &InvalidRegionError{
			Source:      intent.Source,
			Region:      r,
			FrameWidth:  video.Width,
			FrameHeight: video.Height,
			Reason:      reason,
		}
	}
	if r.X < 0 || r.Y < 0 {
		return Plan{}, frameErr("origin must be non-negative")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return Plan{}, frameErr("width and height must be positive")
	}
	if r.X+r.Width > video.Width {
		return Plan{}, frameErr("region exceeds frame width")
	}
	if r.Y+r.Height > video.Height {
		return Plan{}, frameErr("region exceeds frame height")
	}

	out := filepath.Join(outDir, media.CroppedName(intent.Source))
	args := []string{
		"-y",
		"-i", intent.Source,
		"-map", "0",
		"-vf", fmt.Sprintf("crop=%d:%d:%d:%d", r.Width, r.Height, r.X, r.Y),
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "medium",
		"-c:a", "copy",
		"-c:s", "copy",
		out,
	}
	return newPlan(args, out), nil
}
