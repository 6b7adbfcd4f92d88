package plan

import (
	"fmt"
	"strings"

	"clipsmith/internal/model"
)

// InvalidRangeError reports a trim window whose end does not lie strictly
// after its start.
type InvalidRangeError struct {
	Source   string
	StartSec float64
	EndSec   float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("trim %s: end (%.3fs) must be greater than start (%.3fs)", e.Source, e.EndSec, e.StartSec)
}

// NoAudioStreamError reports an extract-audio request against a file without
// a usable audio stream.
type NoAudioStreamError struct {
	Source string
	Index  int // requested explicit index, or -1 for "first audio"
}

func (e *NoAudioStreamError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("extract-audio %s: stream %d is not an audio stream", e.Source, e.Index)
	}
	return fmt.Sprintf("extract-audio %s: no audio stream found", e.Source)
}

// NoStreamsSelectedError reports a convert request that drops every stream.
type NoStreamsSelectedError struct {
	Source string
}

func (e *NoStreamsSelectedError) Error() string {
	return fmt.Sprintf("convert %s: every stream is marked drop; nothing to output", e.Source)
}

// InvalidRegionError reports a crop rectangle that is malformed or does not
// lie within the probed frame.
type InvalidRegionError struct {
	Source      string
	Region      model.CropRegion
	FrameWidth  int
	FrameHeight int
	Reason      string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("crop %s: region %dx%d+%d+%d invalid for %dx%d frame: %s",
		e.Source, e.Region.Width, e.Region.Height, e.Region.X, e.Region.Y,
		e.FrameWidth, e.FrameHeight, e.Reason)
}

// IncompatibleStreamsError reports join inputs that cannot be reconciled even
// after scaling/resampling, e.g. codec families the concatenation mode cannot
// bridge or mismatched stream layouts.
type IncompatibleStreamsError struct {
	Sources []string
	Reason  string
}

func (e *IncompatibleStreamsError) Error() string {
	return fmt.Sprintf("join [%s]: %s", strings.Join(e.Sources, ", "), e.Reason)
}
