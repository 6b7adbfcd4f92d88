package media

import (
	"path/filepath"
	"strings"
)

// suffixed builds "<stem><suffix><ext>" next to nothing in particular;
// callers join it onto their output directory.
func suffixed(source, suffix string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + suffix + ext
}

// TrimmedName returns the default output filename for a trim operation.
func TrimmedName(source string) string {
	return suffixed(source, "_trimmed")
}

// ModifiedName returns the default output filename for a convert operation.
func ModifiedName(source string) string {
	return suffixed(source, "_modified")
}

// CroppedName returns the default output filename for a crop operation.
func CroppedName(source string) string {
	return suffixed(source, "_cropped")
}

// AudioName returns the default output filename for an extract-audio
// operation in the given format.
func AudioName(source, format string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_audio." + format
}

// NormalizedName returns the staging filename for a join pre-processing step.
// Pre-step outputs always land in mp4 so the concat list is uniform.
func NormalizedName(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_normalized.mp4"
}

// JoinedName is the default output filename for a join operation.
const JoinedName = "joined_output.mp4"
