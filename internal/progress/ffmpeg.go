package progress

import (
	"strconv"
	"strings"
	"time"
)

// State accumulates ffmpeg "-progress pipe:1" key=value lines so that the
// percent can be derived once a "progress" marker arrives.
type State struct {
	OutTimeMs int64 // microseconds despite the name; ffmpeg quirk
	SpeedStr  string
	TotalSize int64
}

// UpdateFromLine folds one progress line into the state. When the line is a
// "progress" marker it returns a complete Update and ok=true.
func (ps *State) UpdateFromLine(line, jobID string, stage Stage, durationSec float64, message string) (Update, bool) {
	kv := strings.SplitN(line, "=", 2)
	if len(kv) != 2 {
		return Update{}, false
	}

	key := strings.TrimSpace(kv[0])
	val := strings.TrimSpace(kv[1])

	switch key {
	case "out_time_ms":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.OutTimeMs = v
		}
	case "speed":
		ps.SpeedStr = val
	case "total_size":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.TotalSize = v
		}
	case "progress":
		percent := -1.0
		var etaPtr *time.Duration
		if durationSec > 0 {
			den := durationSec * 1_000_000
			if den > 0 {
				percent = (float64(ps.OutTimeMs) / den) * 100.0
				if percent > 100 {
					percent = 100
				}
			}
			// ETA needs a known total and a usable encode speed ("1.5x").
			if factor, err := strconv.ParseFloat(strings.TrimSuffix(ps.SpeedStr, "x"), 64); err == nil && factor > 0 {
				remaining := durationSec - float64(ps.OutTimeMs)/1_000_000
				if remaining < 0 {
					remaining = 0
				}
				d := time.Duration(remaining / factor * float64(time.Second))
				etaPtr = &d
			}
		}

		var speedPtr *string
		if ps.SpeedStr != "" {
			s := ps.SpeedStr
			speedPtr = &s
		}

		var bytesPtr *int64
		if ps.TotalSize > 0 {
			b := ps.TotalSize
			bytesPtr = &b
		}

		return Update{
			JobID:   jobID,
			Stage:   stage,
			Percent: percent,
			ETA:     etaPtr,
			Speed:   speedPtr,
			Bytes:   bytesPtr,
			Message: message,
		}, true
	}

	return Update{}, false
}
