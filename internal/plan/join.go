package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"clipsmith/internal/model"
	"clipsmith/internal/util/media"
)

// Join builds the two-phase plan for concatenating the probed inputs in
// order. When every input already agrees on resolution, sample rate, and
// codec, the result is a single lossless concat (stream copy, zero
// pre-steps). Otherwise each non-conforming input gets one re-encode
// pre-step scaling/resampling it to the reconciled target, and the final
// concatenation stream-copies the (now uniform) inputs.
//
// Target selection prefers the highest resolution and highest sample rate
// among the inputs — never the plain majority — so no input is upscaled
// beyond the best available quality and none is silently degraded. Explicit
// intent targets override reconciliation.
//
// The concat demuxer requires every entry to carry the same stream layout,
// so a join produces exactly one video track plus at most one audio track.
// Inputs with subtitles or secondary audio are forced through a pre-step
// that maps only the primary video and audio; those extra tracks are not
// carried into the joined output.
func Join(descs []model.MediaDescriptor, intent model.JoinIntent, outDir, workDir string) (JoinPlan, error) {
	sources := make([]string, len(descs))
	for i, d := range descs {
		sources[i] = d.Path
	}
	if len(descs) < 2 {
		return JoinPlan{}, fmt.Errorf("join: need at least two inputs, got %d", len(descs))
	}

	type inputProps struct {
		desc  model.MediaDescriptor
		video *model.StreamDescriptor
		audio *model.StreamDescriptor
	}
	inputs := make([]inputProps, len(descs))
	audioCount := 0
	for i, d := range descs {
		v := d.VideoStream()
		if v == nil {
			return JoinPlan{}, &IncompatibleStreamsError{
				Sources: sources,
				Reason:  fmt.Sprintf("%s has no video stream", d.Path),
			}
		}
		inputs[i] = inputProps{desc: d, video: v}
		if a := d.AudioStreams(); len(a) > 0 {
			inputs[i].audio = &a[0]
			audioCount++
		}
	}
	if audioCount != 0 && audioCount != len(inputs) {
		return JoinPlan{}, &IncompatibleStreamsError{
			Sources: sources,
			Reason:  "some inputs have audio and some do not; concatenation requires a uniform stream layout",
		}
	}
	hasAudio := audioCount == len(inputs)

	// Reconcile targets: explicit override wins, else highest quality wins.
	targetW, targetH := intent.TargetWidth, intent.TargetHeight
	if targetW <= 0 || targetH <= 0 {
		for _, in := range inputs {
			if in.video.Width*in.video.Height > targetW*targetH {
				targetW, targetH = in.video.Width, in.video.Height
			}
		}
	}
	targetRate := intent.TargetSampleRate
	if hasAudio && targetRate <= 0 {
		for _, in := range inputs {
			if in.audio.SampleRateHz > targetRate {
				targetRate = in.audio.SampleRateHz
			}
		}
	}

	targetVideoCodec := majorityCodec(inputs, func(in inputProps) string { return in.video.Codec })
	targetAudioCodec := ""
	if hasAudio {
		targetAudioCodec = majorityCodec(inputs, func(in inputProps) string { return in.audio.Codec })
	}

	// uniformLayout reports whether the file already carries exactly the
	// stream layout the concat expects: one video track and, when the join
	// has audio, a single audio track. Anything extra (subtitles, secondary
	// audio) would desynchronize the demuxer's stream mapping.
	uniformLayout := func(in inputProps) bool {
		video, audio := 0, 0
		for _, s := range in.desc.Streams {
			switch s.Kind {
			case model.StreamVideo:
				video++
			case model.StreamAudio:
				audio++
			default:
				return false
			}
		}
		wantAudio := 0
		if hasAudio {
			wantAudio = 1
		}
		return video == 1 && audio == wantAudio
	}

	conforms := func(in inputProps) bool {
		if !uniformLayout(in) {
			return false
		}
		if in.video.Width != targetW || in.video.Height != targetH || in.video.Codec != targetVideoCodec {
			return false
		}
		if hasAudio && (in.audio.SampleRateHz != targetRate || in.audio.Codec != targetAudioCodec) {
			return false
		}
		return true
	}

	jp := JoinPlan{
		TargetWidth:      targetW,
		TargetHeight:     targetH,
		TargetSampleRate: targetRate,
	}

	// Phase 1: one pre-step per non-conforming input; never drop an input.
	concatEntries := make([]string, len(inputs))
	for i, in := range inputs {
		if conforms(in) {
			concatEntries[i] = in.desc.Path
			continue
		}
		videoEnc, ok := videoEncoders[targetVideoCodec]
		if !ok {
			return JoinPlan{}, &IncompatibleStreamsError{
				Sources: sources,
				Reason:  fmt.Sprintf("no encoder available for video codec family %q; inputs cannot be reconciled", targetVideoCodec),
			}
		}
		audioEnc := ""
		if hasAudio {
			audioEnc, ok = audioEncoders[targetAudioCodec]
			if !ok {
				return JoinPlan{}, &IncompatibleStreamsError{
					Sources: sources,
					Reason:  fmt.Sprintf("no encoder available for audio codec family %q; inputs cannot be reconciled", targetAudioCodec),
				}
			}
		}

		stepOut := filepath.Join(workDir, fmt.Sprintf("%02d_%s", i, media.NormalizedName(in.desc.Path)))
		// Explicit maps keep the pre-step output at exactly the concat layout
		// regardless of what else the source carries.
		args := []string{
			"-y",
			"-i", in.desc.Path,
			"-map", "0:v:0",
		}
		if hasAudio {
			args = append(args, "-map", "0:a:0")
		}
		args = append(args,
			"-vf", fmt.Sprintf("scale=%d:%d", targetW, targetH),
			"-c:v", videoEnc,
			"-crf", "18",
			"-preset", "medium",
		)
		if hasAudio {
			args = append(args, "-ar", itoa(targetRate), "-c:a", audioEnc)
			switch audioEnc {
			case "aac", "libmp3lame", "libvorbis":
				args = append(args, "-b:a", "192k")
			case "libopus":
				args = append(args, "-b:a", "160k")
			}
		} else {
			args = append(args, "-an")
		}
		args = append(args, stepOut)
		jp.PreSteps = append(jp.PreSteps, newPlan(args, stepOut))
		concatEntries[i] = stepOut
	}

	// Lossless concatenation prerequisite: after reconciliation every entry
	// carries the target codec family, so stream copy is valid.
	out := filepath.Join(outDir, media.JoinedName)
	listPath := filepath.Join(workDir, "concat_inputs.txt")
	var list strings.Builder
	for _, entry := range concatEntries {
		list.WriteString("file '")
		list.WriteString(strings.ReplaceAll(entry, "'", `'\''`))
		list.WriteString("'\n")
	}

	concat := newPlan([]string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		out,
	}, out)
	concat.ConcatListPath = listPath
	concat.ConcatListData = list.String()
	jp.Concat = concat
	return jp, nil
}

// majorityCodec returns the most frequent codec; ties resolve to the codec
// that appears earliest in input order, keeping the result deterministic.
func majorityCodec[T any](inputs []T, codec func(T) string) string {
	counts := map[string]int{}
	var order []string
	for _, in := range inputs {
		c := codec(in)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	best, bestCount := "", 0
	for _, c := range order {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
