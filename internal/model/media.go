package model

// StreamKind classifies an elementary track within a container.
type StreamKind string

const (
	StreamVideo    StreamKind = "video"
	StreamAudio    StreamKind = "audio"
	StreamSubtitle StreamKind = "subtitle"
)

// LanguageUnknown is substituted when the container carries no language tag.
const LanguageUnknown = "unknown"

// StreamDescriptor describes one elementary track as reported by the probe.
// Index values are stable and match the order ffprobe reports them.
type StreamDescriptor struct {
	Index int
	Kind  StreamKind
	Codec string

	// Video-specific
	Width     int
	Height    int
	FrameRate float64

	// Audio-specific
	SampleRateHz int
	Channels     int

	// Subtitle-specific (also populated for audio when tagged)
	Language string
	Title    string
}

// MediaDescriptor is the typed result of probing one file. It is immutable
// once built and lives only for the duration of building one plan.
type MediaDescriptor struct {
	Path        string
	Container   string // container format name, e.g. "matroska,webm"
	DurationSec float64
	Streams     []StreamDescriptor
}

// VideoStream returns the first video stream, or nil when the file has none.
func (d MediaDescriptor) VideoStream() *StreamDescriptor {
	for i := range d.Streams {
		if d.Streams[i].Kind == StreamVideo {
			return &d.Streams[i]
		}
	}
	return nil
}

// AudioStreams returns all audio streams in report order.
func (d MediaDescriptor) AudioStreams() []StreamDescriptor {
	var out []StreamDescriptor
	for _, s := range d.Streams {
		if s.Kind == StreamAudio {
			out = append(out, s)
		}
	}
	return out
}

// StreamByIndex returns the stream with the given container index.
func (d MediaDescriptor) StreamByIndex(idx int) (StreamDescriptor, bool) {
	for _, s := range d.Streams {
		if s.Index == idx {
			return s, true
		}
	}
	return StreamDescriptor{}, false
}
