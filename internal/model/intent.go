package model

// OperationKind identifies one of the supported media operations.
type OperationKind string

const (
	OpInspect      OperationKind = "inspect"
	OpJoin         OperationKind = "join"
	OpTrim         OperationKind = "trim"
	OpExtractAudio OperationKind = "extract-audio"
	OpConvert      OperationKind = "convert"
	OpCrop         OperationKind = "crop"
)

// OperationIntent is the closed set of validated user requests handed to the
// plan builder. Exactly one concrete intent type exists per operation; the
// builder switches over them exhaustively.
type OperationIntent interface {
	Kind() OperationKind
}

// InspectIntent requests re-presenting a file's probed metadata.
type InspectIntent struct {
	Source string
}

func (InspectIntent) Kind() OperationKind { return OpInspect }

// JoinIntent requests concatenating the inputs, in order, into one output.
// Target fields are optional overrides; zero means "reconcile from inputs".
type JoinIntent struct {
	Inputs           []string
	TargetWidth      int
	TargetHeight     int
	TargetSampleRate int
}

func (JoinIntent) Kind() OperationKind { return OpJoin }

// TrimIntent requests a stream-copy cut of [StartSec, EndSec).
// KeepStreams is nil to preserve every stream, else the container indices
// to keep.
type TrimIntent struct {
	Source      string
	StartSec    float64
	EndSec      float64
	KeepStreams []int
}

func (TrimIntent) Kind() OperationKind { return OpTrim }

// AudioFormat names a supported extract-audio target.
type AudioFormat string

const (
	AudioMP3  AudioFormat = "mp3"
	AudioFLAC AudioFormat = "flac"
	AudioWAV  AudioFormat = "wav"
	AudioM4A  AudioFormat = "m4a"
)

// ExtractAudioIntent requests pulling one audio track into a standalone file.
// StreamIndex < 0 selects the first audio stream in report order.
type ExtractAudioIntent struct {
	Source      string
	Format      AudioFormat
	StreamIndex int
}

func (ExtractAudioIntent) Kind() OperationKind { return OpExtractAudio }

// StreamActionMode says what happens to one stream during Convert.
type StreamActionMode string

const (
	ActionKeep      StreamActionMode = "keep"
	ActionTranscode StreamActionMode = "transcode"
	ActionDrop      StreamActionMode = "drop"
)

// StreamAction pairs a mode with the target codec for transcode actions.
type StreamAction struct {
	Mode  StreamActionMode
	Codec string // encoder name, only meaningful when Mode == ActionTranscode
}

// ConvertIntent requests remuxing/transcoding with a per-stream decision.
// Streams absent from Actions are kept as-is.
type ConvertIntent struct {
	Source  string
	Actions map[int]StreamAction
}

func (ConvertIntent) Kind() OperationKind { return OpConvert }

// CropRegion is a rectangle in source-frame pixel coordinates.
type CropRegion struct {
	X      int
	Y      int
	Width  int
	Height int
}

// CropIntent requests cutting the frame down to Region (re-encodes video).
type CropIntent struct {
	Source string
	Region CropRegion
}

func (CropIntent) Kind() OperationKind { return OpCrop }
