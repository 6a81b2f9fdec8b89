package port

import "context"

// SampledFrame is one raw frame written by the decode tool, together
// with the elapsed offset it represents. Offsets are derived from the
// frame's ordinal position times the sampling interval, not from
// decoder timestamps; if the decoder drops a boundary the remaining
// offsets drift. Known limitation, kept deliberately so that
// downstream filenames and manifests stay consistent.
type SampledFrame struct {
	Path           string
	ElapsedSeconds int
}

// FrameSampler extracts one frame per sampling interval from a video.
// Frames come back ordered by capture time with strictly increasing
// elapsed offsets. A nonzero exit from the decode tool is fatal.
type FrameSampler interface {
	SampleFrames(ctx context.Context, videoPath, outputDir string, sink ProgressSink) ([]SampledFrame, error)
}

// MediaProber reports the duration of a media file in seconds.
type MediaProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}
