// Package ffmpeg shells out to the ffmpeg/ffprobe binaries for frame
// sampling and media probing.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/chris-merrill/Transcribr/internal/infra/metrics"
	"go.uber.org/zap"
)

type Sampler struct {
	binary      string
	probeBinary string
	interval    int
	format      string
	logger      *zap.Logger
}

// NewSampler builds a sampler that extracts one frame every interval
// seconds, writing images in the given format (e.g. "jpg").
func NewSampler(interval int, format string, logger *zap.Logger) *Sampler {
	return &Sampler{
		binary:      "ffmpeg",
		probeBinary: "ffprobe",
		interval:    interval,
		format:      format,
		logger:      logger,
	}
}

// SampleFrames decodes videoPath into outputDir as raw_%06d.<format>,
// one frame per interval boundary. The call blocks on the decoder;
// a nonzero exit is fatal and carries the tool's diagnostic output.
//
// Elapsed offsets are assigned by ordinal position times the interval
// rather than by reading decoder timestamps, so they can drift if the
// decoder skips a boundary. Kept deliberately: screenshot filenames
// and the result manifest depend on this convention.
func (s *Sampler) SampleFrames(ctx context.Context, videoPath, outputDir string, sink port.ProgressSink) ([]port.SampledFrame, error) {
	notify(ctx, sink, fmt.Sprintf("Sampling one frame every %d seconds...", s.interval))

	pattern := filepath.Join(outputDir, fmt.Sprintf("raw_%%06d.%s", s.format))
	cmd := exec.CommandContext(ctx, s.binary,
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%d", s.interval),
		"-fps_mode", "vfr",
		"-y",
		pattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg sample frames: %w: %s", err, strings.TrimSpace(string(output)))
	}

	paths, err := filepath.Glob(filepath.Join(outputDir, fmt.Sprintf("raw_*.%s", s.format)))
	if err != nil {
		return nil, fmt.Errorf("glob raw frames: %w", err)
	}
	// Zero-padded numbering makes lexicographic order capture order.
	sort.Strings(paths)

	frames := make([]port.SampledFrame, 0, len(paths))
	for i, p := range paths {
		frames = append(frames, port.SampledFrame{Path: p, ElapsedSeconds: i * s.interval})
	}

	metrics.FramesSampledTotal.Add(float64(len(frames)))
	s.logger.Info("frames sampled",
		zap.Int("count", len(frames)),
		zap.Int("interval_seconds", s.interval),
	)
	notify(ctx, sink, fmt.Sprintf("Sampled %d frames", len(frames)))

	return frames, nil
}

// ProbeDuration returns the media duration in seconds via ffprobe.
func (s *Sampler) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.probeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}

func notify(ctx context.Context, sink port.ProgressSink, message string) {
	if sink != nil {
		sink.Notify(ctx, message)
	}
}
