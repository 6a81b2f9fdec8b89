// Package screenshot implements the screenshot extraction pipeline:
// sample frames at a fixed interval, collapse perceptual
// near-duplicates, and finalize the survivors under deterministic
// timestamped names.
package screenshot

import (
	"context"
	"fmt"
	"os"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"go.uber.org/zap"
)

// Pipeline wires the sampler, deduplicator and finalizer together.
// Stages run sequentially on the calling goroutine; ordering is
// load-bearing for both fingerprint comparisons and sequence
// numbering, so nothing here is parallelized.
type Pipeline struct {
	sampler   port.FrameSampler
	threshold int
	logger    *zap.Logger
}

func NewPipeline(sampler port.FrameSampler, threshold int, logger *zap.Logger) *Pipeline {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Pipeline{sampler: sampler, threshold: threshold, logger: logger}
}

// ExtractScreenshots runs sample -> deduplicate -> finalize. Raw
// frames live in a scratch directory scoped to this call; it is
// removed on every exit path, including decoder failure. Any stage
// error aborts the remaining stages with no partial output finalized.
func (p *Pipeline) ExtractScreenshots(ctx context.Context, videoPath, destDir string, sink port.ProgressSink) ([]entity.Screenshot, error) {
	scratch, err := os.MkdirTemp("", "transcribr-frames-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	frames, err := p.sampler.SampleFrames(ctx, videoPath, scratch, sink)
	if err != nil {
		return nil, err
	}

	kept, err := Deduplicate(ctx, frames, p.threshold, sink)
	if err != nil {
		return nil, err
	}

	manifest, err := Finalize(ctx, kept, destDir)
	if err != nil {
		return nil, err
	}

	p.logger.Info("screenshot pipeline finished",
		zap.Int("sampled", len(frames)),
		zap.Int("kept", len(kept)),
	)
	return manifest, nil
}
