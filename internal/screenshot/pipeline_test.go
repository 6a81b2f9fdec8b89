package screenshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubSampler materializes pre-built frames into the pipeline's
// scratch directory, or fails like a broken decoder.
type stubSampler struct {
	frames     []port.SampledFrame
	err        error
	scratchDir string
}

func (s *stubSampler) SampleFrames(ctx context.Context, videoPath, outputDir string, sink port.ProgressSink) ([]port.SampledFrame, error) {
	s.scratchDir = outputDir
	if s.err != nil {
		return nil, s.err
	}
	out := make([]port.SampledFrame, 0, len(s.frames))
	for i, frame := range s.frames {
		dst := filepath.Join(outputDir, filepath.Base(frame.Path))
		data, err := os.ReadFile(frame.Path)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return nil, err
		}
		out = append(out, port.SampledFrame{Path: dst, ElapsedSeconds: s.frames[i].ElapsedSeconds})
	}
	return out, nil
}

func TestPipelineExtractsAndDeduplicates(t *testing.T) {
	srcDir := t.TempDir()
	same := writeTestImage(t, srcDir, "raw_000001.jpg", horizontalGradient)
	other := writeTestImage(t, srcDir, "raw_000004.jpg", checkerboard)

	sampler := &stubSampler{frames: []port.SampledFrame{
		{Path: same, ElapsedSeconds: 0},
		{Path: writeTestImage(t, srcDir, "raw_000002.jpg", horizontalGradient), ElapsedSeconds: 10},
		{Path: writeTestImage(t, srcDir, "raw_000003.jpg", horizontalGradient), ElapsedSeconds: 20},
		{Path: other, ElapsedSeconds: 30},
	}}

	destDir := filepath.Join(t.TempDir(), "screenshots")
	pipeline := NewPipeline(sampler, DefaultThreshold, zap.NewNop())

	manifest, err := pipeline.ExtractScreenshots(context.Background(), "input.mp4", destDir, nil)
	require.NoError(t, err)
	require.Len(t, manifest, 2, "three near-identical frames collapse to one, plus the distinct frame")

	assert.Equal(t, "frame_001_00m00s.jpg", manifest[0].Filename)
	assert.Equal(t, "frame_002_00m30s.jpg", manifest[1].Filename)

	// Scratch dir with raw frames is reclaimed.
	_, err = os.Stat(sampler.scratchDir)
	assert.True(t, os.IsNotExist(err), "scratch dir should be removed")
}

func TestPipelineDecoderFailureFinalizesNothing(t *testing.T) {
	sampler := &stubSampler{err: errors.New("ffmpeg exited with status 1")}
	destDir := filepath.Join(t.TempDir(), "screenshots")
	pipeline := NewPipeline(sampler, DefaultThreshold, zap.NewNop())

	manifest, err := pipeline.ExtractScreenshots(context.Background(), "input.mp4", destDir, nil)
	require.Error(t, err)
	assert.Nil(t, manifest)

	entries, readErr := os.ReadDir(destDir)
	if readErr == nil {
		assert.Empty(t, entries, "no partial screenshots on decoder failure")
	}

	_, statErr := os.Stat(sampler.scratchDir)
	assert.True(t, os.IsNotExist(statErr), "scratch dir is removed even on failure")
}

func TestPipelineEmptyVideoYieldsEmptyManifest(t *testing.T) {
	sampler := &stubSampler{}
	destDir := filepath.Join(t.TempDir(), "screenshots")
	pipeline := NewPipeline(sampler, DefaultThreshold, zap.NewNop())

	manifest, err := pipeline.ExtractScreenshots(context.Background(), "input.mp4", destDir, nil)
	require.NoError(t, err)
	assert.Empty(t, manifest)
}
