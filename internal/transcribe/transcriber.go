// Package transcribe invokes the speech model and renders its
// segments into a timestamped transcript.
package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"go.uber.org/zap"
)

// DefaultModel is the speech model used when the caller does not pick one.
const DefaultModel = "medium"

type Service struct {
	binary string
	model  string
	logger *zap.Logger
}

// NewService builds a transcriber around the whisper CLI. An empty
// model selects DefaultModel.
func NewService(model string, logger *zap.Logger) *Service {
	if model == "" {
		model = DefaultModel
	}
	return &Service{binary: "whisper", model: model, logger: logger}
}

type whisperResult struct {
	Segments []entity.TranscriptSegment `json:"segments"`
}

// Transcribe runs the speech model against audioPath and returns the
// recognized segments in the order the model produced them. Segment
// data is passed through as-is; nothing is defaulted or filtered.
func (s *Service) Transcribe(ctx context.Context, audioPath string, sink port.ProgressSink) ([]entity.TranscriptSegment, error) {
	notify(ctx, sink, fmt.Sprintf("Loading speech model %q...", s.model))

	outDir, err := os.MkdirTemp("", "transcribr-whisper-")
	if err != nil {
		return nil, fmt.Errorf("create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	notify(ctx, sink, "Transcribing audio...")

	cmd := exec.CommandContext(ctx, s.binary,
		audioPath,
		"--model", s.model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w: %s", err, strings.TrimSpace(string(output)))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	resultPath := filepath.Join(outDir, base+".json")
	data, err := os.ReadFile(resultPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var result whisperResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	s.logger.Info("transcription finished",
		zap.String("model", s.model),
		zap.Int("segments", len(result.Segments)),
	)
	notify(ctx, sink, fmt.Sprintf("Transcribed %d segments", len(result.Segments)))

	return result.Segments, nil
}

func notify(ctx context.Context, sink port.ProgressSink, message string) {
	if sink != nil {
		sink.Notify(ctx, message)
	}
}
