package port

import (
	"context"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
)

// Transcriber runs the speech model against an audio file and returns
// the recognized segments in chronological order.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, sink ProgressSink) ([]entity.TranscriptSegment, error)
}
