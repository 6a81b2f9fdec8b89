package port

import (
	"context"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
)

// ScreenshotExtractor runs the sample -> deduplicate -> finalize
// pipeline against a video and writes the surviving screenshots into
// destDir. The returned manifest is ordered chronologically with
// contiguous 1-based sequence numbers embedded in the filenames.
type ScreenshotExtractor interface {
	ExtractScreenshots(ctx context.Context, videoPath, destDir string, sink ProgressSink) ([]entity.Screenshot, error)
}
