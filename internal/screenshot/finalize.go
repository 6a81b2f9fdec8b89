package screenshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/chris-merrill/Transcribr/internal/timefmt"
)

// Finalize copies the surviving frames into destDir under their
// permanent names: frame_NNN_MMmSSs.<ext>, where NNN is the 1-based
// rank among survivors (not the original sampling index). Returns the
// ordered (filename, elapsed_seconds) manifest. An empty input yields
// an empty manifest.
func Finalize(ctx context.Context, frames []port.SampledFrame, destDir string) ([]entity.Screenshot, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshots dir: %w", err)
	}

	manifest := make([]entity.Screenshot, 0, len(frames))
	for i, frame := range frames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := fmt.Sprintf("frame_%03d_%s%s", i+1, timefmt.Label(frame.ElapsedSeconds), filepath.Ext(frame.Path))
		if err := copyFile(frame.Path, filepath.Join(destDir, name)); err != nil {
			return nil, fmt.Errorf("finalize frame %d: %w", i+1, err)
		}
		manifest = append(manifest, entity.Screenshot{Filename: name, ElapsedSeconds: frame.ElapsedSeconds})
	}

	return manifest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
