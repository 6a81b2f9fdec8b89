package transcribe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/timefmt"
)

// FormatSegment renders one transcript line: "[HH:MM:SS] text" with
// surrounding whitespace stripped from the text.
func FormatSegment(seg entity.TranscriptSegment) string {
	return fmt.Sprintf("[%s] %s", timefmt.Clock(seg.Start), strings.TrimSpace(seg.Text))
}

// WriteTranscript emits one line per segment, in input order. Segments
// are assumed already chronological; they are not re-sorted, merged or
// filtered.
func WriteTranscript(w io.Writer, segments []entity.TranscriptSegment) error {
	bw := bufio.NewWriter(w)
	for _, seg := range segments {
		if _, err := bw.WriteString(FormatSegment(seg) + "\n"); err != nil {
			return fmt.Errorf("write transcript line: %w", err)
		}
	}
	return bw.Flush()
}

// WriteTranscriptFile writes the rendered transcript to path.
func WriteTranscriptFile(path string, segments []entity.TranscriptSegment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	if err := WriteTranscript(f, segments); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
