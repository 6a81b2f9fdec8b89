package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArchiveLayout(t *testing.T) {
	dir := t.TempDir()
	transcript := filepath.Join(dir, "transcription.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("[00:00:00] Hello world\n"), 0644))
	shot := filepath.Join(dir, "frame_001_00m00s.jpg")
	require.NoError(t, os.WriteFile(shot, []byte("jpeg-bytes"), 0644))

	outputPath := filepath.Join(t.TempDir(), "result.zip")
	builder := NewBuilder()
	err := builder.CreateArchive(context.Background(), []port.ArchiveEntry{
		{Path: transcript, Name: "transcription.txt"},
		{Path: shot, Name: "screenshots/frame_001_00m00s.jpg"},
	}, outputPath)
	require.NoError(t, err)

	reader, err := zip.OpenReader(outputPath)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"transcription.txt", "screenshots/frame_001_00m00s.jpg"}, names)
}

func TestCreateArchiveMissingFileFails(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "result.zip")
	builder := NewBuilder()
	err := builder.CreateArchive(context.Background(), []port.ArchiveEntry{
		{Path: filepath.Join(t.TempDir(), "gone.txt"), Name: "gone.txt"},
	}, outputPath)
	assert.Error(t, err)
}
