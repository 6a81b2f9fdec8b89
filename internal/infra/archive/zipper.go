// Package archive assembles the downloadable result zip.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chris-merrill/Transcribr/internal/domain/port"
)

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// CreateArchive writes a zip at outputPath containing each entry under
// its archive name (e.g. "transcription.txt", "screenshots/<file>").
func (b *Builder) CreateArchive(ctx context.Context, entries []port.ArchiveEntry, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := addEntry(zw, entry); err != nil {
			return fmt.Errorf("add %s to archive: %w", entry.Name, err)
		}
	}

	return nil
}

func addEntry(zw *zip.Writer, entry port.ArchiveEntry) error {
	file, err := os.Open(entry.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = entry.Name
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}
