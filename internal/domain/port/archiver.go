package port

import "context"

// ArchiveEntry maps a file on disk to its path inside the archive.
type ArchiveEntry struct {
	Path string
	Name string
}

type Archiver interface {
	CreateArchive(ctx context.Context, entries []ArchiveEntry, outputPath string) error
}
