package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint identifies one version of a numbering file. Cached
// descriptors are only valid for the fingerprint they were resolved from.
// Resolver names the catalog and duplicate policy the descriptors were
// resolved with; it is not part of the file identity checked by Same.
type FileFingerprint struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Resolver string
}

// StatFile fingerprints the numbering file at path.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	if info.IsDir() {
		return FileFingerprint{}, fmt.Errorf("%s is a directory", path)
	}
	return FileFingerprint{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Same reports whether o describes the same version of the same file.
func (fp FileFingerprint) Same(o FileFingerprint) bool {
	return fp.Path == o.Path && fp.Size == o.Size && fp.ModTime.Equal(o.ModTime)
}

func (fp FileFingerprint) String() string {
	return fmt.Sprintf("%s (%d bytes, %s)", fp.Path, fp.Size, fp.ModTime.UTC().Format(time.RFC3339))
}

// WithResolver returns a copy of fp tagged with a resolver fingerprint.
func (fp FileFingerprint) WithResolver(resolver string) FileFingerprint {
	fp.Resolver = resolver
	return fp
}

// matches reports whether the stored size, modification time (unix
// nanoseconds) and resolver fingerprint still describe fp.
func (fp FileFingerprint) matches(size, mtime int64, resolver string) bool {
	return fp.Size == size && fp.ModTime.UnixNano() == mtime && fp.Resolver == resolver
}
