// Package archivehost supplies the host-platform collaborators that the
// zip package deliberately keeps external: a concrete zip.Source backed by
// the local filesystem, a search path stacking several archives (and a
// plain directory) into one namespace, and glob-based enumeration.
package archivehost

import (
	"io"
	"log/slog"
	"os"

	"github.com/elinorkade/archivefs/zip"
)

// OSSource is a zip.Source backed by an *os.File. Each Open call returns an
// independent Source over the same path, matching zip.Opener's contract
// that concurrent Files never share a seek position.
type OSSource struct {
	path string
	f    *os.File
}

// OSOpener is a zip.Opener that reopens path on every Open call.
type OSOpener struct {
	Path string
}

func (o OSOpener) Open() (zip.Source, error) {
	f, err := os.Open(o.Path)
	if err != nil {
		return nil, err
	}
	return &OSSource{path: o.Path, f: f}, nil
}

func (s *OSSource) Read(p []byte) (int, error) { return s.f.Read(p) }

func (s *OSSource) Seek(offset int64) error {
	_, err := s.f.Seek(offset, io.SeekStart)
	return err
}

func (s *OSSource) Tell() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *OSSource) Length() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (s *OSSource) Close() error { return s.f.Close() }

// OpenArchive opens a ZIP file at path on the local filesystem, logging the
// outcome the way the rest of this module does (see SPEC_FULL.md §10.2).
func OpenArchive(path string) (*zip.Archive, error) {
	arc, err := zip.OpenArchive(path, OSOpener{Path: path})
	if err != nil {
		slog.Warn("archiveOpenFailed", "path", path, "err", err)
		return nil, err
	}
	slog.Info("archiveOpen", "path", path, "entries", arc.Len())
	return arc, nil
}
