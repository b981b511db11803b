package archivehost

import (
	"log/slog"

	"github.com/elinorkade/archivefs/internal/indexcache"
	"github.com/elinorkade/archivefs/zip"
)

// OpenArchiveCached opens path, consulting idx for a previously persisted
// central-directory index first. idx may be nil, in which case this is
// exactly OpenArchive.
func OpenArchiveCached(path string, idx *indexcache.Store) (*zip.Archive, error) {
	if snapshot, ok := idx.Lookup(path); ok {
		slog.Info("archiveOpenCached", "path", path, "entries", len(snapshot))
		return zip.FromIndex(path, OSOpener{Path: path}, snapshot), nil
	}

	arc, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	idx.Store(path, zip.Snapshot(arc))
	return arc, nil
}
