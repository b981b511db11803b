package zip

// IndexedEntry is an exported, serializable mirror of one central-directory
// record, used to persist and reconstruct an Archive's index without a
// full EOCD-locate-plus-parse walk. See internal/indexcache, which persists
// slices of these keyed by the archive's on-disk identity.
//
// A snapshot is only ever taken right after parseCentralDirectory, before
// any entry has been resolved, so every IndexedEntry always round-trips
// back to the unresolved state the resolver expects to start from — the
// local-header validation and symlink chase in resolve still run fresh
// against the live archive on every open, cache hit or not.
type IndexedEntry struct {
	Name               string
	Offset             int64
	VersionMadeBy      uint16
	VersionNeeded      uint16
	Method             uint16
	CRC32              uint32
	CompressedSize     uint32
	UncompressedSize   uint32
	ModTime            int64
	IsSymlinkCandidate bool
}

// Snapshot captures a's current entries as IndexedEntry values, in index
// order. It must be called before any OpenRead/IsDirectory call has
// triggered resolution, or the captured offsets and states would no
// longer describe a fresh archive.
func Snapshot(a *Archive) []IndexedEntry {
	out := make([]IndexedEntry, len(a.entries))
	for i, e := range a.entries {
		out[i] = IndexedEntry{
			Name:               e.name,
			Offset:             e.offset,
			VersionMadeBy:      e.versionMadeBy,
			VersionNeeded:      e.versionNeeded,
			Method:             e.method,
			CRC32:              e.crc32,
			CompressedSize:     e.compressedSize,
			UncompressedSize:   e.uncompressedSize,
			ModTime:            e.modTime,
			IsSymlinkCandidate: e.state == stateUnresolvedSymlink,
		}
	}
	return out
}

// FromIndex reconstructs an Archive from a previously captured snapshot,
// skipping locateEOCD and parseCentralDirectory entirely. snapshot must
// already be sorted by name (as Snapshot's output always is); index.go's
// binary searches assume that invariant.
func FromIndex(name string, opener Opener, snapshot []IndexedEntry) *Archive {
	entries := make([]entry, len(snapshot))
	for i, s := range snapshot {
		state := stateUnresolvedFile
		if s.IsSymlinkCandidate {
			state = stateUnresolvedSymlink
		}
		entries[i] = entry{
			name:             s.Name,
			offset:           s.Offset,
			versionMadeBy:    s.VersionMadeBy,
			versionNeeded:    s.VersionNeeded,
			method:           s.Method,
			crc32:            s.CRC32,
			compressedSize:   s.CompressedSize,
			uncompressedSize: s.UncompressedSize,
			modTime:          s.ModTime,
			state:            state,
			symlink:          -1,
		}
	}
	return &Archive{name: name, opener: opener, entries: entries}
}
