package zip

// Archive is an opened ZIP index: a sorted slice of entries plus the
// means to reopen the underlying byte source, per spec.md §3's Archive
// index data model. spec.md §5 assumes a single cooperative caller per
// Archive; this type carries no internal locking.
type Archive struct {
	name             string
	opener           Opener
	entries          []entry
	checkpointBlocks int
}

// OpenArchive implements spec.md §4.8's archive lifecycle: locate the
// EOCD, parse and sort the central directory, and return a handle. Local
// file headers are not touched here — only resolve (triggered by the
// first OpenRead of a given entry, or by IsDirectory on a symlink entry)
// parses them, preserving the "no up-front seeks across the archive"
// property.
func OpenArchive(name string, opener Opener) (*Archive, error) {
	src, err := opener.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	size, err := src.Length()
	if err != nil {
		return nil, err
	}

	entries, err := parseCentralDirectory(src, size)
	if err != nil {
		return nil, err
	}

	return &Archive{name: name, opener: opener, entries: entries}, nil
}

// SetCheckpointCacheSize controls how many 32KiB decompressed blocks each
// subsequently opened DEFLATE File may cache for backward-seek reuse (see
// internal/checkpoint). Zero, the default, disables the cache; every
// backward seek then pays for a full decompressor restart.
func (a *Archive) SetCheckpointCacheSize(blocksPerFile int) {
	a.checkpointBlocks = blocksPerFile
}

// Name returns the archive's name, as supplied to OpenArchive.
func (a *Archive) Name() string { return a.name }

// Len reports the number of entries in the archive.
func (a *Archive) Len() int { return len(a.entries) }

// Close releases the index, the entries, and the archive name.
func (a *Archive) Close() error {
	a.entries = nil
	a.opener = nil
	a.name = ""
	return nil
}
