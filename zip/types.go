package zip

// resolutionState is the per-entry state machine of spec.md §4.7/§9:
// lazy local-header validation plus optional symlink chase, with cycle
// detection via the transient "resolving" state.
type resolutionState uint8

const (
	stateUnresolvedFile resolutionState = iota
	stateUnresolvedSymlink
	stateResolving
	stateResolved
	stateBrokenFile
	stateBrokenSymlink
)

// method codes this package understands at open time; any other value is
// recorded but rejected when the entry is actually opened.
const (
	methodStore   = 0
	methodDeflate = 8
)

// entry is one central-directory record, plus resolver-owned state.
// offset starts out pointing at the local file header and is fixed up,
// in place, to point at the first byte of file data once resolved.
type entry struct {
	name string

	offset         int64
	versionMadeBy  uint16
	versionNeeded  uint16
	method         uint16
	crc32          uint32
	compressedSize uint32
	uncompressedSize uint32
	modTime        int64 // seconds since the Unix epoch

	state   resolutionState
	symlink int // index into Archive.entries, -1 if none
}

func (e *entry) isSymlinkCandidate() bool {
	return e.state == stateUnresolvedSymlink || e.state == stateBrokenSymlink ||
		(e.state == stateResolved && e.symlink >= 0)
}
