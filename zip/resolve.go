package zip

import (
	"encoding/binary"
	"fmt"
)

// resolve implements the state machine of spec.md §4.7. It is idempotent:
// a resolved or terminally broken entry returns immediately without
// touching the archive again, and a "resolving" entry proves that this
// call is itself part of a cycle.
func (a *Archive) resolve(idx int) error {
	e := &a.entries[idx]
	switch e.state {
	case stateResolved:
		return nil
	case stateBrokenFile, stateBrokenSymlink:
		return fmt.Errorf("zip: %q: %w", e.name, ErrCorrupted)
	case stateResolving:
		return fmt.Errorf("zip: %q: %w", e.name, ErrSymlinkLoop)
	}

	wasSymlink := e.state == stateUnresolvedSymlink
	e.state = stateResolving

	src, err := a.opener.Open()
	if err != nil {
		e.state = brokenStateFor(wasSymlink)
		return err
	}
	defer src.Close()

	if err := parseLocalHeader(src, e); err != nil {
		e.state = brokenStateFor(wasSymlink)
		return fmt.Errorf("zip: resolving %q: %w", e.name, err)
	}

	if !wasSymlink {
		e.state = stateResolved
		return nil
	}

	target, err := a.resolveSymlinkTarget(src, e)
	if err != nil {
		e.state = stateBrokenSymlink
		return err
	}
	e.symlink = target
	e.state = stateResolved
	return nil
}

func brokenStateFor(wasSymlink bool) resolutionState {
	if wasSymlink {
		return stateBrokenSymlink
	}
	return stateBrokenFile
}

// parseLocalHeader implements spec.md §4.7's local header parse: validate
// the local file header against the central-directory record already on
// hand, then advance e.offset past the header, name, and extra fields so
// it points at the first byte of file data.
func parseLocalHeader(src Source, e *entry) error {
	if err := src.Seek(e.offset); err != nil {
		return err
	}
	hdr := make([]byte, 30)
	if err := readFull(src, hdr); err != nil {
		return fmt.Errorf("truncated local header: %w", ErrCorrupted)
	}
	if binary.LittleEndian.Uint32(hdr) != sigLocalHeader {
		return fmt.Errorf("bad local header signature: %w", ErrCorrupted)
	}

	versionNeeded := binary.LittleEndian.Uint16(hdr[4:])
	flags := binary.LittleEndian.Uint16(hdr[6:])
	method := binary.LittleEndian.Uint16(hdr[8:])
	crc := binary.LittleEndian.Uint32(hdr[14:])
	compSize := binary.LittleEndian.Uint32(hdr[18:])
	uncompSize := binary.LittleEndian.Uint32(hdr[22:])
	nameLen := int(binary.LittleEndian.Uint16(hdr[26:]))
	extraLen := int(binary.LittleEndian.Uint16(hdr[28:]))

	// With general-purpose bit 3 set, the CRC and sizes follow the data in
	// a data descriptor and the local header holds zeros for them, so they
	// are only compared when that bit is clear.
	hasDescriptor := flags&0x8 != 0
	switch {
	case versionNeeded != e.versionNeeded:
		return fmt.Errorf("version-needed mismatch: %w", ErrCorrupted)
	case method != e.method:
		return fmt.Errorf("method mismatch: %w", ErrCorrupted)
	case hasDescriptor:
	case crc != e.crc32:
		return fmt.Errorf("crc mismatch: %w", ErrCorrupted)
	case compSize != e.compressedSize:
		return fmt.Errorf("compressed size mismatch: %w", ErrCorrupted)
	case uncompSize != e.uncompressedSize:
		return fmt.Errorf("uncompressed size mismatch: %w", ErrCorrupted)
	}

	e.offset += 30 + int64(nameLen) + int64(extraLen)
	return nil
}

// resolveSymlinkTarget implements spec.md §4.7's symlink target read: the
// entry's file data is the link's textual target. It is decoded, path
// separators are normalized, the target is looked up, and recursively
// resolved so that e.symlink always ends up pointing at a non-symlink
// entry (spec.md's Entry index invariant).
func (a *Archive) resolveSymlinkTarget(src Source, e *entry) (int, error) {
	data, err := readEntryData(src, e)
	if err != nil {
		return -1, fmt.Errorf("reading symlink target of %q: %w", e.name, err)
	}

	target := string(data)
	if byte(e.versionMadeBy>>8) == 0 { // FAT
		target = dosToSlash(target)
	}
	target = normalizeSymlinkTarget(target)

	targetIdx := findEntry(a.entries, target)
	if targetIdx < 0 {
		return -1, fmt.Errorf("zip: symlink %q -> %q: %w", e.name, target, ErrNoSuchFile)
	}
	if err := a.resolve(targetIdx); err != nil {
		return -1, err
	}

	final := &a.entries[targetIdx]
	if final.symlink >= 0 {
		targetIdx = final.symlink
	}
	return targetIdx, nil
}
