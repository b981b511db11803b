package zip

import (
	"encoding/binary"
	"fmt"
	"time"
)

// hostTypeCannotSymlink lists the version-made-by host-type codes that
// never produce UNIX-style symlink entries, per spec.md §4.3.
var hostTypeCannotSymlink = map[byte]bool{
	0: true, // FAT
	1: true, // Amiga
	2: true, // VMS
	4: true, // VM/CMS
	6: true, // HPFS
	11: true, // NTFS
	13: true, // Acorn
	14: true, // VFAT
	15: true, // MVS
	18: true, // THEOS
}

const (
	sIFMT  = 0o170000
	sIFLNK = 0o120000
)

// eocdFields holds the fixed-layout End-Of-Central-Directory record.
type eocdFields struct {
	thisDisk      uint16
	centralDisk   uint16
	entriesHere   uint16
	entriesTotal  uint16
	centralSize   uint32
	centralOffset uint32
	commentLen    uint16
}

func parseEOCD(b []byte) (eocdFields, error) {
	if len(b) < eocdFixedLen || binary.LittleEndian.Uint32(b) != sigEOCD {
		return eocdFields{}, fmt.Errorf("zip: bad EOCD signature: %w", ErrCorrupted)
	}
	return eocdFields{
		thisDisk:      binary.LittleEndian.Uint16(b[4:]),
		centralDisk:   binary.LittleEndian.Uint16(b[6:]),
		entriesHere:   binary.LittleEndian.Uint16(b[8:]),
		entriesTotal:  binary.LittleEndian.Uint16(b[10:]),
		centralSize:   binary.LittleEndian.Uint32(b[12:]),
		centralOffset: binary.LittleEndian.Uint32(b[16:]),
		commentLen:    binary.LittleEndian.Uint16(b[20:]),
	}, nil
}

// parseCentralDirectory implements spec.md §4.3: locate the EOCD, validate
// single-disk and size-consistency invariants, compute the self-extracting
// stub prefix, and parse every central-directory record into entries
// sorted by name (spec.md §4.4).
func parseCentralDirectory(src Source, size int64) ([]entry, error) {
	eocdPos, err := locateEOCD(src, size)
	if err != nil {
		return nil, err
	}

	eocdBuf := make([]byte, eocdFixedLen)
	if err := src.Seek(eocdPos); err != nil {
		return nil, err
	}
	if err := readFull(src, eocdBuf); err != nil {
		return nil, err
	}
	eocd, err := parseEOCD(eocdBuf)
	if err != nil {
		return nil, err
	}

	if eocd.thisDisk != 0 || eocd.centralDisk != 0 {
		return nil, fmt.Errorf("zip: spanned archives: %w", ErrUnsupported)
	}
	if eocd.entriesHere != eocd.entriesTotal {
		return nil, fmt.Errorf("zip: per-disk/total entry count mismatch: %w", ErrUnsupported)
	}
	if eocdPos+eocdFixedLen+int64(eocd.commentLen) != size {
		return nil, fmt.Errorf("zip: trailing comment length mismatch: %w", ErrUnsupported)
	}

	cdOfsStated := int64(eocd.centralOffset)
	cdSize := int64(eocd.centralSize)
	prefix := eocdPos - (cdOfsStated + cdSize)

	if err := src.Seek(cdOfsStated + prefix); err != nil {
		return nil, err
	}

	entries := make([]entry, 0, eocd.entriesTotal)
	hdr := make([]byte, 46)
	for i := 0; i < int(eocd.entriesTotal); i++ {
		if err := readFull(src, hdr); err != nil {
			return nil, fmt.Errorf("zip: truncated central directory: %w", ErrCorrupted)
		}
		if binary.LittleEndian.Uint32(hdr) != sigCentralHeader {
			return nil, fmt.Errorf("zip: bad central directory signature: %w", ErrCorrupted)
		}

		versionMadeBy := binary.LittleEndian.Uint16(hdr[4:])
		versionNeeded := binary.LittleEndian.Uint16(hdr[6:])
		method := binary.LittleEndian.Uint16(hdr[10:])
		dosTime := binary.LittleEndian.Uint16(hdr[12:])
		dosDate := binary.LittleEndian.Uint16(hdr[14:])
		crc := binary.LittleEndian.Uint32(hdr[16:])
		compSize := binary.LittleEndian.Uint32(hdr[20:])
		uncompSize := binary.LittleEndian.Uint32(hdr[24:])
		nameLen := int(binary.LittleEndian.Uint16(hdr[28:]))
		extraLen := int(binary.LittleEndian.Uint16(hdr[30:]))
		commentLen := int(binary.LittleEndian.Uint16(hdr[32:]))
		externalAttrs := binary.LittleEndian.Uint32(hdr[38:])
		localOffset := int64(binary.LittleEndian.Uint32(hdr[42:])) + prefix

		rest := make([]byte, nameLen+extraLen+commentLen)
		if err := readFull(src, rest); err != nil {
			return nil, fmt.Errorf("zip: truncated central directory entry name: %w", ErrCorrupted)
		}
		name := string(rest[:nameLen])

		hostType := byte(versionMadeBy >> 8)
		if hostType == 0 { // FAT
			name = dosToSlash(name)
		}

		st := stateUnresolvedFile
		if !hostTypeCannotSymlink[hostType] &&
			(externalAttrs>>16)&sIFMT == sIFLNK &&
			uncompSize > 0 {
			st = stateUnresolvedSymlink
		}

		entries = append(entries, entry{
			name:             name,
			offset:           localOffset,
			versionMadeBy:    versionMadeBy,
			versionNeeded:    versionNeeded,
			method:           method,
			crc32:            crc,
			compressedSize:   compSize,
			uncompressedSize: uncompSize,
			modTime:          dosTimeToUnix(dosDate, dosTime),
			state:            st,
			symlink:          -1,
		})
	}

	sortEntries(entries)
	return entries, nil
}

func dosToSlash(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c == '\\' {
			b[i] = '/'
		}
	}
	return string(b)
}

// dosTimeToUnix implements spec.md §4.5.
func dosTimeToUnix(date, t uint16) int64 {
	year := int(((date >> 9) & 0x7F)) + 1980
	month := time.Month((date >> 5) & 0x0F)
	day := int(date & 0x1F)
	hour := int((t >> 11) & 0x1F)
	minute := int((t >> 5) & 0x3F)
	second := int(t&0x1F) << 1

	if month < 1 {
		month = 1
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, hour, minute, second, 0, time.Local).Unix()
}
