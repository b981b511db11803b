package zip

import "encoding/binary"

const (
	sigLocalHeader   = uint32(0x04034b50)
	sigCentralHeader = uint32(0x02014b50)
	sigEOCD          = uint32(0x06054b50)

	eocdFixedLen = 22
	maxComment   = 65535
	maxEOCDScan  = maxComment + eocdFixedLen // 65557, per spec.md §4.1
	eocdWindow   = 256
)

// locateEOCD scans backward from the end of src for the EOCD signature,
// tolerating a variable-length archive comment and an arbitrary prefix
// of non-ZIP data (e.g. a self-extracting stub). It returns the absolute
// offset of the signature nearest EOF, per spec.md §4.1.
func locateEOCD(src Source, size int64) (int64, error) {
	if size < eocdFixedLen {
		return 0, ErrNotArchive
	}

	limit := size - maxEOCDScan
	if limit < 0 {
		limit = 0
	}

	end := size
	for {
		start := end - eocdWindow
		if start < limit {
			start = limit
		}
		n := end - start
		if n < 4 {
			return 0, ErrNotArchive
		}

		buf := make([]byte, n)
		if err := src.Seek(start); err != nil {
			return 0, err
		}
		if err := readFull(src, buf); err != nil {
			return 0, err
		}

		for i := len(buf) - 4; i >= 0; i-- {
			if binary.LittleEndian.Uint32(buf[i:]) == sigEOCD {
				return start + int64(i), nil
			}
		}

		if start <= limit {
			return 0, ErrNotArchive
		}
		// Slide the window earlier, keeping a 3-byte overlap so a
		// signature straddling the old boundary is never missed.
		end = start + 3
	}
}

// IsArchive reports whether src (of the given size) looks like a ZIP
// archive: either it starts with a local file header signature, or the
// EOCD locator finds a trailer. It never mutates src beyond reading.
func IsArchive(src Source, size int64) bool {
	if size >= 4 {
		head := make([]byte, 4)
		if err := src.Seek(0); err == nil {
			if err := readFull(src, head); err == nil {
				if binary.LittleEndian.Uint32(head) == sigLocalHeader {
					return true
				}
			}
		}
	}
	_, err := locateEOCD(src, size)
	return err == nil
}
