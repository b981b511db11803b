// Package fileid computes a short, stable identity for a file on disk,
// used by internal/indexcache to key a persisted central-directory parse
// against the archive file it was derived from.
package fileid

import "errors"

// ID identifies a regular file well enough to detect that it has been
// replaced: 8 bytes of inode number followed by a 4-byte hash of further
// stat fields (device, modification time and size on Linux and macOS; size
// only on other unix systems).
type ID [12]byte

// ErrNotOS is returned when the underlying file is not backed by a real
// OS file (or the platform does not expose inode numbers).
var ErrNotOS = errors.New("fileid: not a native OS file")
