//go:build darwin

package fileid

import (
	"encoding/binary"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/unix"
)

// Get identifies f by device+inode, folding its size and mtime into a
// short hash so that truncate-and-rewrite-in-place is detected as a change.
func Get(f *os.File) (ID, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return ID{}, err
	}

	var id ID
	binary.BigEndian.PutUint64(id[:8], st.Ino)

	var h xxhash.Digest
	binary.Write(&h, binary.BigEndian, st.Dev)
	binary.Write(&h, binary.BigEndian, st.Mtimespec.Sec)
	binary.Write(&h, binary.BigEndian, int64(st.Mtimespec.Nsec))
	binary.Write(&h, binary.BigEndian, st.Size)
	binary.BigEndian.PutUint32(id[8:], uint32(h.Sum64()))

	return id, nil
}
