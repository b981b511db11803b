//go:build !unix

package fileid

import "os"

// Get is unavailable on non-unix platforms; callers fall back to
// re-parsing the central directory every time.
func Get(f *os.File) (ID, error) {
	return ID{}, ErrNotOS
}
