package zip

// This archive is read-only, per spec.md §1/§6/§12: write, create, mkdir
// and remove are non-goals and must return archive-read-only.

// Mkdir always fails: the archive is read-only.
func (a *Archive) Mkdir(string) error { return ErrReadOnly }

// Remove always fails: the archive is read-only.
func (a *Archive) Remove(string) error { return ErrReadOnly }

// Write always fails: the archive is read-only.
func (f *File) Write([]byte, int, int) (int, error) { return 0, ErrReadOnly }
