package zip

import (
	"fmt"
	"strings"
)

// StringSink receives names from EnumerateFiles. It stands in for
// spec.md's "linked-string-list helper", kept external to the core;
// archivehost.StringList is the concrete implementation.
type StringSink interface {
	Append(name string)
}

// Exists implements spec.md §4.10: exact lookup, present or not.
func (a *Archive) Exists(name string) bool {
	return findEntry(a.entries, name) >= 0
}

// IsDirectory implements spec.md §4.10: an entry is a directory either
// because some other entry's name starts with "name/", or because it is
// itself a symlink whose resolved target is a directory.
func (a *Archive) IsDirectory(name string) (bool, error) {
	name = strings.TrimSuffix(name, "/")
	if findStartOfDir(a.entries, name, true) >= 0 {
		return true, nil
	}

	idx := findEntry(a.entries, name)
	if idx < 0 {
		return false, fmt.Errorf("zip: %q: %w", name, ErrNoSuchFile)
	}

	e := &a.entries[idx]
	if !e.isSymlinkCandidate() {
		return false, nil
	}
	if err := a.resolve(idx); err != nil {
		return false, err
	}
	e = &a.entries[idx]
	if e.symlink < 0 {
		return false, nil
	}
	target := a.entries[e.symlink]
	return findStartOfDir(a.entries, target.name, true) >= 0, nil
}

// IsSymLink implements spec.md §4.10.
func (a *Archive) IsSymLink(name string) (bool, error) {
	idx := findEntry(a.entries, name)
	if idx < 0 {
		return false, fmt.Errorf("zip: %q: %w", name, ErrNoSuchFile)
	}
	return a.entries[idx].isSymlinkCandidate(), nil
}

// GetLastModTime implements spec.md §4.10: returns -1 for a missing name.
func (a *Archive) GetLastModTime(name string) int64 {
	idx := findEntry(a.entries, name)
	if idx < 0 {
		return -1
	}
	return a.entries[idx].modTime
}

// EnumerateFiles implements spec.md §4.10: emits, in order, one name per
// direct child of dirname — files and immediate subdirectory components,
// each exactly once, optionally omitting symlinks.
func (a *Archive) EnumerateFiles(dirname string, omitSymlinks bool, out StringSink) error {
	dirname = strings.TrimSuffix(dirname, "/")
	start := findStartOfDir(a.entries, dirname, false)
	if start < 0 {
		return nil
	}

	prefix := dirname + "/"
	if dirname == "" {
		prefix = ""
	}

	lastSub := ""
	for i := start; i < len(a.entries); i++ {
		name := a.entries[i].name
		if dirname != "" && !strings.HasPrefix(name, prefix) {
			break
		}

		tail := strings.TrimPrefix(name, prefix)
		if tail == "" {
			continue // the directory's own self-entry
		}

		if slash := strings.IndexByte(tail, '/'); slash >= 0 {
			sub := tail[:slash]
			if sub == lastSub {
				continue // already emitted; still inside that subdirectory
			}
			out.Append(sub)
			lastSub = sub
			continue
		}

		if omitSymlinks && a.entries[i].isSymlinkCandidate() {
			continue
		}
		out.Append(tail)
	}
	return nil
}
