package zip

import (
	"cmp"
	"slices"
	"strings"
)

// sortEntries produces a fully sorted ascending array by byte-wise name
// compare (spec.md §4.4). The original C implementation's sort has a latent
// quicksort/insertion-sort threshold bug (spec.md §9); this implementation
// only needs to guarantee the sorted outcome, so it uses slices.SortFunc.
func sortEntries(entries []entry) {
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.name, b.name)
	})
}

// findEntry is the exact binary-search lookup of spec.md §4.6.
func findEntry(entries []entry, name string) int {
	i, ok := slices.BinarySearchFunc(entries, name, func(e entry, name string) int {
		return strings.Compare(e.name, name)
	})
	if !ok {
		return -1
	}
	return i
}

// findStartOfDir implements spec.md §4.6's zip_find_start_of_dir: treat
// path as a directory prefix and binary-search for the first entry lying
// inside it. Root ("") always starts at index 0. Returns -1 if no entry
// lies inside the directory.
func findStartOfDir(entries []entry, path string, stopOnFirstFind bool) int {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		if len(entries) == 0 {
			return -1
		}
		return 0
	}

	cmpDir := func(name string) int {
		dlen := len(path)
		if len(name) <= dlen || name[:dlen] != path {
			if name == path {
				return -1 // the entry itself sorts before anything inside it
			}
			return cmp.Compare(name, path)
		}
		switch c := name[dlen]; {
		case c < '/':
			return -1
		case c > '/':
			return 1
		default:
			return 0 // inside the directory
		}
	}

	lo, hi := 0, len(entries)
	found := -1
	for lo < hi {
		mid := (lo + hi) / 2
		switch c := cmpDir(entries[mid].name); {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			found = mid
			if stopOnFirstFind {
				return mid
			}
			hi = mid // keep narrowing left for the leftmost match
		}
	}
	return found
}
