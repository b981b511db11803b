package zip

import "strings"

// normalizeSymlinkTarget implements spec.md §4.8: collapse "." and ".."
// path components using '/' as separator. It is an intentional behavior,
// carried over from the original design, that normalization stops
// collapsing as soon as it meets a ".." with no earlier component to
// cancel against — everything from that point on is left untouched rather
// than treated as rooted at "/". The result is used verbatim as an index
// lookup key.
func normalizeSymlinkTarget(path string) string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	stopped := false

	for _, p := range parts {
		if stopped {
			out = append(out, p)
			continue
		}
		switch p {
		case ".":
			// drop this component entirely
		case "..":
			if len(out) == 0 {
				stopped = true
				out = append(out, p)
			} else {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}
