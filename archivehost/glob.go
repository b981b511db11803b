package archivehost

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/elinorkade/archivefs/zip"
)

// Glob matches pattern (a doublestar pattern, supporting "**") against
// every name reachable under dirname by recursive EnumerateFiles, the same
// library BeHierarchic itself uses for glob matching over its own virtual
// tree.
func Glob(a *zip.Archive, dirname, pattern string) ([]string, error) {
	var out []string
	err := walk(a, dirname, func(name string) error {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, name)
		}
		return nil
	})
	return out, err
}

func walk(a *zip.Archive, dirname string, visit func(name string) error) error {
	var kids StringList
	if err := a.EnumerateFiles(dirname, false, &kids); err != nil {
		return err
	}
	for name := range kids.All {
		full := name
		if dirname != "" {
			full = path.Join(dirname, name)
		}
		if err := visit(full); err != nil {
			return err
		}
		isDir, err := a.IsDirectory(full)
		if err != nil {
			continue // broken symlink or similar; skip descending
		}
		if isDir && !strings.HasSuffix(full, "/") {
			if err := walk(a, full, visit); err != nil {
				return err
			}
		}
	}
	return nil
}
