package archivehost

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/elinorkade/archivefs/zip"
)

// ReadFile is the subset of zip.File's interface a search path needs from
// any mounted provider, whether the file came out of an archive or off the
// host disk directly.
type ReadFile interface {
	Read(buf []byte, objSize, objCount int) (int, error)
	Tell() int64
	Eof() bool
	FileLength() int64
	Seek(target int64) error
	Close() error
}

// Provider is anything that can sit in a SearchPath: a *zip.Archive
// satisfies it once wrapped by Archive.
type Provider interface {
	Exists(name string) bool
	IsDirectory(name string) (bool, error)
	IsSymLink(name string) (bool, error)
	GetLastModTime(name string) int64
	EnumerateFiles(dirname string, omitSymlinks bool, out zip.StringSink) error
	OpenRead(name string) (ReadFile, error)
}

// archiveProvider adapts *zip.Archive's OpenRead (which returns *zip.File)
// to Provider's ReadFile-returning signature.
type archiveProvider struct{ *zip.Archive }

func (p archiveProvider) OpenRead(name string) (ReadFile, error) { return p.Archive.OpenRead(name) }

// Archive wraps an already-opened archive so it can be stacked in a
// SearchPath.
func Archive(a *zip.Archive) Provider { return archiveProvider{a} }

// Dir is a Provider backed directly by a host directory, for stacking a
// plain on-disk tree alongside mounted archives.
type Dir struct {
	Root string
}

func (d Dir) full(name string) string { return path.Join(d.Root, name) }

func (d Dir) Exists(name string) bool {
	_, err := os.Stat(d.full(name))
	return err == nil
}

func (d Dir) IsDirectory(name string) (bool, error) {
	fi, err := os.Stat(d.full(name))
	if err != nil {
		return false, fmt.Errorf("archivehost: %q: %w", name, zip.ErrNoSuchFile)
	}
	return fi.IsDir(), nil
}

func (d Dir) IsSymLink(name string) (bool, error) {
	fi, err := os.Lstat(d.full(name))
	if err != nil {
		return false, fmt.Errorf("archivehost: %q: %w", name, zip.ErrNoSuchFile)
	}
	return fi.Mode()&os.ModeSymlink != 0, nil
}

func (d Dir) GetLastModTime(name string) int64 {
	fi, err := os.Stat(d.full(name))
	if err != nil {
		return -1
	}
	return fi.ModTime().Unix()
}

func (d Dir) EnumerateFiles(dirname string, omitSymlinks bool, out zip.StringSink) error {
	entries, err := os.ReadDir(d.full(dirname))
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if omitSymlinks && e.Type()&os.ModeSymlink != 0 {
			continue
		}
		out.Append(e.Name())
	}
	return nil
}

func (d Dir) OpenRead(name string) (ReadFile, error) {
	f, err := os.Open(d.full(name))
	if err != nil {
		return nil, fmt.Errorf("archivehost: open %q: %w", name, zip.ErrNoSuchFile)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &dirFile{f: f, size: fi.Size()}, nil
}

type dirFile struct {
	f    *os.File
	pos  int64
	size int64
}

func (f *dirFile) Read(buf []byte, objSize, objCount int) (int, error) {
	want := objSize * objCount
	if want > len(buf) {
		want = len(buf)
	}
	n, err := f.f.Read(buf[:want])
	f.pos += int64(n)
	if err != nil && err != io.EOF {
		return n / objSize, err
	}
	return n / objSize, nil
}
func (f *dirFile) Tell() int64       { return f.pos }
func (f *dirFile) Eof() bool         { return f.pos >= f.size }
func (f *dirFile) FileLength() int64 { return f.size }
func (f *dirFile) Seek(target int64) error {
	_, err := f.f.Seek(target, io.SeekStart)
	if err == nil {
		f.pos = target
	}
	return err
}
func (f *dirFile) Close() error { return f.f.Close() }

// SearchPath stacks Providers into one logical namespace: a lookup goes to
// the most recently mounted provider whose prefix covers the name, the
// shape of BeHierarchic's own mountpoint burrowing, but driven by the
// core's explicit Exists/OpenRead API rather than io/fs.FS. A lookup does
// not fall through to an earlier provider when that one lacks the name.
type SearchPath struct {
	mounts []mount
}

type mount struct {
	prefix   string // "" for a root-level mount
	provider Provider
}

// Mount adds provider at prefix (the empty string mounts at the root). A
// later Mount call for an overlapping prefix shadows an earlier one: resolve
// walks mounts in reverse registration order.
func (sp *SearchPath) Mount(prefix string, provider Provider) {
	prefix = strings.Trim(prefix, "/")
	sp.mounts = append(sp.mounts, mount{prefix: prefix, provider: provider})
}

// resolve finds the most recently mounted provider whose prefix is an
// ancestor of name, and the name relative to that provider's root.
func (sp *SearchPath) resolve(name string) (Provider, string, bool) {
	name = strings.TrimPrefix(name, "/")
	for i := len(sp.mounts) - 1; i >= 0; i-- {
		m := sp.mounts[i]
		switch {
		case m.prefix == "":
			return m.provider, name, true
		case name == m.prefix:
			return m.provider, "", true
		case strings.HasPrefix(name, m.prefix+"/"):
			return m.provider, name[len(m.prefix)+1:], true
		}
	}
	return nil, "", false
}

func (sp *SearchPath) Exists(name string) bool {
	p, rel, ok := sp.resolve(name)
	return ok && p.Exists(rel)
}

func (sp *SearchPath) IsDirectory(name string) (bool, error) {
	p, rel, ok := sp.resolve(name)
	if !ok {
		return false, fmt.Errorf("archivehost: %q: %w", name, zip.ErrNoSuchFile)
	}
	return p.IsDirectory(rel)
}

func (sp *SearchPath) GetLastModTime(name string) int64 {
	p, rel, ok := sp.resolve(name)
	if !ok {
		return -1
	}
	return p.GetLastModTime(rel)
}

func (sp *SearchPath) OpenRead(name string) (ReadFile, error) {
	p, rel, ok := sp.resolve(name)
	if !ok {
		return nil, fmt.Errorf("archivehost: open %q: %w", name, zip.ErrNoSuchFile)
	}
	return p.OpenRead(rel)
}

func (sp *SearchPath) EnumerateFiles(dirname string, omitSymlinks bool, out zip.StringSink) error {
	p, rel, ok := sp.resolve(dirname)
	if !ok {
		return fmt.Errorf("archivehost: %q: %w", dirname, zip.ErrNoSuchFile)
	}
	return p.EnumerateFiles(rel, omitSymlinks, out)
}
