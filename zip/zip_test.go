package zip

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
)

// memSource is a zip.Source over an in-memory byte slice, used so tests
// can build fixture archives with the standard library's archive/zip
// writer (test-data generation only; production code never imports it)
// and exercise this package's reader against them without touching disk.
type memSource struct {
	data []byte
	pos  int64
}

func (m *memSource) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}
func (m *memSource) Seek(offset int64) error { m.pos = offset; return nil }
func (m *memSource) Tell() (int64, error)    { return m.pos, nil }
func (m *memSource) Length() (int64, error)  { return int64(len(m.data)), nil }
func (m *memSource) Close() error            { return nil }

type memOpener struct{ data []byte }

func (o memOpener) Open() (Source, error) { return &memSource{data: o.data}, nil }

const (
	hostUnix        = 3
	modeSymlink     = 0o120000
	modeRegularFile = 0o100644
)

type fixtureFile struct {
	name    string
	content []byte
	method  uint16
	symlink bool
}

func buildFixture(t *testing.T, files []fixtureFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:   f.name,
			Method: f.method,
		}
		hdr.CreatorVersion = uint16(hostUnix)<<8 | 20
		mode := uint32(modeRegularFile)
		if f.symlink {
			mode = modeSymlink
		}
		hdr.ExternalAttrs = mode << 16
		hdr.Modified = hdr.Modified // zero time is fine
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("CreateHeader(%q): %v", f.name, err)
		}
		if _, err := fw.Write(f.content); err != nil {
			t.Fatalf("write %q: %v", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close fixture writer: %v", err)
	}
	return buf.Bytes()
}

func openFixture(t *testing.T, files []fixtureFile) *Archive {
	t.Helper()
	data := buildFixture(t, files)
	arc, err := OpenArchive("fixture.zip", memOpener{data: data})
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	t.Cleanup(func() { arc.Close() })
	return arc
}

func readAll(t *testing.T, f *File) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, 7) // deliberately awkward size to exercise partial reads
	for {
		n, err := f.Read(buf, 1, len(buf))
		out = append(out, buf[:n]...)
		if err != nil {
			if errors.Is(err, ErrPastEOF) {
				return out
			}
			t.Fatalf("Read: %v", err)
		}
		if n == 0 && f.Eof() {
			return out
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	content := []byte("hello, this is stored verbatim")
	arc := openFixture(t, []fixtureFile{{name: "a.txt", content: content, method: methodStore}})

	f, err := arc.OpenRead("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got := readAll(t, f)
	if string(got) != string(content) {
		t.Errorf("got %q, want %q", got, content)
	}
	if f.FileLength() != int64(len(content)) {
		t.Errorf("FileLength = %d, want %d", f.FileLength(), len(content))
	}
}

func TestDeflateBackwardSeek(t *testing.T) {
	content := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 2000)
	arc := openFixture(t, []fixtureFile{{name: "big.bin", content: content, method: methodDeflate}})

	f, err := arc.OpenRead("big.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got := readAll(t, f)
	if !bytes.Equal(got, content) {
		t.Fatalf("forward read mismatch: got %d bytes, want %d", len(got), len(content))
	}

	// Seek back into the middle and re-read: this is the scenario
	// internal/checkpoint exists for, and must be correct with or
	// without a cache hit.
	mid := int64(len(content) / 2)
	if err := f.Seek(mid); err != nil {
		t.Fatalf("Seek(%d): %v", mid, err)
	}
	rest := readAll(t, f)
	if !bytes.Equal(rest, content[mid:]) {
		t.Fatalf("backward-seek read mismatch at offset %d", mid)
	}

	if err := f.Seek(0); err != nil {
		t.Fatalf("Seek(0): %v", err)
	}
	fromStart := readAll(t, f)
	if !bytes.Equal(fromStart, content) {
		t.Fatalf("re-read from 0 mismatch")
	}
}

func TestDeflateBackwardSeekWithCheckpointCache(t *testing.T) {
	content := bytes.Repeat([]byte("checkpoint cache exercise data. "), 3000)
	data := buildFixture(t, []fixtureFile{{name: "big.bin", content: content, method: methodDeflate}})
	arc, err := OpenArchive("fixture.zip", memOpener{data: data})
	if err != nil {
		t.Fatal(err)
	}
	defer arc.Close()
	arc.SetCheckpointCacheSize(64)

	f, err := arc.OpenRead("big.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	first := readAll(t, f)
	if !bytes.Equal(first, content) {
		t.Fatal("initial read mismatch")
	}

	for _, target := range []int64{0, int64(len(content) / 3), int64(len(content) / 2), 0} {
		if err := f.Seek(target); err != nil {
			t.Fatalf("Seek(%d): %v", target, err)
		}
		got := readAll(t, f)
		if !bytes.Equal(got, content[target:]) {
			t.Fatalf("cached re-read from %d mismatch", target)
		}
	}
}

func TestSymlinkChain(t *testing.T) {
	arc := openFixture(t, []fixtureFile{
		{name: "real.txt", content: []byte("target data"), method: methodStore},
		{name: "link1", content: []byte("real.txt"), method: methodStore, symlink: true},
		{name: "link2", content: []byte("link1"), method: methodStore, symlink: true},
	})

	isSym, err := arc.IsSymLink("link2")
	if err != nil || !isSym {
		t.Fatalf("IsSymLink(link2) = %v, %v", isSym, err)
	}

	f, err := arc.OpenRead("link2")
	if err != nil {
		t.Fatalf("OpenRead(link2): %v", err)
	}
	defer f.Close()
	got := readAll(t, f)
	if string(got) != "target data" {
		t.Errorf("got %q through symlink chain", got)
	}
}

func TestSymlinkLoop(t *testing.T) {
	arc := openFixture(t, []fixtureFile{
		{name: "a", content: []byte("b"), method: methodStore, symlink: true},
		{name: "b", content: []byte("a"), method: methodStore, symlink: true},
	})

	_, err := arc.OpenRead("a")
	if !errors.Is(err, ErrSymlinkLoop) {
		t.Fatalf("OpenRead(a) = %v, want ErrSymlinkLoop", err)
	}

	// Per spec: once broken by a loop, a second attempt fails immediately
	// with ErrCorrupted rather than re-walking the cycle.
	_, err = arc.OpenRead("a")
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("second OpenRead(a) = %v, want ErrCorrupted", err)
	}
}

func TestEnumerateFilesWithSubdirectories(t *testing.T) {
	arc := openFixture(t, []fixtureFile{
		{name: "top.txt", content: []byte("x"), method: methodStore},
		{name: "dir/one.txt", content: []byte("x"), method: methodStore},
		{name: "dir/two.txt", content: []byte("x"), method: methodStore},
		{name: "dir/sub/three.txt", content: []byte("x"), method: methodStore},
	})

	var names stringSliceSink
	if err := arc.EnumerateFiles("", false, &names); err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"top.txt": true, "dir": true}
	if len(names) != len(want) {
		t.Fatalf("root listing = %v, want keys of %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected root entry %q", n)
		}
	}

	names = nil
	if err := arc.EnumerateFiles("dir", false, &names); err != nil {
		t.Fatal(err)
	}
	want = map[string]bool{"one.txt": true, "two.txt": true, "sub": true}
	if len(names) != len(want) {
		t.Fatalf("dir listing = %v, want keys of %v", names, want)
	}

	isDir, err := arc.IsDirectory("dir")
	if err != nil || !isDir {
		t.Fatalf("IsDirectory(dir) = %v, %v", isDir, err)
	}
}

type stringSliceSink []string

func (s *stringSliceSink) Append(name string) { *s = append(*s, name) }

func TestExists(t *testing.T) {
	arc := openFixture(t, []fixtureFile{{name: "a.txt", content: []byte("x"), method: methodStore}})
	if !arc.Exists("a.txt") {
		t.Error("Exists(a.txt) = false")
	}
	if arc.Exists("missing") {
		t.Error("Exists(missing) = true")
	}
	if arc.GetLastModTime("missing") != -1 {
		t.Error("GetLastModTime(missing) should be -1")
	}
}
