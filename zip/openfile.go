package zip

import (
	"fmt"
	"io"

	klflate "github.com/klauspost/compress/flate"

	"github.com/elinorkade/archivefs/internal/checkpoint"
)

// deflateInputBufSize is the fixed compressed-input buffer size spec.md
// §4.9 recommends.
const deflateInputBufSize = 16 * 1024

// File is an open entry: a weak reference to its (already-resolved, never
// a symlink itself) entry, an owned Source, and decoder state that exists
// only for DEFLATE entries. Per spec.md §5, multiple Files against the
// same Archive use independent Sources and never contend on seek position.
type File struct {
	arc           *Archive
	e             *entry
	src           Source
	pos           int64 // == Tell()
	compressedPos int64

	bounded  *boundedReader // nil for STORE
	inflater io.ReadCloser  // nil for STORE

	// ckpt, when non-nil, caches decompressed blocks so a backward seek
	// into already-read territory can skip the decompressor entirely. See
	// internal/checkpoint: it is a pure performance layer, never load-
	// bearing for correctness.
	ckpt           *checkpoint.Cache
	deflateSynced  bool  // whether f.inflater's output position matches f.pos
	ckptBuf        []byte
	ckptBlockStart int64
}

// boundedReader feeds at most compressedSize bytes from src through a
// fixed-size scratch buffer, modeling the "owned fixed-size input buffer"
// of spec.md's open-file state and the "read up to 16KiB at a time" step
// of the §4.9 read algorithm.
type boundedReader struct {
	src       Source
	remaining int64
	buf       []byte
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		return 0, io.EOF
	}
	max := int64(len(p))
	if max > int64(len(b.buf)) {
		max = int64(len(b.buf))
	}
	if max > b.remaining {
		max = b.remaining
	}
	n, err := b.src.Read(b.buf[:max])
	copy(p, b.buf[:n])
	b.remaining -= int64(n)
	return n, err
}

// OpenRead implements spec.md §4.9's Open-read: look up the name, resolve
// it (chasing a symlink to its target), and open a fresh Source positioned
// at the data's start.
func (a *Archive) OpenRead(name string) (*File, error) {
	idx := findEntry(a.entries, name)
	if idx < 0 {
		return nil, fmt.Errorf("zip: open %q: %w", name, ErrNoSuchFile)
	}
	if err := a.resolve(idx); err != nil {
		return nil, err
	}
	e := &a.entries[idx]
	if e.symlink >= 0 {
		e = &a.entries[e.symlink]
	}
	if e.method != methodStore && e.method != methodDeflate {
		return nil, fmt.Errorf("zip: %q: method %d: %w", name, e.method, ErrUnsupported)
	}

	src, err := a.opener.Open()
	if err != nil {
		return nil, err
	}
	if err := src.Seek(e.offset); err != nil {
		src.Close()
		return nil, err
	}

	f := &File{arc: a, e: e, src: src}
	if e.method == methodDeflate {
		f.bounded = &boundedReader{src: src, remaining: int64(e.compressedSize), buf: make([]byte, deflateInputBufSize)}
		f.inflater = klflate.NewReader(f.bounded)
		f.deflateSynced = true
		f.ckpt = checkpoint.New(a.checkpointBlocks)
	}
	return f, nil
}

// Read implements spec.md §4.9: returns the number of whole objects of
// size objSize read into buf, clamped to what remains of the entry.
func (f *File) Read(buf []byte, objSize, objCount int) (int, error) {
	if objSize <= 0 || objCount <= 0 {
		return 0, nil
	}

	avail := int64(f.e.uncompressedSize) - f.pos
	want := int64(objSize) * int64(objCount)
	maxRead := want
	if avail < maxRead {
		maxRead = avail
	}
	maxRead -= maxRead % int64(objSize)

	if maxRead <= 0 {
		if f.pos >= int64(f.e.uncompressedSize) {
			return 0, ErrPastEOF
		}
		return 0, nil
	}
	if int64(len(buf)) < maxRead {
		maxRead = int64(len(buf))
	}

	var n int64
	var err error
	if f.e.method == methodStore {
		n, err = f.readStore(buf, maxRead)
	} else {
		n, err = f.readDeflate(buf, maxRead)
	}
	f.pos += n

	objs := int(n) / objSize
	if err != nil && err != io.EOF {
		return objs, err
	}
	return objs, nil
}

func (f *File) readStore(buf []byte, max int64) (int64, error) {
	total := int64(0)
	for total < max {
		n, err := f.src.Read(buf[total:max])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (f *File) readDeflate(buf []byte, max int64) (int64, error) {
	total := int64(0)

	if !f.deflateSynced {
		total += f.serveFromCheckpoint(buf[:max], f.pos)
		if total == max {
			return total, nil
		}
		if err := f.syncDeflate(f.pos + total); err != nil {
			return total, err
		}
	}

	streamPos := f.pos + total
	for total < max {
		n, err := f.inflater.Read(buf[total:max])
		if n > 0 {
			f.feedCheckpoint(streamPos, buf[total:total+int64(n)])
			streamPos += int64(n)
		}
		total += int64(n)
		f.compressedPos = int64(f.e.compressedSize) - f.bounded.remaining
		if err != nil {
			if err == io.EOF {
				return total, io.EOF
			}
			return total, fmt.Errorf("zip: inflate %q: %w", f.e.name, err)
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// serveFromCheckpoint fills the leading, contiguous, cache-covered prefix
// of p (which begins at decompressed offset pos) without touching the live
// decoder, and returns how many bytes it supplied.
func (f *File) serveFromCheckpoint(p []byte, pos int64) int64 {
	var n int64
	for n < int64(len(p)) {
		data, blockStart, ok := f.ckpt.Get(pos + n)
		if !ok {
			break
		}
		skip := (pos + n) - blockStart
		want := int64(len(p)) - n
		avail := int64(len(data)) - skip
		if avail <= 0 {
			break
		}
		if avail > want {
			avail = want
		}
		copy(p[n:n+avail], data[skip:skip+avail])
		n += avail
	}
	return n
}

// syncDeflate restarts the live decoder from the entry's start and
// redecodes up to target, bringing it back in sync with f.pos. Called once
// a run of checkpoint-served reads has left it behind.
func (f *File) syncDeflate(target int64) error {
	if err := f.restartDeflate(); err != nil {
		return err
	}
	f.deflateSynced = true

	var scratch [4096]byte
	pos := int64(0)
	for pos < target {
		want := target - pos
		if want > int64(len(scratch)) {
			want = int64(len(scratch))
		}
		n, err := f.inflater.Read(scratch[:want])
		if n > 0 {
			f.feedCheckpoint(pos, scratch[:n])
			pos += int64(n)
		}
		f.compressedPos = int64(f.e.compressedSize) - f.bounded.remaining
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("zip: inflate %q: %w", f.e.name, err)
		}
		if n == 0 {
			break
		}
	}
	return nil
}

// feedCheckpoint offers freshly-decoded bytes, known to start at the
// decompressed offset streamPos, to the checkpoint cache. Bytes before the
// next block boundary are not cached; once aligned, full blocks are handed
// to f.ckpt as they complete.
func (f *File) feedCheckpoint(streamPos int64, p []byte) {
	if f.ckpt == nil {
		return
	}
	if f.ckptBuf != nil && streamPos != f.ckptBlockStart+int64(len(f.ckptBuf)) {
		f.ckptBuf = nil
	}
	for len(p) > 0 {
		if f.ckptBuf == nil {
			if streamPos%checkpoint.BlockSize != 0 {
				skip := checkpoint.BlockSize - streamPos%checkpoint.BlockSize
				if skip > int64(len(p)) {
					skip = int64(len(p))
				}
				p = p[skip:]
				streamPos += skip
				continue
			}
			f.ckptBlockStart = streamPos
			f.ckptBuf = make([]byte, 0, checkpoint.BlockSize)
		}
		room := checkpoint.BlockSize - len(f.ckptBuf)
		n := len(p)
		if n > room {
			n = room
		}
		f.ckptBuf = append(f.ckptBuf, p[:n]...)
		p = p[n:]
		streamPos += int64(n)
		if len(f.ckptBuf) == checkpoint.BlockSize {
			f.ckpt.Put(f.ckptBlockStart, f.ckptBuf)
			f.ckptBuf = nil
		}
	}
}

// Tell reports the current uncompressed read position.
func (f *File) Tell() int64 { return f.pos }

// Eof reports whether the read position has reached the entry's end.
func (f *File) Eof() bool { return f.pos >= int64(f.e.uncompressedSize) }

// FileLength reports the entry's uncompressed size.
func (f *File) FileLength() int64 { return int64(f.e.uncompressedSize) }

// Seek implements spec.md §4.9. STORE seeks the underlying Source
// directly. DEFLATE has no seekable stream underneath it: a backward seek
// just records the new position and marks the decoder out of sync; a
// forward seek that is still in sync discards by reading as before. Either
// way the decoder is only actually restarted and replayed — the only
// correct strategy without checkpointing — the next time a read can't be
// satisfied from internal/checkpoint's cache. See syncDeflate.
func (f *File) Seek(target int64) error {
	if target > int64(f.e.uncompressedSize) {
		return ErrPastEOF
	}
	if f.e.method == methodStore {
		if err := f.src.Seek(f.e.offset + target); err != nil {
			return err
		}
		f.pos = target
		return nil
	}

	if target < f.pos {
		f.pos = target
		f.deflateSynced = false
		return nil
	}
	if !f.deflateSynced {
		f.pos = target
		return nil
	}
	return f.discardTo(target)
}

func (f *File) restartDeflate() error {
	if err := f.src.Seek(f.e.offset); err != nil {
		return err
	}
	f.bounded.remaining = int64(f.e.compressedSize)
	f.compressedPos = 0
	if r, ok := f.inflater.(klflate.Resetter); ok {
		if err := r.Reset(f.bounded, nil); err != nil {
			return fmt.Errorf("zip: inflate reset: %w", err)
		}
		return nil
	}
	f.inflater = klflate.NewReader(f.bounded)
	return nil
}

func (f *File) discardTo(target int64) error {
	var scratch [512]byte
	for f.pos < target {
		want := target - f.pos
		if want > int64(len(scratch)) {
			want = int64(len(scratch))
		}
		n, err := f.Read(scratch[:want], 1, int(want))
		if n == 0 {
			if err != nil && err != ErrPastEOF {
				return err
			}
			break
		}
	}
	return nil
}

// Close releases the File's owned Source and decoder state.
func (f *File) Close() error {
	return f.src.Close()
}

// readEntryData fully decompresses e (whose offset must already be fixed
// up to point at file data) into memory. Used only for symlink target
// text, which is always small.
func readEntryData(src Source, e *entry) ([]byte, error) {
	if err := src.Seek(e.offset); err != nil {
		return nil, err
	}
	switch e.method {
	case methodStore:
		buf := make([]byte, e.uncompressedSize)
		if err := readFull(src, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case methodDeflate:
		b := &boundedReader{src: src, remaining: int64(e.compressedSize), buf: make([]byte, deflateInputBufSize)}
		r := klflate.NewReader(b)
		defer r.Close()
		buf := make([]byte, e.uncompressedSize)
		n := 0
		for n < len(buf) {
			m, err := r.Read(buf[n:])
			n += m
			if err != nil {
				if n == len(buf) {
					break
				}
				return nil, err
			}
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("zip: method %d: %w", e.method, ErrUnsupported)
	}
}
