// Package indexcache persists parsed ZIP central-directory indexes on
// disk, keyed by the identity of the archive file they came from, using
// github.com/cockroachdb/pebble/v2 as an embedded key/value store. It is a
// pure performance layer in front of zip.OpenArchive/zip.Snapshot: a miss,
// a corrupt cache, or indexcache being disabled entirely all fall back to
// a cold parse without any change in correctness.
package indexcache

import (
	"bytes"
	"encoding/gob"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"

	"github.com/elinorkade/archivefs/internal/fileid"
	"github.com/elinorkade/archivefs/zip"
)

// Store is a handle on the on-disk cache directory.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a pebble store rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying pebble database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached index for path, or ok=false if there is no
// entry, the file has been modified since it was cached, or the cached
// value can't be decoded.
func (s *Store) Lookup(path string) (entries []zip.IndexedEntry, ok bool) {
	if s == nil {
		return nil, false
	}
	key, err := cacheKey(path)
	if err != nil {
		return nil, false
	}
	v, closer, err := s.db.Get(key)
	if err != nil {
		return nil, false
	}
	defer closer.Close()

	var snapshot []zip.IndexedEntry
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&snapshot); err != nil {
		slog.Warn("indexCacheCorrupt", "path", path, "err", err)
		return nil, false
	}
	return snapshot, true
}

// Store persists entries for path, keyed by its current fileid. Failures
// are logged, never returned: a failed write just means the next open is
// a cold parse again.
func (s *Store) Store(path string, entries []zip.IndexedEntry) {
	if s == nil {
		return
	}
	key, err := cacheKey(path)
	if err != nil {
		return
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		slog.Warn("indexCacheEncodeFailed", "path", path, "err", err)
		return
	}
	if err := s.db.Set(key, buf.Bytes(), pebble.Sync); err != nil {
		slog.Warn("indexCacheWriteFailed", "path", path, "err", err)
	}
}

// cacheKey identifies path by its fileid plus an xxhash of the path text,
// so a cache hit always means "same inode, same size and mtime, same name"
// — anything else is treated as cold.
func cacheKey(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	id, err := fileid.Get(f)
	if err != nil {
		return nil, err
	}

	h := xxhash.New()
	h.Write([]byte(path))
	pathHash := h.Sum64()

	key := make([]byte, 0, len(id)+8)
	key = append(key, id[:]...)
	key = xxhashAppendUint64(key, pathHash)
	return key, nil
}

func xxhashAppendUint64(b []byte, v uint64) []byte {
	return append(b,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
