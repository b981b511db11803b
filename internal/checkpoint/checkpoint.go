// Package checkpoint caches decompressed DEFLATE blocks for one open file
// so that re-reading a previously-decoded region doesn't always pay for a
// full decompressor restart.
//
// A ZIP entry's DEFLATE stream is not seekable: there is no way to resume
// decoding at an arbitrary byte offset without replaying every bit before
// it. This cache does not try to pretend otherwise. It remembers
// block-aligned decompressed output as it is produced, and a hit lets the
// caller serve a read without touching the decompressor at all. A miss
// falls back to the ordinary decode path. Correctness never depends on
// this package: it is consulted, never trusted blindly.
package checkpoint

import "github.com/dgryski/go-tinylfu"

// BlockSize is the granularity at which decompressed output is cached.
// Each Get covers a single block, so a read that straddles a block boundary
// needs one lookup per block it touches.
const BlockSize = 32 * 1024

// Cache holds decompressed blocks for a single open file, keyed by the
// block-aligned decompressed offset each one starts at.
type Cache struct {
	t *tinylfu.T[int64, []byte]
}

// New returns a Cache admitting up to capacity blocks, or nil (a cache of
// nil is a permanent miss, not a panic) if capacity is non-positive.
func New(capacity int) *Cache {
	if capacity <= 0 {
		return nil
	}
	return &Cache{t: tinylfu.New[int64, []byte](capacity, capacity*10, blockHash)}
}

// Put records a full BlockSize-sized block of decompressed output starting
// at the block-aligned offset start. Shorter slices (a final partial block)
// are not cached.
func (c *Cache) Put(start int64, block []byte) {
	if c == nil || start%BlockSize != 0 || len(block) != BlockSize {
		return
	}
	cp := make([]byte, BlockSize)
	copy(cp, block)
	c.t.Add(start, cp)
}

// Get returns the cached block covering the block-aligned offset containing
// want, along with that offset, or ok=false on a miss.
func (c *Cache) Get(want int64) (block []byte, start int64, ok bool) {
	if c == nil {
		return nil, 0, false
	}
	start = want - want%BlockSize
	block, ok = c.t.Get(start)
	return block, start, ok
}

func blockHash(k int64) uint64 {
	u := uint64(k)
	u ^= u >> 33
	u *= 0xff51afd7ed558ccd
	u ^= u >> 33
	return u
}
