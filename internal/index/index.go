// Package index provides the in-memory hash table mapping keys to their
// on-disk locations for the Ignite key-value store. This is the core
// Bitcask trade-off made concrete: every key lives in memory for O(1)
// lookup, while values stay on disk.
package index

import (
	stdErrors "errors"

	"go.uber.org/zap"
)

// ErrIndexClosed is returned when attempting to perform operations on a
// closed Index.
var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates an Index ready for concurrent use, with pre-allocated map
// capacity to reduce early-life rehashing.
func New(config *Config) *Index {
	log := config.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Index{log: log, entries: make(map[string]Pos, 1024)}
}

// Get returns the Pos bound to key, if any.
func (idx *Index) Get(key string) (Pos, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pos, ok := idx.entries[key]
	return pos, ok
}

// Put binds key to pos. If key was already bound, the superseded entry's
// length is added to the stale-byte counter before the new binding
// replaces it (spec §4.2 Set handling, §4.4 step 4). It returns the
// superseded Pos, if any.
func (idx *Index) Put(key string, pos Pos) (old Pos, hadOld bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	old, hadOld = idx.entries[key]
	if hadOld {
		idx.stale += old.Length
	}
	idx.entries[key] = pos
	return old, hadOld
}

// Delete removes key's binding, if any, adding its length to the
// stale-byte counter (spec §4.2/§4.6 Rm handling). It reports whether key
// was bound.
func (idx *Index) Delete(key string) (old Pos, hadOld bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	old, hadOld = idx.entries[key]
	if hadOld {
		idx.stale += old.Length
		delete(idx.entries, key)
	}
	return old, hadOld
}

// AddStale adds n bytes to the stale-byte counter directly, for
// contributions that don't come from superseding or removing an entry -
// namely a tombstone's own on-disk span during replay (spec §4.2).
func (idx *Index) AddStale(n uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.stale += n
}

// StaleBytes returns the current value of the stale-byte counter.
func (idx *Index) StaleBytes() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.stale
}

// ResetStale zeroes the stale-byte counter, called once compaction
// completes (spec §4.7 step 6).
func (idx *Index) ResetStale() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.stale = 0
}

// Len returns the number of live keys in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Range calls fn once for every (key, Pos) pair currently in the index,
// in unspecified order (spec §9: "the contract requires neither ordering
// nor iteration"). fn must not call back into the Index - Range holds the
// read lock for its duration.
func (idx *Index) Range(fn func(key string, pos Pos)) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for key, pos := range idx.entries {
		fn(key, pos)
	}
}

// Rewrite replaces key's Pos in place, used by compaction to re-point a
// surviving entry at its new generation/offset after the bytes have been
// copied forward. It does not touch the stale-byte counter - a rewrite is
// not a supersession, the old bytes are simply gone with the segment
// they lived in.
func (idx *Index) Rewrite(key string, pos Pos) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[key] = pos
}

// Close releases the Index's resources. It is not safe to use the Index
// after Close returns.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.entries)
	idx.entries = nil
	return nil
}
