package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pos locates one record in the data directory: which segment generation
// holds it, the byte offset it starts at, and how many bytes it occupies
// (spec §3 "Index entry"). Field order follows the spec's own naming, not
// a memory-layout optimization - there is exactly one Pos per live key, so
// padding bytes are not a concern this package needs to fight.
type Pos struct {
	Gen    uint64
	Offset uint64
	Length uint64
}

// Index is the in-memory hash table mapping keys to their on-disk
// location. It also owns the stale-byte counter (spec §3 "Stale-byte
// counter"): every mutation that supersedes or removes an entry is the
// same mutation that must account for the bytes it orphaned, so the two
// pieces of state are kept together rather than split across packages.
type Index struct {
	mu      sync.RWMutex
	entries map[string]Pos
	stale   uint64

	log    *zap.SugaredLogger
	closed atomic.Bool
}

// Config carries the parameters needed to initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
