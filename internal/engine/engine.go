// Package engine provides the core database engine implementation for the Ignite storage system.
//
// The engine serves as the central coordinator and entry point for all database operations.
// It orchestrates the interaction between three main subsystems:
//   - Index: Maps each key to the on-disk position of its latest record for fast point lookups
//   - Storage: Handles persistent data storage in append-only segment files
//   - Compaction: Reclaims stale bytes; it runs synchronously inside Set once the threshold is exceeded
//
// The engine implements a thread-safe interface with proper lifecycle management,
// ensuring resources are properly initialized and cleaned up. It uses atomic operations
// for state management to provide consistent behavior across concurrent operations.
package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/compaction"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/replay"
	"github.com/iamNilotpal/ignite/internal/storage"
	ignerrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine represents the main database engine that coordinates all subsystems.
// It acts as the primary interface for database operations and manages the lifecycle
// of all internal components. The engine is designed to be thread-safe and supports
// concurrent operations while maintaining data consistency.
//
// writeMu serializes set/get/remove/compaction: this is a single-threaded-by-design
// engine (§4.7 rationale), so one mutex around the whole mutate-then-maybe-compact
// sequence is enough to keep the writer position and the index in lockstep.
type Engine struct {
	options *options.Options   // options contains all configuration parameters for the engine and its subsystems.
	log     *zap.SugaredLogger // log provides structured logging capabilities throughout the engine.
	closed  atomic.Bool        // closed is an atomic boolean that tracks the engine's lifecycle state.

	writeMu sync.Mutex
	index   *index.Index     // index manages the in-memory data structures for fast data access.
	storage *storage.Storage // storage handles all persistent data operations.
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance with the provided configuration.
// It performs the full startup sequence: directory scan and segment bootstrap
// (internal/storage), log replay to rebuild the index (internal/replay), then
// returns an engine ready to serve Set/Get/Remove.
func New(ctx context.Context, config *Config) (*Engine, error) {
	idx := index.New(&index.Config{Logger: config.Logger})

	store, err := storage.New(ctx, &storage.Config{
		Logger:  config.Logger,
		Options: config.Options,
	})
	if err != nil {
		return nil, err
	}

	if err := replay.Run(store, idx, config.Options.Codec, config.Logger); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Engine{
		options: config.Options,
		log:     config.Logger,
		index:   idx,
		storage: store,
	}, nil
}

// Set stores value under key, appending a Set record to the current
// generation and updating the index to point at it (spec §4.4). If the
// accumulated stale-byte count now exceeds the configured compaction
// threshold, a compaction pass runs synchronously before Set returns.
func (e *Engine) Set(ctx context.Context, key string, value []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	writer := e.storage.Writer()
	gen := e.storage.CurrentGen()
	pos := writer.Position()

	if err := e.options.Codec.Encode(writer, codec.NewSet(key, string(value))); err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeCodec, "failed to encode set record").
			WithSegmentID(int(gen)).WithOffset(int(pos))
	}
	if err := e.storage.Flush(); err != nil {
		return err
	}

	newPos := writer.Position()
	e.index.Put(key, index.Pos{Gen: gen, Offset: uint64(pos), Length: uint64(newPos - pos)})

	if e.index.StaleBytes() > e.options.CompactionThreshold {
		if err := compaction.Run(e.storage, e.index, e.log); err != nil {
			return err
		}
	}
	return nil
}

// Get looks up key and decodes its bound record (spec §4.5). A missing key
// is not an error: it returns (nil, nil), matching the reference semantics
// of "success with no value". Finding anything other than a Set record at
// the indexed position is the invariant-2 violation the spec calls
// UnexpectedCommandType.
func (e *Engine) Get(ctx context.Context, key string) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	pos, ok := e.index.Get(key)
	if !ok {
		return nil, nil
	}

	reader, err := e.storage.ReaderFor(pos.Gen)
	if err != nil {
		return nil, err
	}

	if err := reader.SeekTo(int64(pos.Offset)); err != nil {
		return nil, ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to seek segment for get").
			WithSegmentID(int(pos.Gen)).WithOffset(int(pos.Offset))
	}

	dec := e.options.Codec.NewDecoder(reader.BoundedReader(int64(pos.Length)))
	cmd, err := dec.Decode()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ignerrors.NewIndexCorruptionError("Get", e.index.Len(), err).WithKey(key)
		}
		return nil, ignerrors.NewStorageError(err, ignerrors.ErrorCodeCodec, "failed to decode record for get").
			WithSegmentID(int(pos.Gen)).WithOffset(int(pos.Offset))
	}

	if !cmd.IsSet() {
		return nil, ignerrors.NewIndexError(nil, ignerrors.ErrorCodeUnexpectedCommandType, "indexed position does not hold a set record").
			WithKey(key).WithSegmentID(uint16(pos.Gen)).WithOperation("Get")
	}
	return []byte(cmd.Value), nil
}

// Remove deletes key's binding (spec §4.6). A key absent from the index
// fails with KeyNotFound without writing a tombstone record; otherwise a
// Rm record is appended before the index entry is dropped.
func (e *Engine) Remove(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if _, ok := e.index.Get(key); !ok {
		return ignerrors.NewKeyNotFoundError(key)
	}

	writer := e.storage.Writer()
	gen := e.storage.CurrentGen()
	pos := writer.Position()

	if err := e.options.Codec.Encode(writer, codec.NewRm(key)); err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeCodec, "failed to encode remove record").
			WithSegmentID(int(gen)).WithOffset(int(pos))
	}
	if err := e.storage.Flush(); err != nil {
		return err
	}

	// The tombstone's own span is deliberately not added to stale_bytes here
	// - only the superseded entry's length is, via Delete. Replay adds both;
	// this asymmetry matches the reference implementation (see DESIGN.md).
	e.index.Delete(key)
	return nil
}

// Close gracefully shuts down the engine and releases all associated resources.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	return multierr.Combine(e.storage.Close(), e.index.Close())
}
