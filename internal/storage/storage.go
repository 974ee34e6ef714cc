// Package storage manages the on-disk segment files an Ignite engine
// appends to and reads from: directory discovery at open, the single
// writable "current" segment, and a pool of positioned read handles
// covering every segment present on disk, including the current one.
//
// Storage knows nothing about keys, values, or the index - it deals only
// in generations and byte offsets. internal/replay and internal/compaction
// are built on top of it, and internal/engine wires all three together.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// Storage owns every open file handle on the data directory: one
// PositionedWriter for the current generation, and one PositionedReader
// per generation present on disk (current generation included). Writer and
// reader on the same generation are independent OS handles, never shared.
type Storage struct {
	mu sync.Mutex

	dir        string
	currentGen uint64
	writer     *PositionedWriter
	readers    map[uint64]*PositionedReader

	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool
}

// Config carries the parameters needed to initialize a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New performs the spec §4.1 directory scan and bootstraps the writable
// current segment. It does not replay any records - internal/replay does
// that over the Storage this returns.
func New(ctx context.Context, config *Config) (*Storage, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("invalid storage configuration")
	}

	dir := segmentDir(config.Options)
	if err := filesys.CreateDir(dir, 0o755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dir)
	}

	config.Logger.Infow("scanning data directory for existing segments", "dir", dir)
	gens, err := scanGenerations(dir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to scan segment directory").WithPath(dir)
	}

	s := &Storage{
		dir:     dir,
		readers: make(map[uint64]*PositionedReader, len(gens)+1),
		options: config.Options,
		log:     config.Logger,
	}

	for _, gen := range gens {
		if err := s.openReader(gen); err != nil {
			s.closeAll()
			return nil, err
		}
	}

	// "last + 1" rule, defaulting to 1 when the directory is empty (§4.1).
	currentGen := uint64(1)
	if len(gens) > 0 {
		currentGen = gens[len(gens)-1] + 1
	}

	writer, err := s.createGeneration(currentGen)
	if err != nil {
		s.closeAll()
		return nil, err
	}

	s.currentGen = currentGen
	s.writer = writer

	config.Logger.Infow(
		"storage initialized", "dir", dir, "currentGen", currentGen, "existingSegments", len(gens),
	)
	return s, nil
}

func segmentDir(opts *options.Options) string {
	if opts.SegmentOptions != nil && opts.SegmentOptions.Directory != "" {
		return filepath.Join(opts.DataDir, opts.SegmentOptions.Directory)
	}
	return opts.DataDir
}

// openReader opens a read-only handle on an existing generation and
// registers it in the reader pool.
func (s *Storage) openReader(gen uint64) error {
	path := segmentPath(s.dir, gen)
	file, err := os.OpenFile(path, os.O_RDONLY, 0o644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, filepath.Base(path), int(gen))
	}

	reader, err := NewPositionedReader(file)
	if err != nil {
		_ = file.Close()
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to position segment reader").
			WithPath(path).WithSegmentID(int(gen))
	}

	s.readers[gen] = reader
	return nil
}

// createGeneration creates (or reopens) generation gen's segment for
// append, and registers an independent read handle for it in the reader
// pool (spec §4.3). Returns the new writer.
func (s *Storage) createGeneration(gen uint64) (*PositionedWriter, error) {
	path := segmentPath(s.dir, gen)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path), int(gen))
	}

	writer, err := NewPositionedWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to position segment writer").
			WithPath(path).WithSegmentID(int(gen))
	}

	if err := s.openReader(gen); err != nil {
		_ = writer.Close()
		return nil, err
	}

	s.log.Debugw("segment created for append", "gen", gen, "path", path)
	return writer, nil
}

// Dir returns the directory segment files live in.
func (s *Storage) Dir() string { return s.dir }

// CurrentGen returns the generation currently open for append.
func (s *Storage) CurrentGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentGen
}

// Writer returns the positioned writer for the current generation.
func (s *Storage) Writer() *PositionedWriter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer
}

// ReaderFor returns the positioned reader registered for gen, or a
// StorageError with ErrorCodeSegmentCorrupted if no such reader exists - a
// violation of invariant 1.
func (s *Storage) ReaderFor(gen uint64) (*PositionedReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reader, ok := s.readers[gen]
	if !ok {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeSegmentCorrupted, "no reader for segment generation").
			WithSegmentID(int(gen))
	}
	return reader, nil
}

// Segments returns every generation currently tracked by the reader pool,
// in ascending order, current generation included.
func (s *Storage) Segments() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	gens := make([]uint64, 0, len(s.readers))
	for gen := range s.readers {
		gens = append(gens, gen)
	}
	slices.Sort(gens)
	return gens
}

// NewGeneration creates and opens generation gen as described by
// createGeneration, without making it the current writable generation -
// compaction uses this to open its own dedicated segment.
func (s *Storage) NewGeneration(gen uint64) (*PositionedWriter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createGeneration(gen)
}

// SetCurrentGeneration installs writer as the current writable generation.
func (s *Storage) SetCurrentGeneration(gen uint64, writer *PositionedWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentGen = gen
	s.writer = writer
}

// RemoveGeneration closes and drops the reader for gen and deletes its
// segment file from disk. Used by compaction to reclaim stale segments.
func (s *Storage) RemoveGeneration(gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reader, ok := s.readers[gen]
	if ok {
		_ = reader.Close()
		delete(s.readers, gen)
	}

	path := segmentPath(s.dir, gen)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to remove stale segment").
			WithPath(path).WithSegmentID(int(gen))
	}
	return nil
}

// Flush flushes the current writer's buffered bytes to the OS, optionally
// followed by fsync when SyncOnWrite is enabled.
func (s *Storage) Flush() error {
	s.mu.Lock()
	writer := s.writer
	sync := s.options.SyncOnWrite
	s.mu.Unlock()

	if err := writer.Flush(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush segment writer")
	}
	if sync {
		if err := writer.Sync(); err != nil {
			return errors.ClassifySyncError(err, "", s.dir, int(writer.Position()))
		}
	}
	return nil
}

// Close shuts down Storage, closing every open writer and reader handle.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStorageClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeAll()
}

func (s *Storage) closeAll() error {
	var firstErr error
	if s.writer != nil {
		if err := s.writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for gen, reader := range s.readers {
		if err := reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.readers, gen)
	}
	return firstErr
}
