// Package options provides data structures and functions for configuring
// the Ignite database. It defines the parameters that control Ignite's
// storage behavior, durability, and compaction, such as the data directory,
// the compaction trigger threshold, and the record codec.
package options

import (
	"strings"

	"github.com/iamNilotpal/ignite/internal/codec"
)

// Defines configurable parameters for segment file layout.
type segmentOptions struct {
	// Directory specifies the subdirectory (relative to DataDir) where
	// segment files are stored.
	//
	// Default: "" (segments live directly under DataDir).
	Directory string `json:"directory"`

	// Prefix is a label carried in the options; no subsystem reads it, so
	// it appears neither in log output nor in a segment's filename: segment
	// files always match the fixed ^[0-9]+\.log$ pattern the engine's
	// generation ordering depends on.
	//
	// Default: "segment"
	Prefix string `json:"prefix"`
}

// Defines the configuration parameters for the Ignite engine.
// It provides control over storage layout, durability, and compaction.
type Options struct {
	// Specifies the base path where segment files are stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of accumulated stale bytes that
	// triggers a synchronous compaction at the end of the next set().
	//
	// Default: 1 MiB (1048576 bytes)
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// SyncOnWrite, when true, calls fsync after every flush on set/remove.
	// The spec does not require this (flush alone is the contract); this
	// is the named extension point a durable deployment can opt into at
	// the cost of write latency.
	//
	// Default: false
	SyncOnWrite bool `json:"syncOnWrite"`

	// Codec controls how command records are encoded on disk and decoded
	// back. Defaults to the JSON codec.
	Codec codec.Codec `json:"-"`

	// Configures segment directory layout.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.SegmentOptions = opts.SegmentOptions
		o.CompactionThreshold = opts.CompactionThreshold
		o.SyncOnWrite = opts.SyncOnWrite
		o.Codec = opts.Codec
	}
}

// Sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the stale-byte threshold that triggers synchronous compaction.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.CompactionThreshold = threshold
		}
	}
}

// Enables or disables fsync-on-write durability.
func WithSyncOnWrite(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncOnWrite = sync
	}
}

// Overrides the record codec used to encode/decode the log.
func WithCodec(c codec.Codec) OptionFunc {
	return func(o *Options) {
		if c != nil {
			o.Codec = c
		}
	}
}

// Sets the directory specifically used for segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets SegmentOptions.Prefix (a label that no subsystem reads).
func WithSegmentPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			o.SegmentOptions.Prefix = prefix
		}
	}
}
