package options

import "github.com/iamNilotpal/ignite/internal/codec"

const (
	// Specifies the default base directory where Ignite will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Defines the default number of stale bytes that must accumulate before
	// a set() call triggers a synchronous compaction. 1 MiB, per spec.
	DefaultCompactionThreshold uint64 = 1 * 1024 * 1024

	// Specifies the default subdirectory within the main data directory
	// where segment files will be stored. Empty means segments live
	// directly under DataDir.
	DefaultSegmentDirectory = ""

	// Defines the default value of SegmentOptions.Prefix.
	DefaultSegmentPrefix = "segment"
)

// Holds the default configuration settings for an Ignite instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactionThreshold: DefaultCompactionThreshold,
	SyncOnWrite:         false,
	Codec:               codec.JSON{},
	SegmentOptions: &segmentOptions{
		Prefix:    DefaultSegmentPrefix,
		Directory: DefaultSegmentDirectory,
	},
}

func NewDefaultOptions() Options {
	opts := defaultOptions
	segOpts := *defaultOptions.SegmentOptions
	opts.SegmentOptions = &segOpts
	return opts
}
