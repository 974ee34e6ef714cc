package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultOptions(t *testing.T) {
	opts := NewDefaultOptions()
	require.Equal(t, DefaultDataDir, opts.DataDir)
	require.Equal(t, DefaultCompactionThreshold, opts.CompactionThreshold)
	require.False(t, opts.SyncOnWrite)
	require.NotNil(t, opts.Codec)
	require.Equal(t, DefaultSegmentPrefix, opts.SegmentOptions.Prefix)
}

func TestOptionFuncsOverrideDefaults(t *testing.T) {
	opts := NewDefaultOptions()
	for _, apply := range []OptionFunc{
		WithDataDir("/tmp/custom"),
		WithCompactionThreshold(2048),
		WithSyncOnWrite(true),
		WithSegmentDir("segments"),
		WithSegmentPrefix("seg"),
	} {
		apply(&opts)
	}

	require.Equal(t, "/tmp/custom", opts.DataDir)
	require.Equal(t, uint64(2048), opts.CompactionThreshold)
	require.True(t, opts.SyncOnWrite)
	require.Equal(t, "segments", opts.SegmentOptions.Directory)
	require.Equal(t, "seg", opts.SegmentOptions.Prefix)
}

func TestOptionFuncsIgnoreBlankOrZeroValues(t *testing.T) {
	opts := NewDefaultOptions()
	original := opts.DataDir

	WithDataDir("   ")(&opts)
	require.Equal(t, original, opts.DataDir)

	WithCompactionThreshold(0)(&opts)
	require.Equal(t, DefaultCompactionThreshold, opts.CompactionThreshold)
}
