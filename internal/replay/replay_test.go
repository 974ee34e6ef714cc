package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/storage"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T, dir string) *storage.Storage {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.Codec = codec.JSON{}

	s, err := storage.New(context.Background(), &storage.Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return s
}

func TestRunBuildsIndexFromSingleSegment(t *testing.T) {
	dir := t.TempDir()

	rec1 := `{"type":"set","key":"a","value":"1"}` + "\n"
	rec2 := `{"type":"set","key":"a","value":"2"}` + "\n"
	rec3 := `{"type":"rm","key":"b"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.log"), []byte(rec1+rec2+rec3), 0o644))

	s := newTestStorage(t, dir)
	defer s.Close()

	idx := index.New(&index.Config{})
	require.NoError(t, Run(s, idx, codec.JSON{}, nil))

	// json.Decoder.InputOffset stops at each value's closing brace; the
	// newline separating rec1 from rec2 isn't consumed until rec2's own
	// Decode call, so rec1's reported length is len(rec1)-1, not len(rec1).
	pos, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(1), pos.Gen)
	require.Equal(t, uint64(len(rec1)-1), pos.Offset)
	require.Equal(t, uint64(len(rec2)), pos.Length)

	// "b" was never set in this segment, so its rm is a no-op removal but
	// still contributes its own tombstone span to stale bytes (§4.2).
	_, ok = idx.Get("b")
	require.False(t, ok)
	require.Equal(t, uint64(len(rec1)-1)+uint64(len(rec3)), idx.StaleBytes())
}

func TestRunAbortsOnMalformedRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.log"), []byte("{not json"), 0o644))

	s := newTestStorage(t, dir)
	defer s.Close()

	idx := index.New(&index.Config{})
	err := Run(s, idx, codec.JSON{}, nil)
	require.Error(t, err)
}
