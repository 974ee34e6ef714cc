package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestIndex() *Index {
	return New(&Config{})
}

func TestIndexPutGet(t *testing.T) {
	idx := newTestIndex()

	_, ok := idx.Get("missing")
	require.False(t, ok)

	pos := Pos{Gen: 1, Offset: 0, Length: 10}
	old, hadOld := idx.Put("k", pos)
	require.False(t, hadOld)
	require.Equal(t, Pos{}, old)

	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, pos, got)
	require.Equal(t, uint64(0), idx.StaleBytes())
}

func TestIndexPutSupersedesAddsStale(t *testing.T) {
	idx := newTestIndex()

	idx.Put("k", Pos{Gen: 1, Offset: 0, Length: 10})
	old, hadOld := idx.Put("k", Pos{Gen: 1, Offset: 10, Length: 20})
	require.True(t, hadOld)
	require.Equal(t, uint64(10), old.Length)
	require.Equal(t, uint64(10), idx.StaleBytes())

	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, uint64(20), got.Length)
}

func TestIndexDeleteAddsStaleAndRemoves(t *testing.T) {
	idx := newTestIndex()
	idx.Put("k", Pos{Gen: 1, Offset: 0, Length: 15})

	old, hadOld := idx.Delete("k")
	require.True(t, hadOld)
	require.Equal(t, uint64(15), old.Length)
	require.Equal(t, uint64(15), idx.StaleBytes())

	_, ok := idx.Get("k")
	require.False(t, ok)

	// Deleting an absent key is a no-op, not an added stale charge.
	_, hadOld = idx.Delete("k")
	require.False(t, hadOld)
	require.Equal(t, uint64(15), idx.StaleBytes())
}

func TestIndexAddStaleAndReset(t *testing.T) {
	idx := newTestIndex()
	idx.AddStale(42)
	require.Equal(t, uint64(42), idx.StaleBytes())
	idx.ResetStale()
	require.Equal(t, uint64(0), idx.StaleBytes())
}

func TestIndexRewriteDoesNotTouchStale(t *testing.T) {
	idx := newTestIndex()
	idx.Put("k", Pos{Gen: 1, Offset: 0, Length: 10})
	idx.AddStale(5)

	idx.Rewrite("k", Pos{Gen: 2, Offset: 0, Length: 10})
	require.Equal(t, uint64(5), idx.StaleBytes())

	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, uint64(2), got.Gen)
}

func TestIndexRangeVisitsEveryEntry(t *testing.T) {
	idx := newTestIndex()
	want := map[string]Pos{
		"a": {Gen: 1, Offset: 0, Length: 1},
		"b": {Gen: 1, Offset: 1, Length: 2},
		"c": {Gen: 2, Offset: 0, Length: 3},
	}
	for k, p := range want {
		idx.Put(k, p)
	}

	seen := make(map[string]Pos, len(want))
	idx.Range(func(key string, pos Pos) {
		seen[key] = pos
	})
	require.Equal(t, want, seen)
	require.Equal(t, len(want), idx.Len())
}

func TestIndexCloseIsIdempotentFailure(t *testing.T) {
	idx := newTestIndex()
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), ErrIndexClosed)
}
