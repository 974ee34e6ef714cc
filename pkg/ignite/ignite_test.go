package ignite

import (
	"context"
	"testing"
	"time"

	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestInstanceSetGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := NewInstance(ctx, "test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer db.Close(ctx)

	require.NoError(t, db.Set(ctx, "k", []byte("v")))

	got, err := db.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(got))

	require.NoError(t, db.Delete(ctx, "k"))

	got, err = db.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInstanceSetXIsNotImplemented(t *testing.T) {
	ctx := context.Background()
	db, err := NewInstance(ctx, "test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer db.Close(ctx)

	err = db.SetX(ctx, "k", []byte("v"), time.Minute)
	require.ErrorIs(t, err, ErrNotImplemented)
}
