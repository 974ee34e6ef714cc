package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := JSON{}

	require.NoError(t, c.Encode(&buf, NewSet("k", "v")))
	dec := c.NewDecoder(&buf)

	cmd, err := dec.Decode()
	require.NoError(t, err)
	require.True(t, cmd.IsSet())
	require.Equal(t, "k", cmd.Key)
	require.Equal(t, "v", cmd.Value)
}

func TestJSONDecoderReportsOffsetPerRecord(t *testing.T) {
	var buf bytes.Buffer
	c := JSON{}

	require.NoError(t, c.Encode(&buf, NewSet("a", "1")))
	require.NoError(t, c.Encode(&buf, NewRm("a")))

	dec := c.NewDecoder(&buf)

	cmd1, err := dec.Decode()
	require.NoError(t, err)
	require.True(t, cmd1.IsSet())
	offset1 := dec.Offset()
	require.Greater(t, offset1, int64(0))

	cmd2, err := dec.Decode()
	require.NoError(t, err)
	require.True(t, cmd2.IsRm())
	offset2 := dec.Offset()
	require.Greater(t, offset2, offset1)

	_, err = dec.Decode()
	require.ErrorIs(t, err, io.EOF)
}

func TestJSONDecodeMalformedRecordErrors(t *testing.T) {
	c := JSON{}
	dec := c.NewDecoder(bytes.NewBufferString("{not json"))
	_, err := dec.Decode()
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}
