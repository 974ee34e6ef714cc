package storage

import (
	"bufio"
	"io"
	"os"

	"github.com/iamNilotpal/ignite/internal/codec"
)

// PositionedWriter wraps a buffered append handle on a segment file and
// maintains a logical byte-offset counter without consulting the kernel on
// every write (spec §4.8). After Flush, the counter equals the file's
// on-disk length, which is the invariant engine.Set relies on to compute a
// record's exact byte span.
type PositionedWriter struct {
	file *os.File
	buf  *bufio.Writer
	pos  int64
}

func NewPositionedWriter(file *os.File) (*PositionedWriter, error) {
	pos, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	return &PositionedWriter{file: file, buf: bufio.NewWriter(file), pos: pos}, nil
}

func (w *PositionedWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.pos += int64(n)
	return n, err
}

// Position returns the writer's current logical offset.
func (w *PositionedWriter) Position() int64 { return w.pos }

// Flush pushes buffered bytes to the OS. After Flush returns successfully
// the writer's position matches the segment's on-disk length.
func (w *PositionedWriter) Flush() error { return w.buf.Flush() }

// Sync calls fsync on the underlying file. Used only when the engine is
// configured with SyncOnWrite.
func (w *PositionedWriter) Sync() error { return w.file.Sync() }

func (w *PositionedWriter) Close() error { return w.file.Close() }

// PositionedReader wraps a read handle on a segment file and maintains a
// logical byte-offset counter, reset on every Seek. Segment reads use
// ReadAt-style positioning (seek then read) since multiple callers - get(),
// replay, compaction - read the same segment at unrelated offsets over the
// reader's lifetime.
type PositionedReader struct {
	file *os.File
	buf  *bufio.Reader
	pos  int64
}

func NewPositionedReader(file *os.File) (*PositionedReader, error) {
	pos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &PositionedReader{file: file, buf: codec.NewBufferedReader(file), pos: pos}, nil
}

// SeekTo moves the reader to an absolute offset unless it is already
// there, per spec §4.7's "unless its current position already matches"
// micro-optimization. A real seek invalidates whatever the buffer had
// already looked ahead of the old position.
func (r *PositionedReader) SeekTo(offset int64) error {
	if r.pos == offset {
		return nil
	}
	pos, err := r.file.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	r.pos = pos
	r.buf.Reset(r.file)
	return nil
}

func (r *PositionedReader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.pos += int64(n)
	return n, err
}

// Position returns the reader's current logical offset.
func (r *PositionedReader) Position() int64 { return r.pos }

// BoundedReader returns a reader limited to exactly n bytes starting at
// the reader's current position, advancing the reader's own position
// counter as bytes are consumed from it.
func (r *PositionedReader) BoundedReader(n int64) io.Reader {
	return io.LimitReader(r, n)
}

func (r *PositionedReader) Close() error { return r.file.Close() }
