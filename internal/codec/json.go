package codec

import (
	"encoding/json"
	"io"
)

// JSON is the reference Codec: command records are JSON-encoded tagged
// objects, concatenated without separators. encoding/json.Decoder already
// streams values off a reader and reports the exact number of bytes
// consumed via InputOffset(), which is precisely the "streaming decoder
// that reports byte offset after each value" dependency spec §6.2 asks
// for - no extra framing is needed.
type JSON struct{}

// Encode writes cmd as a single JSON value. json.Encoder.Encode appends a
// trailing newline, which is harmless here: a writer-side span measured
// around Encode (as engine.Set does) includes it, a replayed span instead
// starts with the previous record's newline, and the decoder skips it as
// whitespace either way.
func (JSON) Encode(w io.Writer, cmd Command) error {
	return json.NewEncoder(w).Encode(cmd)
}

// NewDecoder returns a streaming JSON decoder bound to r.
func (JSON) NewDecoder(r io.Reader) Decoder {
	return &jsonDecoder{dec: json.NewDecoder(r)}
}

type jsonDecoder struct {
	dec *json.Decoder
}

func (d *jsonDecoder) Decode() (Command, error) {
	var cmd Command
	if err := d.dec.Decode(&cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func (d *jsonDecoder) Offset() int64 {
	return d.dec.InputOffset()
}
