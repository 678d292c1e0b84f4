package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Maximum payload size accepted for a single frame. Sync payloads carry whole
// source trees, so the limit is generous; anything beyond it is treated as a
// corrupt length prefix.
const MaxFrameSize = 64 << 20

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical message always produces identical
// bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR. Unknown
// fields are silently ignored for forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("protocol: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("protocol: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encodes a message as a single frame: a 4-byte big-endian length prefix
// followed by the CBOR-encoded message.
func Encode(m *Message) ([]byte, error) {
	body, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}

	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(body)))
	copy(frame[4:], body)
	return frame, nil
}

// Writes a message to w as a single frame.
func Write(w io.Writer, m *Message) error {
	frame, err := Encode(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Reads one frame from r and decodes the message it carries.
//
// Returns [io.EOF] unwrapped when the stream ends cleanly at a frame
// boundary, so callers can distinguish an orderly close from a truncated or
// corrupt frame, which is reported as [ErrFraming].
func Read(r io.Reader) (*Message, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading length prefix: %w", ErrFraming, err)
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame size %d exceeds maximum %d", ErrFraming, length, MaxFrameSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: payload shorter than declared length %d: %w", ErrFraming, length, err)
	}

	var m Message
	if err := decMode.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding message: %w", ErrFraming, err)
	}
	return &m, nil
}
