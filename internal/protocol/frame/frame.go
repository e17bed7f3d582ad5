package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderLen is the u32 little-endian payload size in front of each message.
const HeaderLen = 4

var (
	ErrShortHeader     = errors.New("frame: short size header")
	ErrShortPayload    = errors.New("frame: short payload")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 16 * 1024 * 1024,
	}
}

// ReadFrame reads one size-prefixed payload. io.EOF is returned unchanged
// when r is exhausted exactly at a frame boundary.
func ReadFrame(r io.Reader, limits Limits) ([]byte, error) {
	var head [HeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortHeader
		}
		return nil, err
	}

	size := binary.LittleEndian.Uint32(head[:])
	if size > limits.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, size, limits.MaxPayloadBytes)
	}

	payload := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, ErrShortPayload
			}
			return nil, err
		}
	}
	return payload, nil
}

func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	if uint64(len(payload)) > uint64(limits.MaxPayloadBytes) {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), limits.MaxPayloadBytes)
	}
	var head [HeaderLen]byte
	binary.LittleEndian.PutUint32(head[:], uint32(len(payload)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll reads frames until r is exhausted.
func ReadAll(r io.Reader, limits Limits) ([][]byte, error) {
	var out [][]byte
	for {
		payload, err := ReadFrame(r, limits)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(out), err)
		}
		out = append(out, payload)
	}
}
