package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/contourwire/internal/protocol"
	"github.com/danmuck/contourwire/internal/testutil/testlog"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	testlog.Start(t)
	payload, err := protocol.Marshal(protocol.NewContourArray(
		protocol.NewContour("buoy", protocol.NewPoint2D(1, 2)),
	))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if buf.Len() != HeaderLen+len(payload) {
		t.Fatalf("unexpected frame size %d", buf.Len())
	}
	out, err := ReadFrame(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("payload mismatch")
	}
	if _, err := ReadFrame(&buf, DefaultLimits()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at boundary, got %v", err)
	}
}

func TestReadAllMultipleFrames(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	for _, p := range [][]byte{{0, 0, 0, 0}, {}, {1, 2, 3}} {
		if err := WriteFrame(&buf, p, DefaultLimits()); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	frames, err := ReadAll(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(frames) != 3 || len(frames[1]) != 0 || !bytes.Equal(frames[2], []byte{1, 2, 3}) {
		t.Fatalf("unexpected frames: %v", frames)
	}
}

func TestReadFrameMalformedHeaderIsDeterministic(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(bytes.NewReader([]byte{1, 2}), DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(bytes.NewReader([]byte{5, 0, 0, 0, 'a', 'b'}), DefaultLimits())
	if !errors.Is(err, ErrShortPayload) {
		t.Fatalf("expected ErrShortPayload, got %v", err)
	}

	_, err = ReadAll(bytes.NewReader([]byte{0, 0, 0, 0, 5, 0, 0, 0}), DefaultLimits())
	if !errors.Is(err, ErrShortPayload) {
		t.Fatalf("expected ErrShortPayload from ReadAll, got %v", err)
	}
}

func TestFramePayloadLimits(t *testing.T) {
	testlog.Start(t)
	limits := Limits{MaxPayloadBytes: 2}
	if err := WriteFrame(io.Discard, []byte{1, 2, 3}, limits); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on write, got %v", err)
	}
	_, err := ReadFrame(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}), limits)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on read, got %v", err)
	}
}
