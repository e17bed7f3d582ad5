package protocol

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/contourwire/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleMessages() map[string]ContourArray {
	return map[string]ContourArray{
		"empty": NewContourArray(),
		"single point": NewContourArray(
			NewContour("a", NewPoint2D(1, 2)),
		),
		"contour without points": NewContourArray(
			NewContour("edge"),
		),
		"empty name": NewContourArray(
			NewContour("", NewPoint2D(-3.5, 0.25)),
		),
		"raw name bytes": NewContourArray(
			NewContour("\xff\x00bin", NewPoint2D(0, 0)),
		),
		"many": NewContourArray(
			NewContour("buoy.red", NewPoint2D(10, 20), NewPoint2D(30, 40), NewPoint2D(10, 20)),
			NewContour(""),
			NewContour("gate", NewPoint2D(math.MaxFloat32, -math.MaxFloat32), NewPoint2D(float32(math.Inf(1)), 1e-38)),
		),
	}
}

func TestEncodeEmptyContourArray(t *testing.T) {
	testlog.Start(t)

	got, err := Marshal(NewContourArray())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Fatalf("unexpected encoding: % x", got)
	}

	decoded, err := Decode(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Contours) != 0 {
		t.Fatalf("expected no contours, got %d", len(decoded.Contours))
	}
}

func TestEncodeSingleContourLayout(t *testing.T) {
	testlog.Start(t)

	msg := NewContourArray(NewContour("a", NewPoint2D(1.0, 2.0)))
	got, err := Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want, _ := hex.DecodeString("01000000" + "01000000" + "61" + "01000000" + "0000803f" + "00000040")
	if !bytes.Equal(got, want) {
		t.Fatalf("layout mismatch:\n got=% x\nwant=% x", got, want)
	}
	if len(got) != 25 {
		t.Fatalf("expected 25 bytes, got %d", len(got))
	}
	n, err := EncodedLen(msg)
	if err != nil || n != 25 {
		t.Fatalf("encoded len: n=%d err=%v", n, err)
	}
}

func TestRoundTripEncodeDecode(t *testing.T) {
	testlog.Start(t)

	for name, msg := range sampleMessages() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, msg); err != nil {
				t.Fatalf("encode: %v", err)
			}
			decoded, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(msg, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReencodeIsByteIdentical(t *testing.T) {
	testlog.Start(t)

	for name, msg := range sampleMessages() {
		first, err := Marshal(msg)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		decoded, err := Decode(first)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		second, err := Marshal(decoded)
		if err != nil {
			t.Fatalf("%s: re-marshal: %v", name, err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("%s: re-encode mismatch", name)
		}
	}
}

func TestDecodeEmptyBuffer(t *testing.T) {
	testlog.Start(t)

	_, err := Decode(nil)
	var decErr *DecodingError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodingError, got %v", err)
	}
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if decErr.Offset != 0 {
		t.Fatalf("unexpected offset %d", decErr.Offset)
	}
}

func TestDecodeEveryStrictPrefixFails(t *testing.T) {
	testlog.Start(t)

	full, err := Marshal(sampleMessages()["many"])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for n := 0; n < len(full); n++ {
		_, err := Decode(full[:n])
		var decErr *DecodingError
		if !errors.As(err, &decErr) {
			t.Fatalf("prefix %d/%d: expected DecodingError, got %v", n, len(full), err)
		}
	}
}

func TestDecodeErrorMentionsCorruptBuffer(t *testing.T) {
	testlog.Start(t)

	_, err := Decode([]byte{1, 0})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("most likely a truncated or corrupt buffer")) {
		t.Fatalf("error does not explain the cause: %v", err)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	testlog.Start(t)

	buf := append([]byte{0, 0, 0, 0}, 0xaa)
	_, err := Decode(buf)
	if !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("expected ErrTrailingBytes, got %v", err)
	}
}

func TestDecodeHugeCountIsTruncatedNotAllocated(t *testing.T) {
	testlog.Start(t)

	// contour count 0xffffffff with nothing behind it
	_, err := Decode([]byte{0xff, 0xff, 0xff, 0xff})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}

	// one contour, empty name, point count 0xffffffff
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}
	_, err = Decode(buf)
	var decErr *DecodingError
	if !errors.As(err, &decErr) || !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated DecodingError, got %v", err)
	}
	if decErr.Field != "contours[0].points" {
		t.Fatalf("unexpected field %q", decErr.Field)
	}
}

func TestDecodeWithLimits(t *testing.T) {
	testlog.Start(t)

	msg := NewContourArray(
		NewContour("abcdef", NewPoint2D(1, 1), NewPoint2D(2, 2), NewPoint2D(3, 3)),
		NewContour("b"),
	)
	buf, err := Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	cases := []struct {
		name   string
		limits Limits
		field  string
	}{
		{name: "contours", limits: Limits{MaxContours: 1}, field: "contours.length"},
		{name: "name", limits: Limits{MaxNameBytes: 5}, field: "contours[0].name.length"},
		{name: "points", limits: Limits{MaxPoints: 2}, field: "contours[0].points.length"},
	}
	for _, tc := range cases {
		_, err := DecodeWithLimits(buf, tc.limits)
		if !errors.Is(err, ErrLimitExceeded) {
			t.Fatalf("%s: expected ErrLimitExceeded, got %v", tc.name, err)
		}
		var decErr *DecodingError
		if !errors.As(err, &decErr) || decErr.Field != tc.field {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}

	if _, err := DecodeWithLimits(buf, DefaultLimits()); err != nil {
		t.Fatalf("default limits rejected a small message: %v", err)
	}
}

func TestLengthPrefixesMatchCounts(t *testing.T) {
	testlog.Start(t)

	msg := sampleMessages()["many"]
	buf, err := Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	off := 0
	readU32 := func() int {
		v := binary.LittleEndian.Uint32(buf[off:])
		off += 4
		return int(v)
	}
	if n := readU32(); n != len(msg.Contours) {
		t.Fatalf("contour count %d, want %d", n, len(msg.Contours))
	}
	for i, c := range msg.Contours {
		nameLen := readU32()
		if nameLen != len(c.Name) || string(buf[off:off+nameLen]) != c.Name {
			t.Fatalf("contour %d name prefix mismatch", i)
		}
		off += nameLen
		if n := readU32(); n != len(c.Points) {
			t.Fatalf("contour %d point count %d, want %d", i, n, len(c.Points))
		}
		off += 8 * len(c.Points)
	}
	if off != len(buf) {
		t.Fatalf("walked %d of %d bytes", off, len(buf))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeWriterError(t *testing.T) {
	testlog.Start(t)

	err := Encode(failingWriter{}, NewContourArray())
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodingError, got %v", err)
	}
	if encErr.Field != "write" {
		t.Fatalf("unexpected field %q", encErr.Field)
	}
}

func TestFitsU32(t *testing.T) {
	testlog.Start(t)

	if !fitsU32(0) || !fitsU32(1<<20) {
		t.Fatalf("small lengths must fit")
	}
	if strconv.IntSize < 64 {
		t.Skip("int cannot exceed u32 on this platform")
	}
	big := int64(math.MaxUint32) + 1
	if fitsU32(int(big)) {
		t.Fatalf("2^32 must not fit")
	}
}

func TestAppendReusesBuffer(t *testing.T) {
	testlog.Start(t)

	prefix := []byte{0xde, 0xad}
	out, err := Append(prefix, NewContourArray(NewContour("a", NewPoint2D(1, 2))))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !bytes.Equal(out[:2], prefix) || len(out) != 27 {
		t.Fatalf("unexpected append result: % x", out)
	}
	decoded, err := Decode(out[2:])
	if err != nil {
		t.Fatalf("decode appended: %v", err)
	}
	if decoded.Contours[0].Name != "a" {
		t.Fatalf("unexpected name %q", decoded.Contours[0].Name)
	}
}

func TestCoordsRoundTrip(t *testing.T) {
	testlog.Start(t)

	c := NewContour("tri", NewPoint2D(0, 0), NewPoint2D(4, 0), NewPoint2D(0, 3))
	coords := c.Coords()
	if diff := cmp.Diff([]float32{0, 0, 4, 0, 0, 3}, coords); diff != "" {
		t.Fatalf("coords mismatch (-want +got):\n%s", diff)
	}
	back, err := ContourFromCoords("tri", coords)
	if err != nil {
		t.Fatalf("from coords: %v", err)
	}
	if diff := cmp.Diff(c, back); diff != "" {
		t.Fatalf("contour mismatch (-want +got):\n%s", diff)
	}

	_, err = ContourFromCoords("bad", []float32{1, 2, 3})
	var encErr *EncodingError
	if !errors.As(err, &encErr) || !errors.Is(err, ErrOddCoords) {
		t.Fatalf("expected odd coords EncodingError, got %v", err)
	}
}

func TestNewContourArrayOwnsChildren(t *testing.T) {
	testlog.Start(t)

	points := []Point2D{{X: 1, Y: 1}}
	msg := NewContourArray(Contour{Name: "a", Points: points})
	points[0].X = 99
	if msg.Contours[0].Points[0].X != 1 {
		t.Fatalf("message shares caller's point slice")
	}
	if msg.Contours == nil || NewContour("x").Points == nil {
		t.Fatalf("constructors must return non-nil slices")
	}
	if msg.PointCount() != 1 {
		t.Fatalf("unexpected point count %d", msg.PointCount())
	}
}

func TestConcurrentRoundTrips(t *testing.T) {
	testlog.Start(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := NewContourArray(NewContour(fmt.Sprintf("c%d", i), NewPoint2D(float32(i), float32(-i))))
			buf, err := Marshal(msg)
			if err != nil {
				errs <- err
				return
			}
			out, err := Decode(buf)
			if err != nil {
				errs <- err
				return
			}
			if out.Contours[0].Points[0].X != float32(i) {
				errs <- fmt.Errorf("goroutine %d: wrong value", i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent round-trip: %v", err)
	}
}

// rosMD5 applies the middleware rule: nested types are replaced by their
// md5sum and array brackets are dropped.
func rosMD5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func TestMessageTypeMD5Sums(t *testing.T) {
	testlog.Start(t)

	point := rosMD5("float32 x\nfloat32 y")
	contour := rosMD5("string name\n" + point + " points")
	array := rosMD5(contour + " contours")

	if MsgPoint2D.MD5Sum() != point {
		t.Fatalf("Point2D md5 %s, want %s", MsgPoint2D.MD5Sum(), point)
	}
	if MsgContour.MD5Sum() != contour {
		t.Fatalf("Contour md5 %s, want %s", MsgContour.MD5Sum(), contour)
	}
	if NewContourArray().Type().MD5Sum() != array {
		t.Fatalf("ContourArray md5 %s, want %s", MsgContourArray.MD5Sum(), array)
	}
	if MsgContourArray.Name() != "seabee3_msgs/ContourArray" || MsgContourArray.HasHeader() {
		t.Fatalf("unexpected metadata: %+v", MsgContourArray)
	}
}

func TestContourArrayDefinitionText(t *testing.T) {
	testlog.Start(t)

	rule := strings.Repeat("=", 80)
	want := "Contour[] contours\n" +
		"\n" + rule + "\n" +
		"MSG: seabee3_msgs/Contour\n" +
		"string name\n" +
		"Point2D[] points\n" +
		"\n" + rule + "\n" +
		"MSG: seabee3_msgs/Point2D\n" +
		"float32 x\n" +
		"float32 y\n" +
		"\n"
	if got := MsgContourArray.Definition(); got != want {
		t.Fatalf("definition mismatch:\ngot  %q\nwant %q", got, want)
	}
	if !strings.HasSuffix(MsgContour.Definition(), "float32 y\n\n") {
		t.Fatalf("Contour definition has no trailing blank line: %q", MsgContour.Definition())
	}
}
