// Package document converts ContourArray messages to and from a TOML form
// that people can read and edit:
//
//	type = "seabee3_msgs/ContourArray"
//
//	[[contours]]
//	name = "buoy.red"
//	points = [[1.0, 2.0], [3.5, 4.0]]
//
// Names that are not valid UTF-8 are written as name_hex instead of name.
// A capture of several messages nests each one under [[messages]]:
//
//	[[messages]]
//	[[messages.contours]]
//	name = "buoy.red"
//	points = [[1.0, 2.0]]
package document

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/contourwire/internal/protocol"
)

type fileDocument struct {
	Type     string        `toml:"type,omitempty"`
	MD5Sum   string        `toml:"md5sum,omitempty"`
	Contours []fileContour `toml:"contours"`
	Messages []fileMessage `toml:"messages"`
}

type fileMessage struct {
	Contours []fileContour `toml:"contours"`
}

// Points decode as float64 because the TOML decoder range-checks float32
// targets and would reject inf.
type fileContour struct {
	Name    *string     `toml:"name,omitempty"`
	NameHex string      `toml:"name_hex,omitempty"`
	Points  [][]float64 `toml:"points"`
}

// outDocument writes float32 so values keep their shortest 32-bit form.
type outDocument struct {
	Type     string       `toml:"type"`
	MD5Sum   string       `toml:"md5sum"`
	Contours []outContour `toml:"contours"`
}

type outCapture struct {
	Type     string       `toml:"type"`
	MD5Sum   string       `toml:"md5sum"`
	Messages []outMessage `toml:"messages"`
}

type outMessage struct {
	Contours []outContour `toml:"contours"`
}

type outContour struct {
	Name    *string     `toml:"name,omitempty"`
	NameHex string      `toml:"name_hex,omitempty"`
	Points  [][]float32 `toml:"points"`
}

func Load(path string) (protocol.ContourArray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return protocol.ContourArray{}, fmt.Errorf("document load failed (%s): %w", path, err)
	}
	msg, err := Parse(data)
	if err != nil {
		return protocol.ContourArray{}, fmt.Errorf("document parse failed (%s): %w", path, err)
	}
	return msg, nil
}

// Parse reads a single-message TOML document. Unknown keys are rejected so
// that a typo never silently drops data.
func Parse(data []byte) (protocol.ContourArray, error) {
	raw, meta, err := decode(data)
	if err != nil {
		return protocol.ContourArray{}, err
	}
	if meta.IsDefined("messages") {
		return protocol.ContourArray{}, fmt.Errorf("document holds %d messages, not one", len(raw.Messages))
	}
	return message(raw.Contours)
}

// ParseAll reads either form. A single-message document yields one message.
func ParseAll(data []byte) ([]protocol.ContourArray, error) {
	raw, meta, err := decode(data)
	if err != nil {
		return nil, err
	}
	if !meta.IsDefined("messages") {
		msg, err := message(raw.Contours)
		if err != nil {
			return nil, err
		}
		return []protocol.ContourArray{msg}, nil
	}
	if meta.IsDefined("contours") {
		return nil, fmt.Errorf("contours and messages are exclusive")
	}
	msgs := make([]protocol.ContourArray, 0, len(raw.Messages))
	for i, fm := range raw.Messages {
		msg, err := message(fm.Contours)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func decode(data []byte) (fileDocument, toml.MetaData, error) {
	var raw fileDocument
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return fileDocument{}, meta, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fileDocument{}, meta, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if meta.IsDefined("type") && raw.Type != protocol.MsgContourArray.Name() {
		return fileDocument{}, meta, fmt.Errorf("type %q is not %s", raw.Type, protocol.MsgContourArray.Name())
	}
	if meta.IsDefined("md5sum") && raw.MD5Sum != protocol.MsgContourArray.MD5Sum() {
		return fileDocument{}, meta, fmt.Errorf("md5sum %s does not match %s", raw.MD5Sum, protocol.MsgContourArray.MD5Sum())
	}
	return raw, meta, nil
}

func message(fcs []fileContour) (protocol.ContourArray, error) {
	contours := make([]protocol.Contour, 0, len(fcs))
	for i, fc := range fcs {
		c, err := fc.contour()
		if err != nil {
			return protocol.ContourArray{}, fmt.Errorf("contours[%d]: %w", i, err)
		}
		contours = append(contours, c)
	}
	return protocol.ContourArray{Contours: contours}, nil
}

func (fc fileContour) contour() (protocol.Contour, error) {
	var name string
	switch {
	case fc.NameHex != "" && fc.Name != nil:
		return protocol.Contour{}, fmt.Errorf("name and name_hex are exclusive")
	case fc.NameHex != "":
		b, err := hex.DecodeString(fc.NameHex)
		if err != nil {
			return protocol.Contour{}, fmt.Errorf("name_hex: %w", err)
		}
		name = string(b)
	case fc.Name != nil:
		name = *fc.Name
	}

	points := make([]protocol.Point2D, 0, len(fc.Points))
	for j, pair := range fc.Points {
		if len(pair) != 2 {
			return protocol.Contour{}, fmt.Errorf("points[%d]: want [x, y], got %d values", j, len(pair))
		}
		for _, v := range pair {
			if !math.IsInf(v, 0) && math.Abs(v) > math.MaxFloat32 {
				return protocol.Contour{}, fmt.Errorf("points[%d]: %g is out of float32 range", j, v)
			}
		}
		points = append(points, protocol.NewPoint2D(float32(pair[0]), float32(pair[1])))
	}
	return protocol.Contour{Name: name, Points: points}, nil
}

// Write renders msg as a TOML document.
func Write(w io.Writer, msg protocol.ContourArray) error {
	return toml.NewEncoder(w).Encode(outDocument{
		Type:     protocol.MsgContourArray.Name(),
		MD5Sum:   protocol.MsgContourArray.MD5Sum(),
		Contours: outContours(msg),
	})
}

// WriteAll renders msgs as one document that ParseAll reads back.
func WriteAll(w io.Writer, msgs []protocol.ContourArray) error {
	doc := outCapture{
		Type:     protocol.MsgContourArray.Name(),
		MD5Sum:   protocol.MsgContourArray.MD5Sum(),
		Messages: make([]outMessage, 0, len(msgs)),
	}
	for _, msg := range msgs {
		doc.Messages = append(doc.Messages, outMessage{Contours: outContours(msg)})
	}
	return toml.NewEncoder(w).Encode(doc)
}

func outContours(msg protocol.ContourArray) []outContour {
	out := make([]outContour, 0, len(msg.Contours))
	for _, c := range msg.Contours {
		fc := outContour{Points: make([][]float32, 0, len(c.Points))}
		if utf8.ValidString(c.Name) {
			name := c.Name
			fc.Name = &name
		} else {
			fc.NameHex = hex.EncodeToString([]byte(c.Name))
		}
		for _, p := range c.Points {
			fc.Points = append(fc.Points, []float32{p.X, p.Y})
		}
		out = append(out, fc)
	}
	return out
}
