package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danmuck/contourwire/internal/document"
	"github.com/danmuck/contourwire/internal/geometry"
	"github.com/danmuck/contourwire/internal/observability"
	"github.com/danmuck/contourwire/internal/protocol"
	"github.com/danmuck/contourwire/internal/protocol/frame"
	"github.com/danmuck/contourwire/internal/protocol/schema"
	"github.com/danmuck/contourwire/internal/render"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot/vg"
)

var (
	flagIn = cli.StringFlag{
		Name:  "in",
		Usage: "input path, - for stdin",
		Value: "-",
	}
	flagOut = cli.StringFlag{
		Name:  "out",
		Usage: "output path, - for stdout",
		Value: "-",
	}
	flagFramed = cli.BoolFlag{
		Name:  "framed",
		Usage: "treat wire data as a capture of u32 length-prefixed frames",
	}
	flagIndex = cli.IntFlag{
		Name:  "index",
		Usage: "frame to use when the capture holds several messages",
	}
	flagFormat = cli.StringFlag{
		Name:  "format",
		Usage: "image format when writing to stdout (png|svg|pdf|jpg)",
		Value: "png",
	}
)

func (st *toolState) encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode a TOML contour document to wire bytes; with --framed every [[messages]] entry becomes one frame",
		ArgsUsage: " ",
		Flags:     []cli.Flag{&flagIn, &flagOut, &flagFramed},
		Action: func(ctx *cli.Context) error {
			data, err := readInput(ctx, ctx.String(flagIn.Name))
			if err != nil {
				return err
			}
			framed := ctx.Bool(flagFramed.Name)
			var msgs []protocol.ContourArray
			if framed {
				msgs, err = document.ParseAll(data)
			} else {
				var msg protocol.ContourArray
				msg, err = document.Parse(data)
				msgs = []protocol.ContourArray{msg}
			}
			if err != nil {
				return err
			}
			policy, err := st.cfg.SchemaPolicy()
			if err != nil {
				return err
			}

			payloads := make([][]byte, 0, len(msgs))
			for i, msg := range msgs {
				if err := schema.Validate(msg, policy); err != nil {
					return messageErr(len(msgs), i, err)
				}
				start := time.Now()
				wire, err := protocol.Marshal(msg)
				observability.RecordCodec(observability.CodecOp{
					Op:       "encode",
					Bytes:    len(wire),
					Contours: len(msg.Contours),
					Duration: time.Since(start),
					Err:      err,
				})
				if err != nil {
					return messageErr(len(msgs), i, err)
				}
				payloads = append(payloads, wire)
			}

			return writeOutput(ctx, ctx.String(flagOut.Name), func(w io.Writer) error {
				for _, wire := range payloads {
					if framed {
						if err := frame.WriteFrame(w, wire, st.cfg.FrameLimits()); err != nil {
							return err
						}
						continue
					}
					if _, err := w.Write(wire); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func (st *toolState) decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode wire bytes to a TOML contour document; with --framed frames become [[messages]] entries",
		ArgsUsage: " ",
		Flags:     []cli.Flag{&flagIn, &flagOut, &flagFramed},
		Action: func(ctx *cli.Context) error {
			msgs, err := st.loadMessages(ctx)
			if err != nil {
				return err
			}
			framed := ctx.Bool(flagFramed.Name)
			return writeOutput(ctx, ctx.String(flagOut.Name), func(w io.Writer) error {
				if framed {
					return document.WriteAll(w, msgs)
				}
				return document.Write(w, msgs[0])
			})
		},
	}
}

func (st *toolState) inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print sizes and shape summaries of wire messages",
		ArgsUsage: " ",
		Flags:     []cli.Flag{&flagIn, &flagFramed},
		Action: func(ctx *cli.Context) error {
			msgs, err := st.loadMessages(ctx)
			if err != nil {
				return err
			}
			w := ctx.App.Writer
			fmt.Fprintf(w, "type: %s\nmd5sum: %s\n", protocol.MsgContourArray.Name(), protocol.MsgContourArray.MD5Sum())
			for i, msg := range msgs {
				size, err := protocol.EncodedLen(msg)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "message %d: bytes=%d contours=%d points=%d", i, size, len(msg.Contours), msg.PointCount())
				if box, ok := geometry.Extent(msg); ok {
					fmt.Fprintf(w, " extent=(%g,%g)-(%g,%g)", box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
				}
				fmt.Fprintln(w)
				for j, s := range geometry.SummarizeAll(msg) {
					fmt.Fprintf(w, "  [%d] name=%q points=%d", j, s.Name, s.Points)
					if s.Points > 0 {
						fmt.Fprintf(w, " bounds=(%g,%g)-(%g,%g) perimeter=%g closed=%t area=%g",
							s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Max.X, s.Bounds.Max.Y,
							s.Perimeter, s.Closed, s.Area)
					}
					fmt.Fprintln(w)
				}
			}
			return nil
		},
	}
}

func (st *toolState) plotCommand() *cli.Command {
	return &cli.Command{
		Name:      "plot",
		Usage:     "Render contours of a wire message to an image",
		ArgsUsage: " ",
		Flags:     []cli.Flag{&flagIn, &flagOut, &flagFramed, &flagIndex, &flagFormat},
		Action: func(ctx *cli.Context) error {
			msgs, err := st.loadMessages(ctx)
			if err != nil {
				return err
			}
			index := ctx.Int(flagIndex.Name)
			if index < 0 || index >= len(msgs) {
				return fmt.Errorf("index %d out of range: capture holds %d messages", index, len(msgs))
			}
			msg := msgs[index]
			title := st.cfg.Render.Title

			out := ctx.String(flagOut.Name)
			if out == "" || out == "-" {
				return render.WriteTo(ctx.App.Writer, msg, title, ctx.String(flagFormat.Name))
			}
			if ext := render.FormatOf(out); ctx.IsSet(flagFormat.Name) && ext != ctx.String(flagFormat.Name) {
				return fmt.Errorf("--format %s does not match output extension %q", ctx.String(flagFormat.Name), ext)
			}
			width := vg.Length(st.cfg.Render.WidthInches) * vg.Inch
			height := vg.Length(st.cfg.Render.HeightInches) * vg.Inch
			return render.Save(msg, title, out, width, height)
		},
	}
}

func definitionCommand() *cli.Command {
	return &cli.Command{
		Name:      "definition",
		Usage:     "Print the ContourArray message definition and md5sum",
		ArgsUsage: " ",
		Action: func(ctx *cli.Context) error {
			t := protocol.MsgContourArray
			_, err := fmt.Fprintf(ctx.App.Writer, "# %s %s\n%s", t.Name(), t.MD5Sum(), t.Definition())
			return err
		},
	}
}

// loadMessages decodes the --in data as one message, or as a frame capture
// when --framed is set.
func (st *toolState) loadMessages(ctx *cli.Context) ([]protocol.ContourArray, error) {
	data, err := readInput(ctx, ctx.String(flagIn.Name))
	if err != nil {
		return nil, err
	}
	payloads := [][]byte{data}
	if ctx.Bool(flagFramed.Name) {
		payloads, err = frame.ReadAll(bytes.NewReader(data), st.cfg.FrameLimits())
		if err != nil {
			return nil, err
		}
	}

	limits := st.cfg.DecodeLimits()
	msgs := make([]protocol.ContourArray, 0, len(payloads))
	for i, payload := range payloads {
		start := time.Now()
		msg, err := protocol.DecodeWithLimits(payload, limits)
		observability.RecordCodec(observability.CodecOp{
			Op:       "decode",
			Bytes:    len(payload),
			Contours: len(msg.Contours),
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			return nil, messageErr(len(payloads), i, err)
		}
		msgs = append(msgs, msg)
	}
	log.Debug().Msgf("contourctl decoded messages=%d", len(msgs))
	return msgs, nil
}

func messageErr(count, index int, err error) error {
	if count > 1 {
		return fmt.Errorf("frame %d: %w", index, err)
	}
	return err
}

func readInput(ctx *cli.Context, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(ctx.App.Reader)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(ctx *cli.Context, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(ctx.App.Writer)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
