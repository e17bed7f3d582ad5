// Package render draws contour messages with gonum/plot.
package render

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/danmuck/contourwire/internal/protocol"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

// Plot builds one line per contour. Contours without points are skipped;
// a contour with a non-finite coordinate is an error.
func Plot(msg protocol.ContourArray, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	drawn := 0
	for i, c := range msg.Contours {
		if len(c.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, 0, len(c.Points))
		for j, pt := range c.Points {
			x, y := float64(pt.X), float64(pt.Y)
			if !finite(x) || !finite(y) {
				return nil, fmt.Errorf("render: contours[%d].points[%d] is not finite", i, j)
			}
			pts = append(pts, plotter.XY{X: x, Y: y})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(label(i, c.Name), line)
		drawn++
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	log.Debug().Msgf("render.Plot contours=%d drawn=%d", len(msg.Contours), drawn)
	return p, nil
}

// Save writes the plot to path; the extension selects the image format.
func Save(msg protocol.ContourArray, title, path string, width, height vg.Length) error {
	p, err := Plot(msg, title)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	log.Info().Msgf("render.Save path=%s", path)
	return nil
}

// WriteTo renders in the given format (png, svg, pdf, ...) to w.
func WriteTo(w io.Writer, msg protocol.ContourArray, title, format string) error {
	p, err := Plot(msg, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// FormatOf returns the image format implied by a file name.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func label(i int, name string) string {
	if name == "" {
		return fmt.Sprintf("contours[%d]", i)
	}
	return name
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
