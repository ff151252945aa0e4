// Package renderer draws animation frames as 2D projections of the
// ordination space.
package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ivlev/pcoa2video/internal/director"
	"github.com/ivlev/pcoa2video/internal/ordination"
)

// One point per pixel.
const dpi = 72

// Renderer turns director frames into images. Axis limits are fixed for the
// whole animation so that trajectories do not jump between frames. It holds
// no mutable state and may be shared between goroutines.
type Renderer struct {
	width, height    int
	gradientCategory string
	lastFrame        int
	bounds           Bounds
	colors           map[string]color.Color
	categories       []string
}

// New prepares a renderer for every frame of d.
func New(d *director.AnimationDirector, width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	r := &Renderer{
		width:            width,
		height:           height,
		gradientCategory: d.GradientCategory(),
		lastFrame:        d.MaximumTrajectoryLength(),
		colors:           make(map[string]color.Color),
	}

	var all []ordination.Point
	for i, t := range d.Trajectories() {
		r.colors[t.Category()] = plotutil.Color(i)
		r.categories = append(r.categories, t.Category())
		all = append(all, t.Coordinates()...)
	}
	r.bounds = BoundsOf(all).Pad(0.05)

	return r, nil
}

// Size returns the frame size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Plot builds the plot of a single frame.
func (r *Renderer) Plot(frame int, trajectories []director.TrajectoryFrame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: frame %d/%d", r.gradientCategory, max(frame, 0), r.lastFrame)
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"
	p.X.Min, p.X.Max = r.bounds.MinX, r.bounds.MaxX
	p.Y.Min, p.Y.Max = r.bounds.MinY, r.bounds.MaxY
	p.Add(plotter.NewGrid())

	for _, tf := range trajectories {
		if len(tf.Points) == 0 {
			continue
		}
		c, ok := r.colors[tf.Category]
		if !ok {
			c = color.Black
		}

		pts := make(plotter.XYs, len(tf.Points))
		for i, pt := range tf.Points {
			pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}

		if len(pts) > 1 {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to create line for %s: %w", tf.Category, err)
			}
			line.Color = c
			line.LineStyle.Width = vg.Points(2)
			p.Add(line)
		}

		head, err := plotter.NewScatter(pts[len(pts)-1:])
		if err != nil {
			return nil, fmt.Errorf("failed to create marker for %s: %w", tf.Category, err)
		}
		head.GlyphStyle.Color = c
		head.GlyphStyle.Radius = vg.Points(4)
		head.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(head)
		p.Legend.Add(tf.Category, head)
	}

	p.Legend.Top = true
	return p, nil
}

// Render draws a frame into an image of the renderer's size.
func (r *Renderer) Render(frame int, trajectories []director.TrajectoryFrame) (image.Image, error) {
	p, err := r.Plot(frame, trajectories)
	if err != nil {
		return nil, err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.width), vg.Length(r.height)),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// RenderPNG draws a frame and encodes it as PNG.
func (r *Renderer) RenderPNG(frame int, trajectories []director.TrajectoryFrame) ([]byte, error) {
	p, err := r.Plot(frame, trajectories)
	if err != nil {
		return nil, err
	}

	writer, err := p.WriterTo(vg.Points(float64(r.width)), vg.Points(float64(r.height)), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// Color returns the color assigned to a trajectory category.
func (r *Renderer) Color(category string) (color.Color, bool) {
	c, ok := r.colors[category]
	return c, ok
}

// Bounds returns the axis limits shared by every frame.
func (r *Renderer) Bounds() Bounds {
	return r.bounds
}
