package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/calclab/internal/quad"
)

// Color enables ANSI colors in Graph output. Callers clear it when stdout
// is not a terminal.
var Color = true

// viewport maps world coordinates onto canvas dots.
type viewport struct {
	x0, x1, y0, y1 float64
	w, h           int
}

func newViewport(v *quad.Visualization, w, h int) viewport {
	vp := viewport{w: w, h: h}
	if len(v.Curve) > 0 {
		vp.x0, vp.x1 = v.Curve[0].X, v.Curve[len(v.Curve)-1].X
	} else {
		vp.x0, vp.x1 = math.Min(v.A, v.B), math.Max(v.A, v.B)
	}
	if vp.x1 == vp.x0 {
		vp.x1 = vp.x0 + 1
	}

	lo, hi, ok := v.Curve.Range()
	if !ok {
		lo, hi = -1, 1
	}
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if v.Riemann != nil {
		for _, r := range v.Riemann.Rectangles {
			lo, hi = math.Min(lo, r.Height), math.Max(hi, r.Height)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	vp.y0, vp.y1 = lo, hi
	return vp
}

func (vp viewport) dx(x float64) int {
	return int(math.Round((x - vp.x0) / (vp.x1 - vp.x0) * float64(vp.w-1)))
}

func (vp viewport) dy(y float64) int {
	return vp.h - 1 - int(math.Round((y-vp.y0)/(vp.y1-vp.y0)*float64(vp.h-1)))
}

// clampDot keeps far-off values (near a pole) from overflowing int math.
func (vp viewport) clampDot(d int) int {
	if d < -vp.h {
		return -vp.h
	}
	if d > 2*vp.h {
		return 2 * vp.h
	}
	return d
}

// Braille draws the visualization on a Braille canvas of cols x rows cells
// with y-axis labels on the left.
func Braille(v *quad.Visualization, cols, rows int) string {
	if v == nil {
		return ""
	}
	c := NewCanvas(cols, rows)
	vp := newViewport(v, c.DotsWide(), c.DotsHigh())

	zero := vp.clampDot(vp.dy(0))
	c.DrawLine(0, zero, c.DotsWide()-1, zero)

	if v.Riemann != nil {
		for _, r := range v.Riemann.Rectangles {
			c.DrawRect(vp.dx(r.Left), zero, vp.dx(r.Right()), vp.clampDot(vp.dy(r.Height)))
		}
	}

	var prev *quad.Sample
	for i := range v.Curve {
		s := v.Curve[i]
		if !s.Valid() {
			prev = nil
			continue
		}
		if prev != nil {
			c.DrawLine(vp.dx(prev.X), vp.clampDot(vp.dy(prev.Y)), vp.dx(s.X), vp.clampDot(vp.dy(s.Y)))
		}
		prev = &v.Curve[i]
	}

	for _, b := range []quad.Sample{v.FA, v.FB} {
		if b.Valid() {
			c.DrawDashed(vp.dx(b.X), zero, vp.clampDot(vp.dy(b.Y)))
		}
	}

	lines := c.Lines()
	var sb strings.Builder
	for i, line := range lines {
		label := strings.Repeat(" ", 9)
		switch i {
		case 0:
			label = fmt.Sprintf("%8.2f ", vp.y1)
		case len(lines) - 1:
			label = fmt.Sprintf("%8.2f ", vp.y0)
		}
		sb.WriteString(Subtle.Render(label))
		sb.WriteString(CurrentTheme.plot().Render(line))
		sb.WriteByte('\n')
	}
	sb.WriteString(fmt.Sprintf("%9s%-*g%g\n", "", cols-len(fmt.Sprint(vp.x1)), vp.x0, vp.x1))
	return sb.String()
}

// Graph plots f over [A, B] with asciigraph. When a Riemann sum is present
// it is drawn as a second, stepped series.
func Graph(v *quad.Visualization, width, height int, caption string) string {
	if v == nil {
		return ""
	}
	if _, _, ok := v.Region.Range(); !ok {
		return caption
	}

	curve := make([]float64, len(v.Region))
	for i, s := range v.Region {
		curve[i] = s.Y // NaN leaves a gap
	}
	series := [][]float64{curve}
	colors := []asciigraph.AnsiColor{asciigraph.DodgerBlue}

	if v.Riemann != nil && len(v.Region) > 1 {
		steps := make([]float64, len(v.Region))
		for i, s := range v.Region {
			steps[i] = stepHeight(v.Riemann, s.X)
		}
		series = append(series, steps)
		colors = append(colors, asciigraph.Orange)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if Color {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(series, opts...)
}

// stepHeight returns the height of the rectangle covering x.
func stepHeight(r *quad.RiemannResult, x float64) float64 {
	n := len(r.Rectangles)
	if n == 0 || r.Width == 0 {
		return math.NaN()
	}
	i := int((x - r.Rectangles[0].Left) / r.Width)
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return r.Rectangles[i].Height
}

// Sparkline renders rectangle heights as a one-line bar chart.
func Sparkline(r *quad.RiemannResult, width int) string {
	if r == nil {
		return ""
	}
	values := make([]float64, len(r.Rectangles))
	for i, rect := range r.Rectangles {
		values[i] = rect.Height
	}
	return SparklineChart(values, width)
}
