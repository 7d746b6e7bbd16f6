package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/calclab/internal/quad"
)

type frame struct {
	x0, x1, y0, y1 float64
	w, h, pad      float64
}

func (f frame) px(x float64) float64 {
	return f.pad + (x-f.x0)/(f.x1-f.x0)*(f.w-2*f.pad)
}

func (f frame) py(y float64) float64 {
	return f.h - f.pad - (y-f.y0)/(f.y1-f.y0)*(f.h-2*f.pad)
}

func newFrame(v *quad.Visualization, w, h float64) frame {
	f := frame{w: w, h: h, pad: 40}
	if len(v.Curve) > 0 {
		f.x0, f.x1 = v.Curve[0].X, v.Curve[len(v.Curve)-1].X
	} else {
		f.x0, f.x1 = math.Min(v.A, v.B), math.Max(v.A, v.B)
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
	if f.x1 == f.x0 {
		f.x1 = f.x0 + 1
	}
	f.y0, f.y1 = lo, hi
	return f
}

// SVG renders the curve, the shaded region, the Riemann rectangles and the
// bound markers. Invalid samples break the curve into separate polylines.
func SVG(v *quad.Visualization, title string, w, h float64) string {
	if v == nil {
		return ""
	}
	f := newFrame(v, w, h)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h))

	// axes
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466"/>
`, f.pad, f.py(0), w-f.pad, f.py(0)))
	if f.x0 <= 0 && f.x1 >= 0 {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466"/>
`, f.px(0), f.pad, f.px(0), h-f.pad))
	}

	for _, seg := range segments(v.Region) {
		sb.WriteString(`<polygon fill="#0064ff" fill-opacity="0.3" points="`)
		sb.WriteString(fmt.Sprintf("%.1f,%.1f ", f.px(seg[0].X), f.py(0)))
		for _, s := range seg {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f ", f.px(s.X), f.py(s.Y)))
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", f.px(seg[len(seg)-1].X), f.py(0)))
		sb.WriteString(`"/>
`)
	}

	if v.Riemann != nil {
		for _, r := range v.Riemann.Rectangles {
			x := math.Min(f.px(r.Left), f.px(r.Right()))
			y := math.Min(f.py(0), f.py(r.Height))
			rw := math.Abs(f.px(r.Right()) - f.px(r.Left))
			rh := math.Abs(f.py(r.Height) - f.py(0))
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#ffa500" fill-opacity="0.3" stroke="#ffa500"><title>rect %d: width %.3f height %.3f area %.3f</title></rect>
`, x, y, rw, rh, r.Index+1, r.Width, r.Height, r.Area))
		}
	}

	for _, seg := range segments(v.Curve) {
		sb.WriteString(`<polyline fill="none" stroke="#00ccff" stroke-width="2" points="`)
		for i, s := range seg {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", f.px(s.X), f.py(s.Y)))
		}
		sb.WriteString(`"/>
`)
	}

	for _, b := range []quad.Sample{v.FA, v.FB} {
		if !b.Valid() {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ff4444" stroke-dasharray="6,4"/>
`, f.px(b.X), f.py(0), f.px(b.X), f.py(b.Y)))
	}

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="24" fill="#ffffff" font-family="monospace" font-size="14">∫ %s dx from %g to %g ≈ %.6f</text>
`, f.pad, html.EscapeString(title), v.A, v.B, v.Integral))
	sb.WriteString("</svg>\n")
	return sb.String()
}

// segments splits a curve into runs of consecutive valid samples.
func segments(c quad.Curve) [][]quad.Sample {
	var out [][]quad.Sample
	var cur []quad.Sample
	for _, s := range c {
		if s.Valid() {
			cur = append(cur, s)
			continue
		}
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
