package quad

const (
	MinRiemannSteps     = 5
	MaxRiemannSteps     = 50
	DefaultRiemannSteps = 10
)

// Rectangle is one midpoint-rule subinterval.
type Rectangle struct {
	Index  int     `json:"index"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Area   float64 `json:"area"`
}

func (r Rectangle) Mid() float64   { return r.Left + r.Width/2 }
func (r Rectangle) Right() float64 { return r.Left + r.Width }

// RiemannResult holds the rectangles in left-to-right sweep order.
type RiemannResult struct {
	Total      float64     `json:"total"`
	Width      float64     `json:"width"`
	Rectangles []Rectangle `json:"rectangles"`
}

// Riemann computes the midpoint Riemann sum of f over [a, b] with n
// rectangles. Width is signed when a > b, so areas and total follow the
// orientation of the interval. An empty interval yields n zero-width
// rectangles without sampling f.
func Riemann(f Func, a, b float64, n int) (*RiemannResult, error) {
	if err := checkInterval(a, b); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrInvalidSubdivisions
	}
	if a == b {
		res := &RiemannResult{Rectangles: make([]Rectangle, n)}
		for i := range res.Rectangles {
			res.Rectangles[i] = Rectangle{Index: i, Left: a}
		}
		return res, nil
	}

	dx := (b - a) / float64(n)
	res := &RiemannResult{
		Width:      dx,
		Rectangles: make([]Rectangle, 0, n),
	}

	for i := 0; i < n; i++ {
		left := a + float64(i)*dx
		height, err := sample(f, left+dx/2)
		if err != nil {
			return nil, err
		}
		area := height * dx
		res.Total += area
		res.Rectangles = append(res.Rectangles, Rectangle{
			Index:  i,
			Left:   left,
			Width:  dx,
			Height: height,
			Area:   area,
		})
	}

	return res, nil
}

// ClampSteps limits a caller-facing rectangle count to the display range.
func ClampSteps(n int) int {
	if n < MinRiemannSteps {
		return MinRiemannSteps
	}
	if n > MaxRiemannSteps {
		return MaxRiemannSteps
	}
	return n
}
