package render

import (
	"math"
	"strings"
)

// XY is a point in pixel space
type XY struct {
	X, Y float64
}

// BasisPath returns the path data of a uniform cubic B-spline through points.
// The curve starts at the first point, ends at the last and is pulled towards the
// ones in between. A point with a NaN coordinate breaks the line into segments.
// A segment of one point is emitted as a closed move.
func BasisPath(points []XY) string {
	var b strings.Builder
	var seg basis

	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			if seg.open {
				seg.end(&b)
			}
			continue
		}

		if !seg.open {
			seg.start()
		}
		seg.point(&b, p.X, p.Y)
	}

	if seg.open {
		seg.end(&b)
	}

	return b.String()
}

type basis struct {
	open           bool
	n              int
	x0, y0, x1, y1 float64
}

func (s *basis) start() {
	*s = basis{open: true}
}

func (s *basis) point(b *strings.Builder, x, y float64) {
	switch s.n {
	case 0:
		s.n = 1
		command(b, 'M', x, y)
	case 1:
		s.n = 2
	case 2:
		s.n = 3
		command(b, 'L', (5*s.x0+s.x1)/6, (5*s.y0+s.y1)/6)
		s.bezier(b, x, y)
	default:
		s.bezier(b, x, y)
	}

	s.x0, s.x1 = s.x1, x
	s.y0, s.y1 = s.y1, y
}

func (s *basis) bezier(b *strings.Builder, x, y float64) {
	command(b, 'C',
		(2*s.x0+s.x1)/3, (2*s.y0+s.y1)/3,
		(s.x0+2*s.x1)/3, (s.y0+2*s.y1)/3,
		(s.x0+4*s.x1+x)/6, (s.y0+4*s.y1+y)/6,
	)
}

func (s *basis) end(b *strings.Builder) {
	switch s.n {
	case 1:
		b.WriteByte('Z')
	case 2:
		command(b, 'L', s.x1, s.y1)
	case 3:
		s.bezier(b, s.x1, s.y1)
		command(b, 'L', s.x1, s.y1)
	}
	s.open = false
}

func command(b *strings.Builder, op byte, coords ...float64) {
	b.WriteByte(op)
	for i, c := range coords {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Num(c))
	}
}
