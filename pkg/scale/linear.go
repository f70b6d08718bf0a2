package scale

import (
	"math"
	"strconv"
	"strings"

	"github.com/raykavin/trendline/pkg/core"
)

// Tick is a domain value paired with its axis label
type Tick struct {
	Value float64
	Label string
}

// Scale maps domain values of one axis to pixels
type Scale interface {
	Map(v float64) float64
	Range() [2]float64
	Ticks(count int) []Tick
}

// LabelStyle selects how a linear scale formats tick labels
type LabelStyle int

const (
	LabelGrouped LabelStyle = iota // fixed precision derived from the tick step, thousands separated
	LabelPlain                     // shortest representation, no separators (years as 2016, not 2,016)
)

// Linear is a continuous scale from a numeric domain to a pixel range
type Linear struct {
	Domain [2]float64
	Span   [2]float64
	Style  LabelStyle
}

var _ Scale = (*Linear)(nil)

// NewLinear creates a linear scale. An empty extent falls back to the [0, 1] domain.
func NewLinear(extent core.Extent[float64], span [2]float64, style LabelStyle) *Linear {
	domain := [2]float64{0, 1}
	if extent.Valid {
		domain = [2]float64{extent.Min, extent.Max}
	}

	return &Linear{Domain: domain, Span: span, Style: style}
}

// Degenerate reports whether the domain collapsed to a single value
func (s *Linear) Degenerate() bool {
	return s.Domain[0] == s.Domain[1]
}

// Map implements Scale. A collapsed domain maps to the middle of the range.
func (s *Linear) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Span[0], s.Span[1]

	if d0 == d1 {
		return (r0 + r1) / 2
	}

	return r0 + (v-d0)/(d1-d0)*(r1-r0)
}

// Invert maps a pixel back to the domain
func (s *Linear) Invert(px float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Span[0], s.Span[1]

	if r0 == r1 {
		return (d0 + d1) / 2
	}

	return d0 + (px-r0)/(r1-r0)*(d1-d0)
}

// Range implements Scale.
func (s *Linear) Range() [2]float64 {
	return s.Span
}

// Ticks implements Scale.
func (s *Linear) Ticks(count int) []Tick {
	values := niceTicks(s.Domain[0], s.Domain[1], count)
	precision := stepPrecision(tickStep(s.Domain[0], s.Domain[1], count))

	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Label: s.format(v, precision)}
	}
	return ticks
}

func (s *Linear) format(v float64, precision int) string {
	if s.Style == LabelPlain {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return groupThousands(strconv.FormatFloat(v, 'f', precision, 64))
}

// stepPrecision is the number of decimals needed to tell ticks apart
func stepPrecision(step float64) int {
	step = math.Abs(step)
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return 0
	}

	exp := int(math.Floor(math.Log10(step)))
	if exp >= 0 {
		return 0
	}
	return -exp
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return sign + b.String()
}
