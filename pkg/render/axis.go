package render

import (
	"github.com/raykavin/trendline/pkg/scale"
)

type orient int

const (
	bottom orient = iota
	left
	right
)

const (
	defaultTickSize = 6
	tickPadding     = 3
)

// axis draws a scale as a domain line plus one group per tick
type axis struct {
	orient   orient
	scale    scale.Scale
	ticks    int
	tickSize float64
	labels   bool
}

func (a axis) draw(t Target) {
	k := 1.0
	if a.orient == left {
		k = -1
	}

	r := a.scale.Range()
	outer := k * a.tickSize

	var domain string
	if a.orient == bottom {
		domain = "M" + Num(r[0]) + "," + Num(outer) + "V0H" + Num(r[1]) + "V" + Num(outer)
	} else {
		domain = "M" + Num(outer) + "," + Num(r[0]) + "H0V" + Num(r[1]) + "H" + Num(outer)
	}
	t.Path(Path{Class: "domain", D: domain, Stroke: "currentColor", Fill: "none"})

	spacing := max(a.tickSize, 0) + tickPadding

	for _, tick := range a.scale.Ticks(a.ticks) {
		pos := a.scale.Map(tick.Value)

		if a.orient == bottom {
			g := t.Group("tick", Translate(pos, 0))
			g.Line(Line{Y2: k * a.tickSize, Stroke: "currentColor"})
			if a.labels {
				g.Text(Text{Y: k * spacing, DY: "0.71em", Anchor: "middle", Fill: "currentColor", Content: tick.Label})
			}
			continue
		}

		anchor := "start"
		if a.orient == left {
			anchor = "end"
		}

		g := t.Group("tick", Translate(0, pos))
		g.Line(Line{X2: k * a.tickSize, Stroke: "currentColor"})
		if a.labels {
			g.Text(Text{X: k * spacing, DY: "0.32em", Anchor: anchor, Fill: "currentColor", Content: tick.Label})
		}
	}
}
