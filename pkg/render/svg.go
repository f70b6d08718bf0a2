package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/raykavin/trendline/pkg/core"
)

// Attr is a single element attribute or style property
type Attr struct {
	Key   string
	Value string
}

// Node is one element of an SVG document
type Node struct {
	Name     string
	Attrs    []Attr
	Style    []Attr
	Content  string
	Children []*Node
}

// Attr returns the value of an attribute
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// StyleOf returns the value of an inline style property
func (n *Node) StyleOf(key string) (string, bool) {
	for _, a := range n.Style {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasClass reports whether the element carries every given class
func (n *Node) HasClass(classes ...string) bool {
	value, ok := n.Attr("class")
	if !ok {
		return false
	}

	own := strings.Fields(value)
	for _, class := range classes {
		found := false
		for _, c := range own {
			if c == class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (n *Node) set(key, value string) {
	if value == "" {
		return
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

func (n *Node) setStyle(key, value string) {
	if value == "" {
		return
	}
	n.Style = append(n.Style, Attr{Key: key, Value: value})
}

func (n *Node) add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

type group struct {
	node *Node
}

func (g group) Group(class, transform string) Target {
	child := &Node{Name: "g"}
	child.set("class", class)
	child.set("transform", transform)
	return group{node: g.node.add(child)}
}

func (g group) Line(l Line) {
	n := &Node{Name: "line"}
	n.set("class", l.Class)
	n.set("x1", Num(l.X1))
	n.set("x2", Num(l.X2))
	n.set("y1", Num(l.Y1))
	n.set("y2", Num(l.Y2))
	n.setStyle("stroke", l.Stroke)
	n.setStyle("stroke-width", l.StrokeWidth)
	g.node.add(n)
}

func (g group) Path(p Path) {
	n := &Node{Name: "path"}
	n.set("class", p.Class)
	n.set("d", p.D)
	n.set("fill", p.Fill)
	n.setStyle("stroke", p.Stroke)
	n.setStyle("stroke-width", p.StrokeWidth)
	g.node.add(n)
}

func (g group) Text(t Text) {
	n := &Node{Name: "text", Content: t.Content}
	n.set("class", t.Class)
	n.set("x", Num(t.X))
	n.set("y", Num(t.Y))
	n.set("dx", t.DX)
	n.set("dy", t.DY)
	n.set("text-anchor", t.Anchor)
	n.set("transform", t.Transform)
	n.set("fill", t.Fill)
	n.setStyle("font", t.Font)
	g.node.add(n)
}

// Document is an in-memory SVG drawing. Drawing onto it targets the plot area,
// already translated by the layout margins.
type Document struct {
	Target
	Root *Node
}

var _ Target = (*Document)(nil)

// NewDocument creates an empty SVG sized for layout
func NewDocument(layout core.Layout) *Document {
	root := &Node{Name: "svg"}
	root.set("xmlns", "http://www.w3.org/2000/svg")
	root.set("width", Num(layout.Width))
	root.set("height", Num(layout.OuterHeight()))

	plot := group{node: root}.Group("plot", Translate(layout.Margin.Left, layout.Margin.Top))

	return &Document{Target: plot, Root: root}
}

// FindByClass returns, in document order, every element carrying all classes
func (d *Document) FindByClass(classes ...string) []*Node {
	var found []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.HasClass(classes...) {
			found = append(found, n)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(d.Root)
	return found
}

// WriteTo serializes the document as SVG markup
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	writeNode(cw, d.Root)
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// String returns the SVG markup
func (d *Document) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) WriteString(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}

func writeNode(w *countingWriter, n *Node) {
	w.WriteString("<" + n.Name)
	for _, a := range n.Attrs {
		w.WriteString(" " + a.Key + `="` + escape(a.Value) + `"`)
	}

	if len(n.Style) > 0 {
		props := make([]string, len(n.Style))
		for i, s := range n.Style {
			props[i] = s.Key + ": " + s.Value
		}
		w.WriteString(` style="` + escape(strings.Join(props, "; ")) + `"`)
	}

	if len(n.Children) == 0 && n.Content == "" {
		w.WriteString("/>")
		return
	}

	w.WriteString(">")
	w.WriteString(escape(n.Content))
	for _, child := range n.Children {
		writeNode(w, child)
	}
	w.WriteString("</" + n.Name + ">")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Num formats a coordinate rounded to three decimals
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Translate formats an SVG translate transform
func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", Num(x), Num(y))
}
