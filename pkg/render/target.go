package render

// Line is a straight SVG line
type Line struct {
	Class       string
	X1, Y1      float64
	X2, Y2      float64
	Stroke      string
	StrokeWidth string
}

// Path is an SVG path with precomputed path data
type Path struct {
	Class       string
	D           string
	Stroke      string
	StrokeWidth string
	Fill        string
}

// Text is an SVG text element. DX and DY keep their unit ("0.71em").
type Text struct {
	Class     string
	X, Y      float64
	DX, DY    string
	Anchor    string
	Transform string
	Fill      string
	Font      string
	Content   string
}

// Target is anything a chart can be drawn onto
type Target interface {
	// Group opens a child container; elements added to it are drawn with its transform
	Group(class, transform string) Target
	Line(Line)
	Path(Path)
	Text(Text)
}
