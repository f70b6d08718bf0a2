package toggle

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/raykavin/trendline/pkg/core"
)

// State is the visibility of one series
type State int

const (
	Active   State = iota // series drawn, control shows the series color
	Inactive              // series hidden, control shows the neutral color
)

func (s State) String() string {
	if s == Inactive {
		return "inactive"
	}
	return "active"
}

// MarshalJSON encodes the state by name
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a state written by MarshalJSON
func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "active":
		*s = Active
	case "inactive":
		*s = Inactive
	default:
		return fmt.Errorf("unknown state %q", name)
	}
	return nil
}

// Kind is the type of UI control bound to a series
type Kind int

const (
	Button   Kind = iota // colored button; background flips between series color and white
	Checkbox             // checkbox; also hides the end-of-line label
)

// KindByName resolves a control kind from configuration
func KindByName(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "button":
		return Button, nil
	case "checkbox":
		return Checkbox, nil
	default:
		return Button, fmt.Errorf("unknown control kind %q", name)
	}
}

func (k Kind) String() string {
	if k == Checkbox {
		return "checkbox"
	}
	return "button"
}

const (
	Neutral       = "white"
	LabelShown    = "1em Roboto"
	LabelHidden   = "0em Roboto"
	visibleStroke = 1.0
)

// Style is what the UI applies to a series line and its control after a transition
type Style struct {
	Control     string  `json:"control"`
	Series      string  `json:"series"`
	State       State   `json:"state"`
	StrokeWidth float64 `json:"strokeWidth"`
	Background  string  `json:"background,omitempty"`
	Border      string  `json:"border,omitempty"`
	LabelFont   string  `json:"labelFont,omitempty"`
	Checked     bool    `json:"checked"`
}

// Colorer returns the display color of a series
type Colorer interface {
	Color(series string) string
}

// ControlID derives the control identifier of a series: its name with spaces stripped
func ControlID(series string) string {
	return strings.ReplaceAll(series, " ", "")
}

type control struct {
	series string
	state  State
}

// Controller holds the visibility state machine of every series of one chart
type Controller struct {
	sync.RWMutex
	kind     Kind
	initial  State
	colors   Colorer
	order    []string
	controls map[string]*control
}

// Option configures a Controller
type Option func(*Controller)

// WithInitial declares the state every control starts in
func WithInitial(state State) Option {
	return func(c *Controller) {
		c.initial = state
	}
}

// WithKind sets the kind of control bound to each series
func WithKind(kind Kind) Option {
	return func(c *Controller) {
		c.kind = kind
	}
}

// New creates a controller with one control per series, all in the declared initial state
func New(series []string, colors Colorer, options ...Option) (*Controller, error) {
	c := &Controller{
		kind:     Button,
		initial:  Active,
		colors:   colors,
		controls: make(map[string]*control, len(series)),
	}

	for _, option := range options {
		option(c)
	}

	for _, name := range series {
		id := ControlID(name)
		if existing, ok := c.controls[id]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", core.ErrDuplicateControl, existing.series, name, id)
		}

		c.controls[id] = &control{series: name, state: c.initial}
		c.order = append(c.order, id)
	}

	return c, nil
}

// Kind returns the kind of control bound to each series
func (c *Controller) Kind() Kind {
	return c.kind
}

// Initial returns the declared initial state
func (c *Controller) Initial() State {
	return c.initial
}

// Toggle flips the state of a control and returns the resulting style
func (c *Controller) Toggle(id string) (Style, error) {
	c.Lock()
	defer c.Unlock()

	ctrl, ok := c.controls[id]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", core.ErrUnknownControl, id)
	}

	if ctrl.state == Active {
		ctrl.state = Inactive
	} else {
		ctrl.state = Active
	}

	return c.style(id, ctrl), nil
}

// Set forces a control into state
func (c *Controller) Set(id string, state State) (Style, error) {
	c.Lock()
	defer c.Unlock()

	ctrl, ok := c.controls[id]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", core.ErrUnknownControl, id)
	}

	ctrl.state = state
	return c.style(id, ctrl), nil
}

// Reset puts every control back into the initial state
func (c *Controller) Reset() {
	c.Lock()
	defer c.Unlock()

	for _, ctrl := range c.controls {
		ctrl.state = c.initial
	}
}

// Style returns the current style of a control
func (c *Controller) Style(id string) (Style, error) {
	c.RLock()
	defer c.RUnlock()

	ctrl, ok := c.controls[id]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", core.ErrUnknownControl, id)
	}

	return c.style(id, ctrl), nil
}

// StrokeWidth returns the stroke width a series line is drawn with; unknown series draw visible
func (c *Controller) StrokeWidth(series string) float64 {
	c.RLock()
	defer c.RUnlock()

	ctrl, ok := c.controls[ControlID(series)]
	if !ok || ctrl.state == Active {
		return visibleStroke
	}
	return 0
}

// Hidden returns the control ids of inactive series in series order
func (c *Controller) Hidden() []string {
	c.RLock()
	defer c.RUnlock()

	hidden := make([]string, 0)
	for _, id := range c.order {
		if c.controls[id].state == Inactive {
			hidden = append(hidden, id)
		}
	}
	return hidden
}

// Snapshot returns the style of every control in series order
func (c *Controller) Snapshot() []Style {
	c.RLock()
	defer c.RUnlock()

	styles := make([]Style, 0, len(c.order))
	for _, id := range c.order {
		styles = append(styles, c.style(id, c.controls[id]))
	}
	return styles
}

// Resolve finds the control addressed by a class attribute such as "button app DuckDuckGo";
// the last class names the control.
func (c *Controller) Resolve(class string) (string, error) {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty class", core.ErrUnknownControl)
	}

	id := fields[len(fields)-1]

	c.RLock()
	defer c.RUnlock()

	if _, ok := c.controls[id]; !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownControl, id)
	}
	return id, nil
}

func (c *Controller) style(id string, ctrl *control) Style {
	color := Neutral
	if c.colors != nil {
		color = c.colors.Color(ctrl.series)
	}

	s := Style{
		Control: id,
		Series:  ctrl.series,
		State:   ctrl.state,
		Checked: ctrl.state == Active,
	}

	if c.kind == Button {
		s.Border = "2px solid " + color
	}

	if ctrl.state == Active {
		s.StrokeWidth = visibleStroke
		if c.kind == Button {
			s.Background = color
		}
		if c.kind == Checkbox {
			s.LabelFont = LabelShown
		}
		return s
	}

	if c.kind == Button {
		s.Background = Neutral
	}
	if c.kind == Checkbox {
		s.LabelFont = LabelHidden
	}
	return s
}
