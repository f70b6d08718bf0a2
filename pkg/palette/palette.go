package palette

import (
	"sync"

	"github.com/StudioSol/set"
)

// Category10 is the ten-color qualitative scheme series are drawn with
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Ordinal assigns colors to series names in first-seen order, cycling through the
// range when there are more names than colors. An assignment never changes once made.
type Ordinal struct {
	sync.Mutex
	domain *set.LinkedHashSetString
	colors []string
}

// NewOrdinal creates an assignment over colors, pre-registering domain in order.
// An empty color list falls back to Category10.
func NewOrdinal(colors []string, domain ...string) *Ordinal {
	if len(colors) == 0 {
		colors = Category10
	}

	o := &Ordinal{
		domain: set.NewLinkedHashSetString(),
		colors: append([]string(nil), colors...),
	}
	o.domain.Add(domain...)

	return o
}

// Color returns the color of name, registering it when unseen
func (o *Ordinal) Color(name string) string {
	o.Lock()
	defer o.Unlock()

	if !o.domain.InArray(name) {
		o.domain.Add(name)
		return o.slot(o.domain.Length() - 1)
	}

	for i, registered := range o.domain.AsSlice() {
		if registered == name {
			return o.slot(i)
		}
	}
	return o.slot(0)
}

// Len returns the number of registered names
func (o *Ordinal) Len() int {
	o.Lock()
	defer o.Unlock()
	return o.domain.Length()
}

// Domain returns every registered name in assignment order
func (o *Ordinal) Domain() []string {
	o.Lock()
	defer o.Unlock()
	return o.domain.AsSlice()
}

// Colors returns the color of every registered name
func (o *Ordinal) Colors() map[string]string {
	o.Lock()
	defer o.Unlock()

	names := o.domain.AsSlice()
	colors := make(map[string]string, len(names))
	for i, name := range names {
		colors[name] = o.slot(i)
	}
	return colors
}

func (o *Ordinal) slot(i int) string {
	return o.colors[i%len(o.colors)]
}
