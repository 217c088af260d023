package output

import (
	"math"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
	"gitlab.com/mstarongitlab/goutils/sliceutils"
)

// Layout arranges outputs left to right in the order they appear
type Layout struct {
	outputs []*Output
	log     *logrus.Entry
}

func NewLayout() *Layout {
	return &Layout{
		log: logrus.WithField("component", "layout"),
	}
}

// Add places a new output to the right of all existing ones
func (l *Layout) Add(h Handle, scale float64, t geom.Transform) *Output {
	o := newOutput(h, scale, t)
	for _, existing := range l.outputs {
		if right := existing.X + existing.LocalBox().Width; right > o.X {
			o.X = right
		}
	}
	l.outputs = append(l.outputs, o)
	o.DamageWhole()
	l.log.WithFields(logrus.Fields{
		"name":  o.Name(),
		"mode":  o.Mode,
		"box":   o.LayoutBox(),
		"scale": o.Scale,
	}).Infoln("Output added")
	return o
}

// Remove drops the output. Outputs to its right keep their position.
func (l *Layout) Remove(o *Output) bool {
	for i, existing := range l.outputs {
		if existing == o {
			l.outputs = append(l.outputs[:i], l.outputs[i+1:]...)
			l.log.WithField("name", o.Name()).Infoln("Output removed")
			return true
		}
	}
	return false
}

func (l *Layout) Outputs() []*Output {
	return append([]*Output(nil), l.outputs...)
}

func (l *Layout) Len() int {
	return len(l.outputs)
}

// Find looks an output up by its backend name
func (l *Layout) Find(name string) (*Output, bool) {
	found := sliceutils.Filter(l.outputs, func(o *Output) bool {
		return o.Name() == name
	})
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// FindHandle looks an output up by its backend handle
func (l *Layout) FindHandle(h Handle) (*Output, bool) {
	for _, o := range l.outputs {
		if o.handle == h {
			return o, true
		}
	}
	return nil, false
}

// OutputAt returns the output containing the layout point
func (l *Layout) OutputAt(x, y float64) (*Output, bool) {
	for _, o := range l.outputs {
		if o.LayoutBox().Contains(x, y) {
			return o, true
		}
	}
	return nil, false
}

// Extents is the bounding box of every output
func (l *Layout) Extents() geom.Box {
	var r geom.Region
	for _, o := range l.outputs {
		r.Add(o.LayoutBox())
	}
	return r.Extents()
}

// Center returns the output at the middle of the layout, if any
func (l *Layout) Center() (*Output, bool) {
	if len(l.outputs) == 0 {
		return nil, false
	}
	ext := l.Extents()
	cx := float64(ext.X) + float64(ext.Width)/2
	cy := float64(ext.Y) + float64(ext.Height)/2
	if o, ok := l.OutputAt(cx, cy); ok {
		return o, true
	}
	return l.outputs[0], true
}

// Clamp moves a point that fell off every output onto the closest one
func (l *Layout) Clamp(x, y float64) (float64, float64) {
	if len(l.outputs) == 0 {
		return x, y
	}
	if _, ok := l.OutputAt(x, y); ok {
		return x, y
	}
	bestX, bestY := x, y
	best := math.Inf(1)
	for _, o := range l.outputs {
		b := o.LayoutBox()
		cx := math.Min(math.Max(x, float64(b.X)), float64(b.X+b.Width-1))
		cy := math.Min(math.Max(y, float64(b.Y)), float64(b.Y+b.Height-1))
		if d := math.Hypot(cx-x, cy-y); d < best {
			best, bestX, bestY = d, cx, cy
		}
	}
	return bestX, bestY
}

// DamageWholeView damages the view on every output it overlaps
func (l *Layout) DamageWholeView(v *desktop.View) {
	for _, o := range l.outputs {
		o.DamageWholeView(v)
	}
}

// DamagePartialView forwards surface damage to every output
func (l *Layout) DamagePartialView(v *desktop.View) {
	for _, o := range l.outputs {
		o.DamagePartialView(v)
	}
}

// DamageBox damages a layout box on every output
func (l *Layout) DamageBox(b geom.Box) {
	for _, o := range l.outputs {
		o.DamageBox(b)
	}
}

func (l *Layout) DamageWhole() {
	for _, o := range l.outputs {
		o.DamageWhole()
	}
}
