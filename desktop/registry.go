package desktop

import (
	"container/list"
	"math"

	"gioui.org/f32"
	"github.com/google/uuid"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
)

type slot struct {
	view  *View
	gen   uint32
	stack *list.Element
	mru   *list.Element
}

// Registry owns every view. Views live in slots of an arena; the stacking
// and MRU sequences only hold IDs, with the list elements kept per slot so
// that reordering and removal never search.
//
// Both sequences are front-to-back: Front() is the top-most view.
type Registry struct {
	slots []slot
	free  []uint32

	stacking list.List
	mru      list.List

	subscribers []subscriber
	nextToken   int

	log *logrus.Entry
}

func NewRegistry() *Registry {
	r := &Registry{
		log: logrus.WithField("component", "registry"),
	}
	r.stacking.Init()
	r.mru.Init()
	return r
}

// NewView allocates a view for the given provider. It is not part of any
// sequence until Insert.
func (r *Registry) NewView(p Provider, box geom.Box, creds Credentials) *View {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		index = uint32(len(r.slots) - 1)
	}
	s := &r.slots[index]
	s.gen++
	v := &View{
		id:       ID{index: index, gen: s.gen},
		UUID:     uuid.New(),
		provider: p,
		Box:      box,
		Alpha:    1,
		Creds:    creds,
		registry: r,
	}
	s.view = v
	r.log.WithFields(logrus.Fields{
		"view": v.id,
		"kind": p.Kind(),
		"box":  box,
	}).Debugln("New view")
	return v
}

func (r *Registry) slotOf(v *View) (*slot, bool) {
	if v == nil || !v.id.Valid() || int(v.id.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[v.id.index]
	if s.gen != v.id.gen || s.view != v {
		return nil, false
	}
	return s, true
}

// Lookup resolves a weak handle. Handles of removed views never resolve.
func (r *Registry) Lookup(id ID) (*View, bool) {
	if !id.Valid() || int(id.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[id.index]
	if s.gen != id.gen || s.view == nil {
		return nil, false
	}
	return s.view, true
}

// Insert puts the view at the top of the stacking order
func (r *Registry) Insert(v *View) {
	s, ok := r.slotOf(v)
	if !ok {
		r.log.WithField("view", v.ID()).Warnln("Insert of unknown view")
		return
	}
	if s.stack != nil {
		r.stacking.MoveToFront(s.stack)
		return
	}
	s.stack = r.stacking.PushFront(v.id)
}

// PromoteToFront raises the view in the stacking order and, once it has
// been mapped, in the MRU order as well.
func (r *Registry) PromoteToFront(v *View) {
	s, ok := r.slotOf(v)
	if !ok {
		return
	}
	if s.stack != nil {
		r.stacking.MoveToFront(s.stack)
	} else {
		s.stack = r.stacking.PushFront(v.id)
	}
	if !v.everMapped {
		return
	}
	if s.mru == nil {
		s.mru = r.mru.PushFront(v.id)
	} else {
		r.mru.MoveToFront(s.mru)
	}
}

// Map marks the view visible. The first map of a view makes it join the
// MRU sequence at the front.
func (r *Registry) Map(v *View) {
	s, ok := r.slotOf(v)
	if !ok {
		return
	}
	v.mapped = true
	if !v.everMapped {
		v.everMapped = true
		s.mru = r.mru.PushFront(v.id)
	}
	r.emit(Event{Type: EventMapped, View: v.id})
}

// Unmap hides the view. It keeps its place in both sequences.
func (r *Registry) Unmap(v *View) {
	if _, ok := r.slotOf(v); !ok || !v.mapped {
		return
	}
	v.mapped = false
	r.emit(Event{Type: EventUnmapped, View: v.id})
}

// Remove takes the view out of both sequences and frees its slot. Calling it
// again for the same view does nothing and returns false.
func (r *Registry) Remove(v *View) bool {
	s, ok := r.slotOf(v)
	if !ok {
		return false
	}
	if s.stack != nil {
		r.stacking.Remove(s.stack)
		s.stack = nil
	}
	if s.mru != nil {
		r.mru.Remove(s.mru)
		s.mru = nil
	}
	id := v.id
	s.view = nil
	s.gen++
	r.free = append(r.free, id.index)
	v.mapped = false
	v.registry = nil
	r.log.WithField("view", id).Debugln("Removed view")
	r.emit(Event{Type: EventRemoved, View: id})
	return true
}

// InMRU reports whether the view is part of the MRU sequence
func (r *Registry) InMRU(v *View) bool {
	s, ok := r.slotOf(v)
	return ok && s.mru != nil
}

// InStacking reports whether the view is part of the stacking sequence
func (r *Registry) InStacking(v *View) bool {
	s, ok := r.slotOf(v)
	return ok && s.stack != nil
}

// SendToBack demotes the view to the bottom of both sequences
func (r *Registry) SendToBack(v *View) {
	s, ok := r.slotOf(v)
	if !ok {
		return
	}
	if s.stack != nil {
		r.stacking.MoveToBack(s.stack)
	}
	if s.mru != nil {
		r.mru.MoveToBack(s.mru)
	}
}

func (r *Registry) collect(l *list.List) []*View {
	views := make([]*View, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		if v, ok := r.Lookup(e.Value.(ID)); ok {
			views = append(views, v)
		}
	}
	return views
}

// Stacking returns every view in stacking order, top-most first
func (r *Registry) Stacking() []*View {
	return r.collect(&r.stacking)
}

// MRU returns every view that was ever mapped, most recently used first
func (r *Registry) MRU() []*View {
	return r.collect(&r.mru)
}

// FrontMapped returns the most recently used view that is mapped right now
func (r *Registry) FrontMapped() (*View, bool) {
	for e := r.mru.Front(); e != nil; e = e.Next() {
		if v, ok := r.Lookup(e.Value.(ID)); ok && v.mapped {
			return v, true
		}
	}
	return nil, false
}

// Len is the number of live views
func (r *Registry) Len() int {
	return len(r.slots) - len(r.free)
}

// ViewAt finds the top-most mapped view under the layout point x, y, going
// through the MRU sequence front to back. The view's provider makes the
// final call, so transparent or non-rectangular regions fall through to the
// views below.
func (r *Registry) ViewAt(x, y float64) (*View, Surface, float64, float64, bool) {
	for e := r.mru.Front(); e != nil; e = e.Next() {
		v, ok := r.Lookup(e.Value.(ID))
		if !ok || !v.mapped {
			continue
		}
		if !v.Box.RotatedBounds(v.Rotation).Contains(x, y) {
			continue
		}
		lx, ly := viewLocal(v, x, y)
		if surface, sx, sy, ok := v.provider.SurfaceAt(lx, ly); ok {
			return v, surface, sx, sy, true
		}
	}
	return nil, nil, 0, 0, false
}

// viewLocal converts a layout point into view-local coordinates, undoing
// the view rotation around its center.
func viewLocal(v *View, x, y float64) (float64, float64) {
	lx := x - float64(v.Box.X)
	ly := y - float64(v.Box.Y)
	if v.Rotation == 0 {
		return lx, ly
	}
	center := f32.Pt(float32(v.Box.Width)/2, float32(v.Box.Height)/2)
	p := f32.Affine2D{}.Rotate(center, float32(-v.Rotation)).Transform(f32.Pt(float32(lx), float32(ly)))
	return round(float64(p.X)), round(float64(p.Y))
}

// round trims float32 noise off rotated coordinates
func round(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}
