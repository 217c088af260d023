package geom

// Region is a set of rectangles. It does not try to be minimal, only
// covering: every point added stays covered until Clear.
type Region struct {
	rects []Box
}

// NewRegion builds a region out of the given boxes
func NewRegion(boxes ...Box) Region {
	var r Region
	for _, b := range boxes {
		r.Add(b)
	}
	return r
}

// Add unions b into the region. Adding a box that is already covered by a
// single member does nothing, so repeated adds of the same box are idempotent.
func (r *Region) Add(b Box) {
	if b.Empty() {
		return
	}
	for _, existing := range r.rects {
		if existing.ContainsBox(b) {
			return
		}
	}
	kept := r.rects[:0]
	for _, existing := range r.rects {
		if !b.ContainsBox(existing) {
			kept = append(kept, existing)
		}
	}
	r.rects = append(kept, b)
}

// AddRegion unions every rectangle of o into r
func (r *Region) AddRegion(o Region) {
	for _, b := range o.rects {
		r.Add(b)
	}
}

func (r *Region) Clear() {
	r.rects = nil
}

func (r Region) Empty() bool {
	return len(r.rects) == 0
}

// Rects returns a copy of the member rectangles
func (r Region) Rects() []Box {
	out := make([]Box, len(r.rects))
	copy(out, r.rects)
	return out
}

// Extents returns the bounding box of the region
func (r Region) Extents() Box {
	if r.Empty() {
		return Box{}
	}
	x1, y1 := r.rects[0].X, r.rects[0].Y
	x2, y2 := x1+r.rects[0].Width, y1+r.rects[0].Height
	for _, b := range r.rects[1:] {
		x1 = min(x1, b.X)
		y1 = min(y1, b.Y)
		x2 = max(x2, b.X+b.Width)
		y2 = max(y2, b.Y+b.Height)
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersects reports whether any rectangle of the region overlaps b
func (r Region) Intersects(b Box) bool {
	for _, existing := range r.rects {
		if existing.Overlaps(b) {
			return true
		}
	}
	return false
}

// IntersectBox clips the region to b
func (r Region) IntersectBox(b Box) Region {
	var out Region
	for _, existing := range r.rects {
		out.Add(existing.Intersect(b))
	}
	return out
}

// Transform applies an output transform to every rectangle
func (r Region) Transform(t Transform, width, height int) Region {
	var out Region
	for _, existing := range r.rects {
		out.Add(existing.Transform(t, width, height))
	}
	return out
}

// Equal reports whether both regions hold the same rectangles in any order
func (r Region) Equal(o Region) bool {
	if len(r.rects) != len(o.rects) {
		return false
	}
	for _, a := range r.rects {
		found := false
		for _, b := range o.rects {
			if a == b {
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

// Scale converts every rectangle from logical to device units
func (r Region) Scale(factor float64) Region {
	var out Region
	for _, existing := range r.rects {
		out.Add(existing.Scale(factor))
	}
	return out
}
