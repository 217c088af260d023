package layer

import (
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
)

// exclusiveEdge describes how a reservation against one output edge shrinks
// the usable area
type exclusiveEdge struct {
	singular Anchor
	triplet  Anchor
	// grow moves the origin, shrink reduces the extent
	grow   func(b *geom.Box, n int)
	shrink func(b *geom.Box, n int)
	margin func(m Margin) int
}

var exclusiveEdges = []exclusiveEdge{
	{
		singular: AnchorTop,
		triplet:  AnchorLeft | AnchorRight | AnchorTop,
		grow:     func(b *geom.Box, n int) { b.Y += n },
		shrink:   func(b *geom.Box, n int) { b.Height -= n },
		margin:   func(m Margin) int { return m.Top },
	},
	{
		singular: AnchorBottom,
		triplet:  AnchorLeft | AnchorRight | AnchorBottom,
		shrink:   func(b *geom.Box, n int) { b.Height -= n },
		margin:   func(m Margin) int { return m.Bottom },
	},
	{
		singular: AnchorLeft,
		triplet:  AnchorTop | AnchorBottom | AnchorLeft,
		grow:     func(b *geom.Box, n int) { b.X += n },
		shrink:   func(b *geom.Box, n int) { b.Width -= n },
		margin:   func(m Margin) int { return m.Left },
	},
	{
		singular: AnchorRight,
		triplet:  AnchorTop | AnchorBottom | AnchorRight,
		shrink:   func(b *geom.Box, n int) { b.Width -= n },
		margin:   func(m Margin) int { return m.Right },
	},
}

// applyExclusive shrinks usable by the zone of a surface anchored to exactly
// one edge, or to one edge and both of its neighbours. Other anchorings do
// not reserve anything.
func applyExclusive(usable *geom.Box, st State) {
	if st.ExclusiveZone <= 0 {
		return
	}
	for _, edge := range exclusiveEdges {
		if st.Anchor != edge.singular && st.Anchor != edge.triplet {
			continue
		}
		n := st.ExclusiveZone + edge.margin(st.Margin)
		if n <= 0 {
			continue
		}
		if edge.grow != nil {
			edge.grow(usable, n)
		}
		edge.shrink(usable, n)
		return
	}
}

// place computes where a surface goes inside bounds. ok is false when the
// request cannot be satisfied and the surface has to be closed.
func place(st State, bounds geom.Box) (geom.Box, bool) {
	if st.DesiredWidth < 0 || st.DesiredHeight < 0 {
		return geom.Box{}, false
	}
	if st.DesiredWidth == 0 && st.Anchor&anchorHorizontal != anchorHorizontal {
		return geom.Box{}, false
	}
	if st.DesiredHeight == 0 && st.Anchor&anchorVertical != anchorVertical {
		return geom.Box{}, false
	}
	box := geom.Box{Width: st.DesiredWidth, Height: st.DesiredHeight}

	switch {
	case box.Width == 0:
		box.X = bounds.X
	case st.Anchor&anchorHorizontal == anchorHorizontal:
		box.X = bounds.X + (bounds.Width/2 - box.Width/2)
	case st.Anchor&AnchorLeft != 0:
		box.X = bounds.X
	case st.Anchor&AnchorRight != 0:
		box.X = bounds.X + (bounds.Width - box.Width)
	default:
		box.X = bounds.X + (bounds.Width/2 - box.Width/2)
	}
	switch {
	case box.Height == 0:
		box.Y = bounds.Y
	case st.Anchor&anchorVertical == anchorVertical:
		box.Y = bounds.Y + (bounds.Height/2 - box.Height/2)
	case st.Anchor&AnchorTop != 0:
		box.Y = bounds.Y
	case st.Anchor&AnchorBottom != 0:
		box.Y = bounds.Y + (bounds.Height - box.Height)
	default:
		box.Y = bounds.Y + (bounds.Height/2 - box.Height/2)
	}

	m := st.Margin
	switch {
	case st.Anchor&anchorHorizontal == anchorHorizontal:
		box.X = bounds.X + m.Left
		box.Width = bounds.Width - (m.Left + m.Right)
	case st.Anchor&AnchorLeft != 0:
		box.X += m.Left
	case st.Anchor&AnchorRight != 0:
		box.X -= m.Right
	}
	switch {
	case st.Anchor&anchorVertical == anchorVertical:
		box.Y = bounds.Y + m.Top
		box.Height = bounds.Height - (m.Top + m.Bottom)
	case st.Anchor&AnchorTop != 0:
		box.Y += m.Top
	case st.Anchor&AnchorBottom != 0:
		box.Y -= m.Bottom
	}

	if box.Width < 0 || box.Height < 0 {
		return geom.Box{}, false
	}
	return box, true
}

// arrangeLayer places either the exclusive or the non-exclusive surfaces of
// one layer. Exclusive surfaces shrink usable as they are placed.
func (sh *Shell) arrangeLayer(surfaces []*Surface, full geom.Box, usable *geom.Box, exclusive bool) {
	for _, s := range surfaces {
		if s.closed || (s.state.ExclusiveZone > 0) != exclusive {
			continue
		}
		bounds := *usable
		if s.state.ExclusiveZone == -1 {
			bounds = full
		}
		box, ok := place(s.state, bounds)
		if !ok {
			sh.log.WithFields(logrus.Fields{
				"surface": s,
				"state":   s.state,
				"bounds":  bounds,
			}).Warnln("Layer surface has an impossible size, closing it")
			sh.close(s)
			continue
		}
		if box != s.geo && s.mapped {
			sh.damage.DamageBox(s.Bounds())
		}
		s.geo = box
		if s.mapped {
			sh.damage.DamageBox(s.Bounds())
		}
		if exclusive {
			applyExclusive(usable, s.state)
		}
		s.client.Configure(box.Width, box.Height)
	}
}
