package desktop

import (
	"time"

	"github.com/mstarongithub/theinterface/geom"
)

// Kind tells which protocol a view's surfaces come from
type Kind int

const (
	KindXDG Kind = iota
	KindXWayland
)

func (k Kind) String() string {
	switch k {
	case KindXDG:
		return "xdg"
	case KindXWayland:
		return "xwayland"
	default:
		return "unknown"
	}
}

// Surface is an opaque, comparable handle to a client surface. Providers pick
// the concrete type, the core only ever compares them.
type Surface any

// SubSurface describes one surface of a view's tree during a walk.
// X and Y are relative to the view origin, Damage is surface-local.
type SubSurface struct {
	Surface Surface
	X, Y    int
	Width   int
	Height  int
	Damage  []geom.Box
}

// Box returns the sub-surface rectangle relative to the view origin
func (s SubSurface) Box() geom.Box {
	return geom.Box{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Provider is implemented once per surface protocol. Every call happens on
// the compositor loop.
type Provider interface {
	Kind() Kind
	// Surface returns the main surface of the view
	Surface() Surface
	// SurfaceAt does the precise hit test in view-local coordinates,
	// returning the surface hit and the point in its local coordinates.
	SurfaceAt(sx, sy float64) (Surface, float64, float64, bool)
	Resize(width, height int)
	Configure(x, y, width, height int)
	Activate(active bool)
	Title() string
	ForEachSurface(fn func(SubSurface))
	SendFrameDone(when time.Time)
	// Close politely asks the client to go away
	Close()
}

// Raiser is implemented by providers whose surfaces also live in a stacking
// order of their own, like a scene graph. Raise puts the view above every
// other view of that order.
type Raiser interface {
	Raise()
}
