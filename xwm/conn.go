// Package xwm manages legacy X11 clients running on an Xwayland display.
// Normal windows become decorated views, docks reserving screen space
// become layer surfaces.
package xwm

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/mstarongithub/theinterface/geom"
)

// Attributes of a window the manager cares about before managing it
type Attributes struct {
	OverrideRedirect bool
	Viewable         bool
}

// Strut is the space a dock reserves along each screen edge
type Strut struct {
	Left, Right, Top, Bottom int
}

func (s Strut) Empty() bool {
	return s.Left == 0 && s.Right == 0 && s.Top == 0 && s.Bottom == 0
}

// Conn is the part of the X server the window manager talks to
type Conn interface {
	Root() xproto.Window
	Children() ([]xproto.Window, error)
	Attributes(win xproto.Window) (Attributes, error)
	Geometry(win xproto.Window) (geom.Box, error)
	Title(win xproto.Window) string
	// PID is 0 when the client does not advertise it
	PID(win xproto.Window) int
	Types(win xproto.Window) []string
	Strut(win xproto.Window) (Strut, bool)

	// Manage subscribes to property and structure changes of win
	Manage(win xproto.Window) error
	Forget(win xproto.Window)
	Map(win xproto.Window) error
	Configure(win xproto.Window, box geom.Box) error
	Focus(win xproto.Window) error
	// Close uses WM_DELETE_WINDOW when the client supports it and kills the
	// connection otherwise
	Close(win xproto.Window) error
}

// ConfigureRequest is a client asking to change its own geometry. Mask uses
// the xproto.ConfigWindow bits.
type ConfigureRequest struct {
	Window xproto.Window
	Mask   uint16
	X, Y   int
	Width  int
	Height int
}

// apply merges the fields the client set into box
func (r ConfigureRequest) apply(box geom.Box) geom.Box {
	if r.Mask&xproto.ConfigWindowX != 0 {
		box.X = r.X
	}
	if r.Mask&xproto.ConfigWindowY != 0 {
		box.Y = r.Y
	}
	if r.Mask&xproto.ConfigWindowWidth != 0 && r.Width > 0 {
		box.Width = r.Width
	}
	if r.Mask&xproto.ConfigWindowHeight != 0 && r.Height > 0 {
		box.Height = r.Height
	}
	return box
}
