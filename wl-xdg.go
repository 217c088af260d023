package main

import (
	"time"

	"github.com/mstarongithub/theinterface/compositor"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

// xdgView provides an xdg toplevel to the core. Its scene tree follows the
// geometry the core decides on.
type xdgView struct {
	toplevel wlroots.XDGTopLevel
	view     *desktop.View
	log      *logrus.Entry
}

var (
	_ desktop.Provider = (*xdgView)(nil)
	_ desktop.Raiser   = (*xdgView)(nil)
)

func (x *xdgView) Kind() desktop.Kind {
	return desktop.KindXDG
}

func (x *xdgView) Surface() desktop.Surface {
	return x.toplevel.Base().Surface()
}

func (x *xdgView) SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool) {
	lx := float64(x.view.Box.X) + sx
	ly := float64(x.view.Box.Y) + sy
	// only this view's tree, popups included, never a view stacked above
	node, nx, ny := x.toplevel.Base().SceneTree().Node().At(lx, ly)
	if node.Nil() || node.Type() != wlroots.SceneNodeBuffer {
		return nil, 0, 0, false
	}
	sceneSurface := node.SceneBuffer().SceneSurface()
	if sceneSurface.Nil() {
		return nil, 0, 0, false
	}
	return sceneSurface.Surface(), nx, ny, true
}

func (x *xdgView) Resize(width, height int) {
	x.toplevel.Base().TopLevelSetSize(uint32(width), uint32(height))
}

func (x *xdgView) Configure(lx, ly, width, height int) {
	x.toplevel.Base().SceneTree().Node().SetPosition(float64(lx), float64(ly))
	x.Resize(width, height)
}

func (x *xdgView) Activate(active bool) {
	x.toplevel.SetActivated(active)
}

// Raise follows the MRU order of the core, which the compositor pushes
// before every frame
func (x *xdgView) Raise() {
	x.toplevel.Base().SceneTree().Node().RaiseToTop()
}

// TODO: read xdg_toplevel.title once go-wlroots exposes it
func (x *xdgView) Title() string {
	return ""
}

func (x *xdgView) ForEachSurface(fn func(desktop.SubSurface)) {
	fn(desktop.SubSurface{
		Surface: x.toplevel.Base().Surface(),
		Width:   x.view.Box.Width,
		Height:  x.view.Box.Height,
	})
}

// SendFrameDone is left to the scene output, which sends frame done to
// every surface it shows
func (x *xdgView) SendFrameDone(time.Time) {}

// TODO: send xdg_toplevel.close once go-wlroots binds
// wlr_xdg_toplevel_send_close
func (x *xdgView) Close() {
	x.log.Warnln("Closing xdg toplevels is not supported yet")
}

func (server *Server) handleNewXDGSurface(xdgSurface wlroots.XDGSurface) {
	defer compositor.Guard(server.log, "new xdg surface")
	server.log.WithField("surface", xdgSurface).Debugln("New surface inbound")

	switch xdgSurface.Role() {
	case wlroots.XDGSurfaceRolePopup:
		// popups hang off the scene tree of their parent and move with it
		parent := xdgSurface.Popup().Parent()
		if parent.Nil() {
			server.log.WithField("surface", xdgSurface).Warnln("Popup without parent")
			return
		}
		xdgSurface.SetData(parent.XDGSurface().SceneTree().NewXDGSurface(xdgSurface))
		return
	case wlroots.XDGSurfaceRoleTopLevel:
	default:
		server.log.WithField("role", xdgSurface.Role()).Warnln("Ignoring xdg surface without role")
		return
	}

	toplevel := xdgSurface.TopLevel()
	xdgSurface.SetData(server.scene.Tree().NewXDGSurface(toplevel.Base()))

	x := &xdgView{
		toplevel: toplevel,
		log:      server.log.WithField("kind", "xdg"),
	}
	x.view = server.comp.NewView(x, geom.Box{}, desktop.Credentials{})

	xdgSurface.OnMap(func(wlroots.XDGSurface) {
		defer compositor.Guard(server.log, "xdg map")
		g := toplevel.Base().Geometry()
		server.comp.ResizeView(x.view, g.Width, g.Height)
		server.comp.MapView(x.view)
	})
	xdgSurface.OnUnmap(func(wlroots.XDGSurface) {
		defer compositor.Guard(server.log, "xdg unmap")
		server.comp.UnmapView(x.view)
	})
	xdgSurface.OnDestroy(func(wlroots.XDGSurface) {
		defer compositor.Guard(server.log, "xdg destroy")
		server.comp.DestroyView(x.view)
	})
	toplevel.OnRequestMove(func(wlroots.SeatClient, uint32) {
		defer compositor.Guard(server.log, "xdg move request")
		server.comp.RequestMove(x.view)
	})
	toplevel.OnRequestResize(func(_ wlroots.SeatClient, _ uint32, edges wlroots.Edges) {
		defer compositor.Guard(server.log, "xdg resize request")
		server.comp.RequestResize(x.view, geom.Edges(edges))
	})
}
