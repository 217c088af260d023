package xwm

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/sirupsen/logrus"
)

// dock is a panel style X window. It sits in the top layer and reserves its
// strut.
type dock struct {
	id      xproto.Window
	conn    Conn
	box     geom.Box
	surface *layer.Surface
	log     *logrus.Entry
}

var _ layer.Client = (*dock)(nil)

// dockState turns a strut into a layer request. Only the first reserved edge
// is honoured, in top, bottom, left, right order. Docks without a strut keep
// their own size at the top edge and reserve nothing.
func dockState(s Strut, box geom.Box) layer.State {
	st := layer.State{Layer: layer.LayerTop}
	switch {
	case s.Top > 0:
		st.Anchor = layer.AnchorTop | layer.AnchorLeft | layer.AnchorRight
		st.DesiredHeight = s.Top
		st.ExclusiveZone = s.Top
	case s.Bottom > 0:
		st.Anchor = layer.AnchorBottom | layer.AnchorLeft | layer.AnchorRight
		st.DesiredHeight = s.Bottom
		st.ExclusiveZone = s.Bottom
	case s.Left > 0:
		st.Anchor = layer.AnchorLeft | layer.AnchorTop | layer.AnchorBottom
		st.DesiredWidth = s.Left
		st.ExclusiveZone = s.Left
	case s.Right > 0:
		st.Anchor = layer.AnchorRight | layer.AnchorTop | layer.AnchorBottom
		st.DesiredWidth = s.Right
		st.ExclusiveZone = s.Right
	default:
		st.Anchor = layer.AnchorTop
		st.DesiredWidth = box.Width
		st.DesiredHeight = box.Height
	}
	return st
}

func (d *dock) Namespace() string {
	return "xwayland-dock"
}

func (d *dock) Surface() desktop.Surface {
	return d.id
}

func (d *dock) SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool) {
	if sx < 0 || sy < 0 || sx >= float64(d.box.Width) || sy >= float64(d.box.Height) {
		return nil, 0, 0, false
	}
	return d.id, sx, sy, true
}

// Configure gives the dock the size the layer arrangement picked. The
// position follows once the surface is placed.
func (d *dock) Configure(width, height int) {
	d.box.Width, d.box.Height = width, height
	if d.surface != nil {
		b := d.surface.Bounds()
		d.box.X, d.box.Y = b.X, b.Y
	}
	if err := d.conn.Configure(d.id, d.box); err != nil {
		d.log.WithError(err).Debugln("Configure failed")
	}
}

func (d *dock) Close() {
	if err := d.conn.Close(d.id); err != nil {
		d.log.WithError(err).Warnln("Failed to close dock")
	}
}

func (d *dock) ForEachSurface(fn func(desktop.SubSurface)) {
	fn(desktop.SubSurface{Surface: d.id, Width: d.box.Width, Height: d.box.Height})
}

func (d *dock) SendFrameDone(time.Time) {}
