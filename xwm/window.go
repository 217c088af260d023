package xwm

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
)

// window is a managed top level X window. Its surface handle is the X
// window id.
type window struct {
	id    xproto.Window
	conn  Conn
	box   geom.Box
	title string
	view  *desktop.View
	log   *logrus.Entry
}

var _ desktop.Provider = (*window)(nil)

func (w *window) Kind() desktop.Kind {
	return desktop.KindXWayland
}

func (w *window) Surface() desktop.Surface {
	return w.id
}

func (w *window) SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool) {
	if sx < 0 || sy < 0 || sx >= float64(w.box.Width) || sy >= float64(w.box.Height) {
		return nil, 0, 0, false
	}
	return w.id, sx, sy, true
}

func (w *window) Resize(width, height int) {
	w.Configure(w.box.X, w.box.Y, width, height)
}

func (w *window) Configure(x, y, width, height int) {
	w.box = geom.Box{X: x, Y: y, Width: width, Height: height}
	if err := w.conn.Configure(w.id, w.box); err != nil {
		w.log.WithError(err).Debugln("Configure failed")
	}
}

func (w *window) Activate(active bool) {
	if !active {
		return
	}
	if err := w.conn.Focus(w.id); err != nil {
		w.log.WithError(err).Debugln("Focus failed")
	}
}

func (w *window) Title() string {
	return w.title
}

// ForEachSurface reports the window as a single surface. X gives no damage
// information without the DAMAGE extension, so commits damage the whole view.
func (w *window) ForEachSurface(fn func(desktop.SubSurface)) {
	fn(desktop.SubSurface{
		Surface: w.id,
		Width:   w.box.Width,
		Height:  w.box.Height,
	})
}

// X clients have no frame callbacks
func (w *window) SendFrameDone(time.Time) {}

func (w *window) Close() {
	if err := w.conn.Close(w.id); err != nil {
		w.log.WithError(err).Warnln("Failed to close X window")
	}
}
