package xwm

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/sirupsen/logrus"
)

const dockType = "_NET_WM_WINDOW_TYPE_DOCK"

// Host is the compositor side of the window manager
type Host interface {
	NewView(p desktop.Provider, box geom.Box, creds desktop.Credentials) *desktop.View
	MapView(v *desktop.View)
	UnmapView(v *desktop.View)
	DestroyView(v *desktop.View)
	MoveView(v *desktop.View, x, y int)
	ResizeView(v *desktop.View, width, height int)
	TitleChanged(v *desktop.View)

	NewLayerSurface(c layer.Client, st layer.State) (*layer.Surface, error)
	CommitLayerSurface(s *layer.Surface, st layer.State)
	DestroyLayerSurface(s *layer.Surface)
}

// Manager tracks the X windows it manages. All methods run on the
// compositor loop.
type Manager struct {
	conn    Conn
	host    Host
	windows map[xproto.Window]*window
	docks   map[xproto.Window]*dock
	log     *logrus.Entry
}

func NewManager(conn Conn, host Host) *Manager {
	return &Manager{
		conn:    conn,
		host:    host,
		windows: make(map[xproto.Window]*window),
		docks:   make(map[xproto.Window]*dock),
		log:     logrus.WithField("component", "xwm"),
	}
}

// Adopt manages the windows that were already visible before the manager
// started
func (m *Manager) Adopt() error {
	children, err := m.conn.Children()
	if err != nil {
		return err
	}
	for _, win := range children {
		attr, err := m.conn.Attributes(win)
		if err != nil || attr.OverrideRedirect || !attr.Viewable {
			continue
		}
		m.manage(win)
	}
	return nil
}

// View returns the view of a managed window
func (m *Manager) View(win xproto.Window) (*desktop.View, bool) {
	w, ok := m.windows[win]
	if !ok {
		return nil, false
	}
	return w.view, true
}

func (m *Manager) HandleMapRequest(win xproto.Window) {
	if w, ok := m.windows[win]; ok {
		m.mapWindow(w)
		return
	}
	if _, ok := m.docks[win]; ok {
		m.mapRaw(win)
		return
	}
	attr, err := m.conn.Attributes(win)
	if err != nil {
		m.log.WithError(err).WithField("window", win).Debugln("Window vanished before mapping")
		return
	}
	if attr.OverrideRedirect {
		m.mapRaw(win)
		return
	}
	m.manage(win)
}

func (m *Manager) manage(win xproto.Window) {
	box, err := m.conn.Geometry(win)
	if err != nil {
		m.log.WithError(err).WithField("window", win).Debugln("Window vanished before managing")
		return
	}
	log := m.log.WithField("window", win)
	if err := m.conn.Manage(win); err != nil {
		log.WithError(err).Warnln("Failed to watch window")
	}
	if slices.Contains(m.conn.Types(win), dockType) {
		m.manageDock(win, box, log)
		return
	}
	w := &window{
		id:    win,
		conn:  m.conn,
		box:   box,
		title: m.conn.Title(win),
		log:   log,
	}
	w.view = m.host.NewView(w, box, desktop.Credentials{PID: m.conn.PID(win)})
	m.windows[win] = w
	m.mapWindow(w)
}

func (m *Manager) manageDock(win xproto.Window, box geom.Box, log *logrus.Entry) {
	d := &dock{id: win, conn: m.conn, box: box, log: log}
	strut, _ := m.conn.Strut(win)
	s, err := m.host.NewLayerSurface(d, dockState(strut, box))
	if err != nil {
		log.WithError(err).Warnln("Dock rejected")
		return
	}
	d.surface = s
	d.Configure(d.box.Width, d.box.Height)
	m.docks[win] = d
	m.mapRaw(win)
}

func (m *Manager) mapRaw(win xproto.Window) {
	if err := m.conn.Map(win); err != nil {
		m.log.WithError(err).WithField("window", win).Debugln("Map failed")
	}
}

func (m *Manager) mapWindow(w *window) {
	m.mapRaw(w.id)
	m.host.MapView(w.view)
}

// HandleConfigureRequest applies what a client asked for to its own
// geometry. Unmanaged windows get exactly what they asked for.
func (m *Manager) HandleConfigureRequest(req ConfigureRequest) {
	w, ok := m.windows[req.Window]
	if !ok {
		if d, isDock := m.docks[req.Window]; isDock {
			// the arrangement owns dock geometry
			d.Configure(d.box.Width, d.box.Height)
			return
		}
		box, err := m.conn.Geometry(req.Window)
		if err != nil {
			return
		}
		if err := m.conn.Configure(req.Window, req.apply(box)); err != nil {
			m.log.WithError(err).WithField("window", req.Window).Debugln("Configure failed")
		}
		return
	}
	box := req.apply(w.view.Box)
	m.host.ResizeView(w.view, box.Width, box.Height)
	if box.X != w.view.Box.X || box.Y != w.view.Box.Y {
		m.host.MoveView(w.view, box.X, box.Y)
		return
	}
	w.Configure(box.X, box.Y, box.Width, box.Height)
}

func (m *Manager) HandleUnmap(win xproto.Window) {
	if w, ok := m.windows[win]; ok {
		m.host.UnmapView(w.view)
		return
	}
	if d, ok := m.docks[win]; ok {
		m.host.DestroyLayerSurface(d.surface)
		delete(m.docks, win)
		m.conn.Forget(win)
	}
}

func (m *Manager) HandleDestroy(win xproto.Window) {
	if w, ok := m.windows[win]; ok {
		m.host.DestroyView(w.view)
		delete(m.windows, win)
	}
	if d, ok := m.docks[win]; ok {
		m.host.DestroyLayerSurface(d.surface)
		delete(m.docks, win)
	}
	m.conn.Forget(win)
}

// HandleProperty reacts to a changed property, named by its atom
func (m *Manager) HandleProperty(win xproto.Window, name string) {
	switch name {
	case "_NET_WM_NAME", "WM_NAME":
		w, ok := m.windows[win]
		if !ok {
			return
		}
		title := m.conn.Title(win)
		if title == w.title {
			return
		}
		w.title = title
		m.host.TitleChanged(w.view)
	case "_NET_WM_STRUT", "_NET_WM_STRUT_PARTIAL":
		d, ok := m.docks[win]
		if !ok {
			return
		}
		strut, _ := m.conn.Strut(win)
		m.host.CommitLayerSurface(d.surface, dockState(strut, d.box))
	}
}
