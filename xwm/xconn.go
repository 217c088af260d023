package xwm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
)

// XConn is a Conn backed by a real X server connection
type XConn struct {
	xu  *xgbutil.XUtil
	log *logrus.Entry

	// set by Events
	manager *Manager
	post    func(func())
}

// ErrEventsConnected is returned when a connection already feeds a manager
var ErrEventsConnected = errors.New("X events already connected to a manager")

var _ Conn = (*XConn)(nil)

// Dial connects to display, or $DISPLAY when it is empty
func Dial(display string) (*XConn, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to X display %q: %w", display, err)
	}
	return &XConn{
		xu:  xu,
		log: logrus.WithField("component", "xwm"),
	}, nil
}

// BecomeManager redirects structure requests on the root window to us. It
// fails when another window manager is running.
func (c *XConn) BecomeManager(name string) error {
	root := xwindow.New(c.xu, c.xu.RootWin())
	err := root.Listen(
		xproto.EventMaskSubstructureRedirect,
		xproto.EventMaskSubstructureNotify,
	)
	if err != nil {
		return fmt.Errorf("another window manager owns the display: %w", err)
	}
	check, err := xwindow.Create(c.xu, c.xu.RootWin())
	if err != nil {
		return err
	}
	return errors.Join(
		ewmh.SupportingWmCheckSet(c.xu, c.xu.RootWin(), check.Id),
		ewmh.SupportingWmCheckSet(c.xu, check.Id, check.Id),
		ewmh.WmNameSet(c.xu, check.Id, name),
	)
}

// Events connects the manager to the X event stream. Every handler goes
// through post so the manager only ever runs on the compositor loop. A
// connection serves a single manager.
func (c *XConn) Events(m *Manager, post func(func()) error) error {
	if c.manager != nil {
		return ErrEventsConnected
	}
	send := func(fn func()) {
		if err := post(fn); err != nil {
			c.log.WithError(err).Debugln("Dropping X event")
		}
	}
	c.manager, c.post = m, send
	root := c.xu.RootWin()
	xevent.MapRequestFun(func(_ *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		send(func() { m.HandleMapRequest(ev.Window) })
	}).Connect(c.xu, root)
	xevent.ConfigureRequestFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		req := ConfigureRequest{
			Window: ev.Window,
			Mask:   ev.ValueMask,
			X:      int(ev.X),
			Y:      int(ev.Y),
			Width:  int(ev.Width),
			Height: int(ev.Height),
		}
		send(func() { m.HandleConfigureRequest(req) })
	}).Connect(c.xu, root)
	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		send(func() { m.HandleUnmap(ev.Window) })
	}).Connect(c.xu, root)
	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		send(func() { m.HandleDestroy(ev.Window) })
	}).Connect(c.xu, root)
	return nil
}

// Main runs the X event loop until Quit
func (c *XConn) Main() {
	xevent.Main(c.xu)
}

func (c *XConn) Quit() {
	xevent.Quit(c.xu)
}

func (c *XConn) Root() xproto.Window {
	return c.xu.RootWin()
}

func (c *XConn) Children() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.xu.Conn(), c.xu.RootWin()).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}

func (c *XConn) Attributes(win xproto.Window) (Attributes, error) {
	attr, err := xproto.GetWindowAttributes(c.xu.Conn(), win).Reply()
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{
		OverrideRedirect: attr.OverrideRedirect,
		Viewable:         attr.MapState == xproto.MapStateViewable,
	}, nil
}

func (c *XConn) Geometry(win xproto.Window) (geom.Box, error) {
	g, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Box{}, err
	}
	return geom.Box{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)}, nil
}

func (c *XConn) Title(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.xu, win); err == nil && name != "" {
		return name
	}
	name, _ := icccm.WmNameGet(c.xu, win)
	return name
}

func (c *XConn) PID(win xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.xu, win)
	if err != nil {
		return 0
	}
	return int(pid)
}

func (c *XConn) Types(win xproto.Window) []string {
	types, _ := ewmh.WmWindowTypeGet(c.xu, win)
	return types
}

// Strut prefers _NET_WM_STRUT_PARTIAL and falls back to _NET_WM_STRUT
func (c *XConn) Strut(win xproto.Window) (Strut, bool) {
	if sp, err := ewmh.WmStrutPartialGet(c.xu, win); err == nil {
		return Strut{Left: int(sp.Left), Right: int(sp.Right), Top: int(sp.Top), Bottom: int(sp.Bottom)}, true
	}
	if s, err := ewmh.WmStrutGet(c.xu, win); err == nil {
		return Strut{Left: int(s.Left), Right: int(s.Right), Top: int(s.Top), Bottom: int(s.Bottom)}, true
	}
	return Strut{}, false
}

func (c *XConn) Manage(win xproto.Window) error {
	err := xwindow.New(c.xu, win).Listen(
		xproto.EventMaskPropertyChange,
		xproto.EventMaskStructureNotify,
	)
	if err != nil || c.manager == nil {
		return err
	}
	m, send := c.manager, c.post
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		send(func() { m.HandleProperty(ev.Window, name) })
	}).Connect(c.xu, win)
	return nil
}

// Forget drops the event handlers of a destroyed window
func (c *XConn) Forget(win xproto.Window) {
	xevent.Detach(c.xu, win)
}

func (c *XConn) Map(win xproto.Window) error {
	return xproto.MapWindowChecked(c.xu.Conn(), win).Check()
}

// Configure moves and resizes win and then tells it so with a synthetic
// ConfigureNotify, which ICCCM clients wait for
func (c *XConn) Configure(win xproto.Window, box geom.Box) error {
	xwindow.New(c.xu, win).MoveResize(box.X, box.Y, box.Width, box.Height)
	ev := xproto.ConfigureNotifyEvent{
		Event:        win,
		Window:       win,
		AboveSibling: xevent.NoWindow,
		X:            int16(box.X),
		Y:            int16(box.Y),
		Width:        uint16(box.Width),
		Height:       uint16(box.Height),
	}
	return xproto.SendEventChecked(c.xu.Conn(), false, win,
		xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

func (c *XConn) Focus(win xproto.Window) error {
	xwindow.New(c.xu, win).Focus()
	return ewmh.ActiveWindowSet(c.xu, win)
}

func (c *XConn) Close(win xproto.Window) error {
	protocols, _ := icccm.WmProtocolsGet(c.xu, win)
	if !slices.Contains(protocols, "WM_DELETE_WINDOW") {
		return xproto.KillClientChecked(c.xu.Conn(), uint32(win)).Check()
	}
	protocolsAtom, err := xprop.Atm(c.xu, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteAtom, err := xprop.Atm(c.xu, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.xu.Conn(), false, win,
		xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// Disconnect closes the connection to the X server
func (c *XConn) Disconnect() {
	c.xu.Conn().Close()
}
