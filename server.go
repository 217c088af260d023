package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mstarongithub/theinterface/compositor"
	"github.com/mstarongithub/theinterface/config"
	"github.com/mstarongithub/theinterface/seat"
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/swaywm/go-wlroots/xkb"
	"golang.org/x/sys/unix"
)

// Size wlroots gives nested outputs that come without modes
const (
	fallbackWidth  = 1280
	fallbackHeight = 720
)

type Server struct {
	display     wlroots.Display
	backend     wlroots.Backend
	renderer    wlroots.Renderer
	allocator   wlroots.Allocator
	scene       wlroots.Scene
	sceneLayout wlroots.SceneOutputLayout

	xdgShell wlroots.XDGShell

	cursor    wlroots.Cursor
	cursorMgr wlroots.XCursorManager

	seat      wlroots.Seat
	keyboards []*wlKeyboard

	outputLayout wlroots.OutputLayout
	outputs      map[wlroots.Output]*wlOutput

	comp      *compositor.Compositor
	conf      *config.Config
	hwCursors bool
	log       *logrus.Entry
}

func (server *Server) handleNewPointer(dev wlroots.InputDevice) {
	server.cursor.AttachInputDevice(dev)
	server.comp.Seat.AddPointer()
}

func (server *Server) handleNewKeyboard(dev wlroots.InputDevice) {
	keyboard := dev.Keyboard()

	// default XKB keymap, layout "us" unless XKB_DEFAULT_* say otherwise
	context := xkb.NewContext(xkb.KeySymFlagNoFlags)
	keymap := context.KeyMap()
	keyboard.SetKeymap(keymap)
	keymap.Destroy()
	context.Destroy()
	keyboard.SetRepeatInfo(server.conf.Keyboard.RepeatRate, server.conf.Keyboard.RepeatDelay)

	kb := &wlKeyboard{
		dev:  dev,
		name: fmt.Sprintf("keyboard%d", len(server.keyboards)),
	}
	keyboard.OnModifiers(func(wlroots.Keyboard) {
		defer compositor.Guard(server.log, "keyboard modifiers")
		server.comp.Seat.RouteModifiers(kb)
	})
	keyboard.OnKey(func(keyboard wlroots.Keyboard, time uint32, keyCode uint32, _ bool, state wlroots.KeyState) {
		defer compositor.Guard(server.log, "keyboard key")
		// libinput keycodes are offset by 8 in xkb
		xkbSyms := keyboard.XKBState().Syms(xkb.KeyCode(keyCode + 8))
		syms := make([]seat.KeySym, len(xkbSyms))
		for i, sym := range xkbSyms {
			syms[i] = seat.KeySym(sym)
		}
		server.comp.Seat.RouteKey(kb, time, keyCode, syms, seat.Modifier(keyboard.Modifiers()), seat.KeyState(state))
	})

	server.seat.SetKeyboard(dev)
	server.keyboards = append(server.keyboards, kb)
	server.comp.Seat.AddKeyboard(kb)
}

func (server *Server) handleNewInput(dev wlroots.InputDevice) {
	defer compositor.Guard(server.log, "new input")
	switch dev.Type() {
	case wlroots.InputDeviceTypePointer:
		server.handleNewPointer(dev)
	case wlroots.InputDeviceTypeKeyboard:
		server.handleNewKeyboard(dev)
	}
}

func (server *Server) handleFrame(o wlroots.Output) {
	defer compositor.Guard(server.log, "output frame")
	h, ok := server.outputs[o]
	if !ok {
		return
	}
	now := time.Now()
	if _, err := server.comp.RenderFrame(h.core, now); err != nil {
		server.log.WithError(err).WithField("output", o.Name()).Warnln("Frame failed")
	}
	if sOut, err := server.scene.SceneOutput(o); err == nil {
		sOut.SendFrameDone(now)
	}
}

func (server *Server) handleOutputRequestState(o wlroots.Output, state wlroots.OutputState) {
	server.log.WithField("output", o.Name()).Debugln("New state request for output")
	o.CommitState(state)
}

func (server *Server) handleOutputDestroy(o wlroots.Output) {
	defer compositor.Guard(server.log, "output destroy")
	h, ok := server.outputs[o]
	if !ok {
		return
	}
	server.log.WithField("name", o.Name()).Debugln("Output getting destroyed")
	delete(server.outputs, o)
	server.comp.RemoveOutput(h.core)
}

func (server *Server) handleNewOutput(o wlroots.Output) {
	defer compositor.Guard(server.log, "new output")
	server.log.WithField("name", o.Name()).Debugln("New output added")

	o.InitRender(server.allocator, server.renderer)

	oState := wlroots.NewOutputState()
	oState.StateInit()
	oState.StateSetEnabled(true)

	h := &wlOutput{
		output:   o,
		scene:    server.scene,
		width:    fallbackWidth,
		height:   fallbackHeight,
		hwCursor: server.hwCursors,
	}
	// nested backends have no modes
	if mode, err := o.PrefferedMode(); err == nil {
		oState.SetMode(mode)
		h.width, h.height = int(mode.Width()), int(mode.Height())
	}
	o.CommitState(oState)
	oState.Finish()

	o.OnFrame(server.handleFrame)
	o.OnRequestState(server.handleOutputRequestState)
	o.OnDestroy(server.handleOutputDestroy)

	lOutput := server.outputLayout.AddOutputAuto(o)
	sceneOutput := server.scene.NewOutput(o)
	server.sceneLayout.AddOutput(lOutput, sceneOutput)

	h.core = server.comp.AddOutput(h)
	server.outputs[o] = h

	if err := o.SetTitle(fmt.Sprintf("theinterface - %s", o.Name())); err != nil {
		server.log.WithError(err).Debugln("Output has no title to set")
	}
}

func (server *Server) handleCursorMotion(dev wlroots.InputDevice, time uint32, dx float64, dy float64) {
	defer compositor.Guard(server.log, "cursor motion")
	server.cursor.Move(dev, dx, dy)
	server.comp.Seat.RouteMotion(server.cursor.X(), server.cursor.Y(), time)
}

func (server *Server) handleCursorMotionAbsolute(dev wlroots.InputDevice, time uint32, x float64, y float64) {
	defer compositor.Guard(server.log, "cursor motion")
	server.cursor.WarpAbsolute(dev, x, y)
	server.comp.Seat.RouteMotion(server.cursor.X(), server.cursor.Y(), time)
}

func (server *Server) handleSetCursorRequest(client wlroots.SeatClient, surface wlroots.Surface, _ uint32, hotspotX int32, hotspotY int32) {
	defer compositor.Guard(server.log, "set cursor")
	server.comp.Seat.RequestSetCursor(client, surface, hotspotX, hotspotY)
}

func (server *Server) handleCursorButton(_ wlroots.InputDevice, time uint32, button uint32, state wlroots.ButtonState) {
	defer compositor.Guard(server.log, "cursor button")
	server.comp.Seat.RouteButton(time, button, seat.ButtonState(state))
}

func (server *Server) handleCursorAxis(_ wlroots.InputDevice, time uint32, source wlroots.AxisSource, orientation wlroots.AxisOrientation, delta float64, deltaDiscrete int32) {
	defer compositor.Guard(server.log, "cursor axis")
	server.comp.Seat.RouteAxis(time, seat.AxisOrientation(orientation), delta, deltaDiscrete, seat.AxisSource(source))
}

func (server *Server) handleCursorFrame() {
	defer compositor.Guard(server.log, "cursor frame")
	server.comp.Seat.RouteFrame()
	// outputs stop sending frames while nothing changes
	server.comp.Loop.Drain()
}

// Outputs returns the backend outputs seen so far
func (server *Server) Outputs() []wlroots.Output {
	outputs := make([]wlroots.Output, 0, len(server.outputs))
	for o := range server.outputs {
		outputs = append(outputs, o)
	}
	return outputs
}

// Terminate makes Run return
func (server *Server) Terminate() {
	server.display.Terminate()
}

const vtActivate = 0x5606

// ChangeVT asks the kernel console to switch to vt. The session notices the
// switch and pauses the backend on its own.
func (server *Server) ChangeVT(vt int) error {
	tty, err := os.OpenFile("/dev/tty0", os.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("opening console: %w", err)
	}
	defer tty.Close()
	if err := unix.IoctlSetInt(int(tty.Fd()), vtActivate, vt); err != nil {
		return fmt.Errorf("activating vt %d: %w", vt, err)
	}
	return nil
}

func NewServer(conf *config.Config, hwCursors bool) (server *Server, err error) {
	server = &Server{
		conf:      conf,
		hwCursors: hwCursors,
		outputs:   map[wlroots.Output]*wlOutput{},
		log:       logrus.WithField("component", "wlroots"),
	}

	server.display = wlroots.NewDisplay()

	server.backend, err = server.display.BackendAutocreate()
	if err != nil {
		return nil, err
	}

	server.renderer, err = server.backend.RendererAutoCreate()
	if err != nil {
		return nil, err
	}
	server.renderer.InitDisplay(server.display)

	server.allocator, err = server.backend.AllocatorAutocreate(server.renderer)
	if err != nil {
		return nil, err
	}

	server.display.CompositorCreate(5, server.renderer)
	server.display.SubCompositorCreate()
	server.display.DataDeviceManagerCreate()

	server.outputLayout = wlroots.NewOutputLayout()
	server.backend.OnNewOutput(server.handleNewOutput)

	// the scene graph draws and tracks damage, the core only decides
	// placement, focus and stacking
	server.scene = wlroots.NewScene()
	server.sceneLayout = server.scene.AttachOutputLayout(server.outputLayout)

	server.seat = server.display.SeatCreate("seat0")
	server.cursor = wlroots.NewCursor()
	server.cursor.AttachOutputLayout(server.outputLayout)
	server.cursorMgr = wlroots.NewXCursorManager(conf.Cursor.Theme, conf.Cursor.Size)

	server.comp = compositor.New(conf, server, &wlSeat{server: server}, sceneRenderer{})

	server.xdgShell = server.display.XDGShellCreate(3)
	server.xdgShell.OnNewSurface(server.handleNewXDGSurface)

	server.cursor.OnMotion(server.handleCursorMotion)
	server.cursor.OnMotionAbsolute(server.handleCursorMotionAbsolute)
	server.cursor.OnButton(server.handleCursorButton)
	server.cursor.OnAxis(server.handleCursorAxis)
	server.cursor.OnFrame(server.handleCursorFrame)
	server.cursorMgr.Load(1)

	server.backend.OnNewInput(server.handleNewInput)
	server.seat.OnSetCursorRequest(server.handleSetCursorRequest)

	return
}

// Start opens the Wayland socket and the backend. Children started
// afterwards connect to the new display.
func (server *Server) Start() error {
	socket, err := server.display.AddSocketAuto()
	if err != nil {
		server.backend.Destroy()
		return err
	}
	logrus.WithField("socket", socket).Debugln("got wl socket")
	if err = server.backend.Start(); err != nil {
		server.backend.Destroy()
		server.display.Destroy()
		return err
	}

	if res := os.Getenv("WAYLAND_DISPLAY"); res != "" {
		logrus.WithField("WAYLAND_DISPLAY", res).Debugln("Wayland display already set, overwriting")
	}
	if err = os.Setenv("WAYLAND_DISPLAY", socket); err != nil {
		return err
	}
	server.comp.Procs.Display = socket

	logrus.WithField("WAYLAND_DISPLAY", socket).Infoln("Running Wayland compositor")
	return nil
}

// Run blocks in the Wayland event loop until Terminate and tears everything
// down afterwards
func (server *Server) Run() error {
	server.display.Run()
	server.Destroy()
	return nil
}

// Destroy tears the server down without running the event loop
func (server *Server) Destroy() {
	server.display.DestroyClients()
	server.comp.Close()
	server.scene.Tree().Node().Destroy()
	server.cursorMgr.Destroy()
	server.outputLayout.Destroy()
	server.display.Destroy()
}
