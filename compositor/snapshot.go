package compositor

import (
	"github.com/mstarongithub/theinterface/common/ipc"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
)

func rect(b geom.Box) ipc.Rect {
	return ipc.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Snapshot describes the current state for inspection. It must run on the
// compositor thread.
func (c *Compositor) Snapshot() ipc.State {
	var state ipc.State
	focused, hasFocus := c.Seat.Focused()
	for _, v := range c.Registry.MRU() {
		state.Views = append(state.Views, ipc.ViewInfo{
			UUID:      v.UUID.String(),
			Title:     v.Title(),
			Kind:      v.Kind().String(),
			Box:       rect(v.Box),
			Mapped:    v.Mapped(),
			Focused:   hasFocus && focused == v,
			Decorated: v.Decorated,
			PID:       v.Creds.PID,
		})
	}
	for _, o := range c.Layout.Outputs() {
		info := ipc.OutputInfo{
			Name:      o.Name(),
			Box:       rect(o.LayoutBox()),
			Usable:    rect(o.Usable()),
			Scale:     o.Scale,
			Transform: o.Transform.String(),
			Mode: ipc.OutputMode{
				Width:       o.Mode.Width,
				Height:      o.Mode.Height,
				RefreshRate: o.Mode.Refresh,
				Preferred:   o.Mode.Preferred,
			},
			FPS: o.FPS(),
		}
		for l := layer.LayerBackground; l <= layer.LayerOverlay; l++ {
			for _, s := range c.Layers.Surfaces(o, l) {
				info.Layers = append(info.Layers, s.String())
			}
		}
		state.Outputs = append(state.Outputs, info)
	}
	x, y := c.Seat.Cursor()
	state.Seat = ipc.SeatInfo{
		Name:    c.Seat.Name(),
		CursorX: x,
		CursorY: y,
		Mode:    c.Seat.Mode().String(),
	}
	if hasFocus {
		state.Seat.Focused = focused.UUID.String()
	}
	if grabbed, ok := c.Seat.Grabbed(); ok {
		state.Seat.Grabbed = grabbed.UUID.String()
	}
	if l := c.Seat.FocusLayer(); l != nil {
		state.Seat.FocusLayer = l.String()
	}
	for _, kb := range c.Seat.Keyboards() {
		state.Seat.Keyboards = append(state.Seat.Keyboards, kb.Name())
	}
	return state
}
