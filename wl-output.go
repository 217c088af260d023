package main

import (
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/output"
	"github.com/swaywm/go-wlroots/wlroots"
)

// wlOutput is the core's view of a wlroots output. Pixels come from the scene
// graph, the core frame only settles damage, frame callbacks and the FPS
// counter.
type wlOutput struct {
	output        wlroots.Output
	scene         wlroots.Scene
	width, height int
	hwCursor      bool
	core          *output.Output
}

var (
	_ output.Handle        = (*wlOutput)(nil)
	_ output.FixedGeometry = (*wlOutput)(nil)
)

// FixedGeometry is true since the wlroots layout auto-places outputs at
// scale 1. Positions on both sides only agree that way.
func (h *wlOutput) FixedGeometry() bool {
	return true
}

func (h *wlOutput) Name() string {
	return h.output.Name()
}

func (h *wlOutput) Modes() []output.Mode {
	wlModes := h.output.Modes()
	modes := make([]output.Mode, 0, len(wlModes))
	for _, m := range wlModes {
		modes = append(modes, output.Mode{
			Width:     int(m.Width()),
			Height:    int(m.Height()),
			Refresh:   int(m.Refresh()),
			Preferred: m.Preferred(),
		})
	}
	return modes
}

func (h *wlOutput) PreferredMode() (output.Mode, bool) {
	m, err := h.output.PrefferedMode()
	if err != nil {
		return output.Mode{}, false
	}
	return output.Mode{
		Width:     int(m.Width()),
		Height:    int(m.Height()),
		Refresh:   int(m.Refresh()),
		Preferred: true,
	}, true
}

func (h *wlOutput) Resolution() (int, int) {
	return h.width, h.height
}

// NeedsFrame is always true, the scene output decides on its own whether
// anything changed
func (h *wlOutput) NeedsFrame() bool {
	return true
}

func (h *wlOutput) Commit(geom.Region) error {
	sOut, err := h.scene.SceneOutput(h.output)
	if err != nil {
		return err
	}
	sOut.Commit()
	return nil
}

func (h *wlOutput) HardwareCursor() bool {
	return h.hwCursor
}

// RenderSoftwareCursors is handled by wlr_output when no cursor plane exists
func (h *wlOutput) RenderSoftwareCursors(geom.Region) {}

// sceneRenderer satisfies the core renderer while the scene graph does the
// drawing
type sceneRenderer struct{}

var _ output.Renderer = sceneRenderer{}

func (sceneRenderer) Begin(int, int)                       {}
func (sceneRenderer) Scissor(*geom.Box)                    {}
func (sceneRenderer) Clear(output.Color)                   {}
func (sceneRenderer) RenderQuad(output.Color, geom.Matrix) {}
func (sceneRenderer) End()                                 {}

func (sceneRenderer) Texture(s desktop.Surface) (output.Texture, bool) {
	return s, true
}

func (sceneRenderer) RenderTexture(output.Texture, geom.Matrix, float32) {}
