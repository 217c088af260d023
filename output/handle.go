package output

import (
	"fmt"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
)

// Mode is one video mode an output supports
type Mode struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Refresh rate in millihertz
	Refresh   int  `yaml:"refresh"`
	Preferred bool `yaml:"preferred"`
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d@%d", m.Width, m.Height, m.Refresh)
}

// FixedGeometry is implemented by handles whose backend applies scale and
// transform itself. The layout keeps such outputs at scale 1, normal.
type FixedGeometry interface {
	FixedGeometry() bool
}

// Handle is the backend side of one output
type Handle interface {
	Name() string
	Modes() []Mode
	PreferredMode() (Mode, bool)
	// Resolution is the current buffer size in device pixels
	Resolution() (width, height int)
	// NeedsFrame reports a pending swap that has to be committed even
	// without any damage.
	NeedsFrame() bool
	// Commit presents the frame. Damage is in buffer coordinates.
	Commit(damage geom.Region) error
	HardwareCursor() bool
	// RenderSoftwareCursors draws the cursor when no cursor plane exists.
	// Damage is in buffer coordinates.
	RenderSoftwareCursors(damage geom.Region)
}

// Color is premultiplied RGBA
type Color [4]float32

// Texture is whatever the renderer uses to sample a client buffer
type Texture any

// Renderer draws one frame into the buffer of the output passed to Begin
type Renderer interface {
	Begin(width, height int)
	// Scissor limits drawing to box, in buffer coordinates. Nil resets it.
	Scissor(box *geom.Box)
	Clear(c Color)
	Texture(s desktop.Surface) (Texture, bool)
	RenderTexture(tex Texture, m geom.Matrix, alpha float32)
	RenderQuad(c Color, m geom.Matrix)
	End()
}
