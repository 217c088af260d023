// Package layer places panels, docks, wallpapers and lock screens on their
// output and reserves the screen space they ask for.
package layer

import (
	"fmt"
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/output"
)

type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

const layerCount = 4

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

func (l Layer) valid() bool {
	return l >= LayerBackground && l <= LayerOverlay
}

// Anchor is the set of output edges a surface sticks to
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8

	anchorHorizontal = AnchorLeft | AnchorRight
	anchorVertical   = AnchorTop | AnchorBottom
)

type Margin struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// State is what the client asked for in its last commit
type State struct {
	Layer         Layer  `yaml:"layer"`
	Anchor        Anchor `yaml:"anchor"`
	DesiredWidth  int    `yaml:"desired_width"`
	DesiredHeight int    `yaml:"desired_height"`
	// ExclusiveZone > 0 reserves space, -1 ignores other reservations
	ExclusiveZone       int    `yaml:"exclusive_zone"`
	Margin              Margin `yaml:"margin"`
	KeyboardInteractive bool   `yaml:"keyboard_interactive"`
}

// Client is the protocol object behind a layer surface
type Client interface {
	Namespace() string
	Surface() desktop.Surface
	// SurfaceAt hit-tests in surface-local coordinates
	SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool)
	Configure(width, height int)
	Close()
	ForEachSurface(fn func(desktop.SubSurface))
	SendFrameDone(when time.Time)
}

type Surface struct {
	client Client
	output *output.Output
	state  State

	// geo is in output-local logical coordinates
	geo    geom.Box
	mapped bool
	closed bool
	// placed orders surfaces by their last map or layer change
	placed uint64
}

func (s *Surface) Client() Client {
	return s.client
}

func (s *Surface) Output() *output.Output {
	return s.output
}

func (s *Surface) State() State {
	return s.state
}

func (s *Surface) Mapped() bool {
	return s.mapped
}

func (s *Surface) Closed() bool {
	return s.closed
}

// Geometry is the placement in output-local coordinates
func (s *Surface) Geometry() geom.Box {
	return s.geo
}

// Bounds is the placement in layout coordinates
func (s *Surface) Bounds() geom.Box {
	if s.output == nil {
		return s.geo
	}
	return s.geo.Translate(s.output.X, s.output.Y)
}

func (s *Surface) ForEachSurface(fn func(desktop.SubSurface)) {
	s.client.ForEachSurface(fn)
}

func (s *Surface) SendFrameDone(when time.Time) {
	s.client.SendFrameDone(when)
}

func (s *Surface) String() string {
	return fmt.Sprintf("layer(%s %s %v)", s.client.Namespace(), s.state.Layer, s.geo)
}

var _ output.Drawable = (*Surface)(nil)
