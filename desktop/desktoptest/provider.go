// Package desktoptest provides a scriptable surface provider for tests
package desktoptest

import (
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
)

// Surface is the surface handle handed out by Provider
type Surface struct {
	Name string
}

// Provider is a rectangular provider whose single surface covers the whole
// view. All calls are recorded.
type Provider struct {
	Main     *Surface
	Children []desktop.SubSurface
	Width    int
	Height   int
	Name     string
	ViewKind desktop.Kind

	// Holes are view-local boxes where SurfaceAt misses
	Holes []geom.Box

	Active      bool
	Resizes     [][2]int
	Configures  []geom.Box
	FramesDone  int
	Closed      bool
	PendingDmg  []geom.Box
	Activations []bool
	Raises      int

	// RaiseLog collects the names of raised providers in call order when set
	RaiseLog *[]string
}

func NewProvider(name string, width, height int) *Provider {
	return &Provider{
		Main:   &Surface{Name: name},
		Width:  width,
		Height: height,
		Name:   name,
	}
}

func (p *Provider) Kind() desktop.Kind {
	return p.ViewKind
}

func (p *Provider) Surface() desktop.Surface {
	return p.Main
}

func (p *Provider) SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool) {
	for _, hole := range p.Holes {
		if hole.Contains(sx, sy) {
			return nil, 0, 0, false
		}
	}
	for i := len(p.Children) - 1; i >= 0; i-- {
		c := p.Children[i]
		if c.Box().Contains(sx, sy) {
			return c.Surface, sx - float64(c.X), sy - float64(c.Y), true
		}
	}
	if sx < 0 || sy < 0 || sx >= float64(p.Width) || sy >= float64(p.Height) {
		return nil, 0, 0, false
	}
	return p.Main, sx, sy, true
}

func (p *Provider) Resize(width, height int) {
	p.Width, p.Height = width, height
	p.Resizes = append(p.Resizes, [2]int{width, height})
}

func (p *Provider) Configure(x, y, width, height int) {
	p.Width, p.Height = width, height
	p.Configures = append(p.Configures, geom.Box{X: x, Y: y, Width: width, Height: height})
}

func (p *Provider) Activate(active bool) {
	p.Active = active
	p.Activations = append(p.Activations, active)
}

func (p *Provider) Title() string {
	return p.Name
}

func (p *Provider) ForEachSurface(fn func(desktop.SubSurface)) {
	fn(desktop.SubSurface{
		Surface: p.Main,
		Width:   p.Width,
		Height:  p.Height,
		Damage:  p.PendingDmg,
	})
	for _, c := range p.Children {
		fn(c)
	}
}

func (p *Provider) SendFrameDone(time.Time) {
	p.FramesDone++
}

func (p *Provider) Close() {
	p.Closed = true
}

func (p *Provider) Raise() {
	p.Raises++
	if p.RaiseLog != nil {
		*p.RaiseLog = append(*p.RaiseLog, p.Name)
	}
}
