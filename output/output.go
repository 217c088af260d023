// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package output tracks the displays of the compositor, where they sit in the
// layout, which parts of them need a redraw and how a frame is put together.
package output

import (
	"math"
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
)

type Output struct {
	handle Handle
	name   string

	// Position of the top left corner in the layout
	X, Y int
	// Buffer size in device pixels, before the transform
	Width, Height int
	Scale         float64
	Transform     geom.Transform
	Mode          Mode

	Background Color

	// Damage in output-local device pixels, after scaling and before the
	// output transform
	damage geom.Region
	// Usable area in output-local logical coordinates
	usable geom.Box

	fps fpsCounter
	log *logrus.Entry
}

func newOutput(h Handle, scale float64, t geom.Transform) *Output {
	if scale <= 0 {
		scale = 1
	}
	o := &Output{
		handle:    h,
		name:      h.Name(),
		Scale:     scale,
		Transform: t,
		log:       logrus.WithField("output", h.Name()),
	}
	o.Width, o.Height = h.Resolution()
	if mode, ok := pickMode(h); ok {
		o.Mode = mode
		o.Width, o.Height = mode.Width, mode.Height
	}
	o.usable = o.LocalBox()
	return o
}

// pickMode prefers the mode the output flags as preferred, then the first one
func pickMode(h Handle) (Mode, bool) {
	if mode, ok := h.PreferredMode(); ok {
		return mode, true
	}
	if modes := h.Modes(); len(modes) > 0 {
		return modes[0], true
	}
	return Mode{}, false
}

func (o *Output) Name() string {
	return o.name
}

func (o *Output) Handle() Handle {
	return o.handle
}

// EffectiveResolution is the buffer size with the transform applied
func (o *Output) EffectiveResolution() (int, int) {
	if o.Transform.Swaps() {
		return o.Height, o.Width
	}
	return o.Width, o.Height
}

// LocalBox is the output area in output-local logical coordinates
func (o *Output) LocalBox() geom.Box {
	w, h := o.EffectiveResolution()
	return geom.Box{
		Width:  int(math.Ceil(float64(w) / o.Scale)),
		Height: int(math.Ceil(float64(h) / o.Scale)),
	}
}

// LayoutBox is the output area in layout coordinates
func (o *Output) LayoutBox() geom.Box {
	return o.LocalBox().Translate(o.X, o.Y)
}

// Usable is the area left over by exclusive layer surfaces, output-local
func (o *Output) Usable() geom.Box {
	return o.usable
}

func (o *Output) SetUsable(b geom.Box) {
	if b != o.usable {
		o.log.WithField("usable", b).Debugln("Usable area changed")
	}
	o.usable = b
}

// SetResolution reacts to a backend mode change
func (o *Output) SetResolution(width, height int) {
	if width == o.Width && height == o.Height {
		return
	}
	o.Width, o.Height = width, height
	o.DamageWhole()
}

// Damage returns a copy of the pending damage
func (o *Output) Damage() geom.Region {
	return geom.NewRegion(o.damage.Rects()...)
}

func (o *Output) addDamage(b geom.Box) {
	w, h := o.EffectiveResolution()
	o.damage.Add(b.Intersect(geom.Box{Width: w, Height: h}))
}

// DamageWhole marks the entire output dirty
func (o *Output) DamageWhole() {
	w, h := o.EffectiveResolution()
	o.damage.Add(geom.Box{Width: w, Height: h})
}

// DamageBox marks a layout-space box dirty
func (o *Output) DamageBox(b geom.Box) {
	o.addDamage(b.Translate(-o.X, -o.Y).Scale(o.Scale))
}

// toDevice converts a layout box into output-local device pixels and grows
// it to cover the rotation.
func (o *Output) toDevice(b geom.Box, rotation float64) geom.Box {
	return b.Translate(-o.X, -o.Y).Scale(o.Scale).RotatedBounds(rotation)
}

// DamageWholeView marks the whole view, decorations included, plus whatever
// its surfaces reported as changed.
func (o *Output) DamageWholeView(v *desktop.View) {
	o.addDamage(o.toDevice(v.DecoBox(), v.Rotation))
	o.DamagePartialView(v)
}

// DamagePartialView marks only the damage the view's surfaces reported. A
// rotated view damages each changed surface as a whole.
func (o *Output) DamagePartialView(v *desktop.View) {
	v.Provider().ForEachSurface(func(sub desktop.SubSurface) {
		if len(sub.Damage) == 0 {
			return
		}
		surfaceBox := sub.Box().Translate(v.Box.X, v.Box.Y)
		if v.Rotation != 0 {
			o.addDamage(o.toDevice(surfaceBox, v.Rotation))
			return
		}
		for _, d := range sub.Damage {
			o.addDamage(o.toDevice(d.Translate(surfaceBox.X, surfaceBox.Y), 0))
		}
	})
}

// fpsCounter logs the frame rate roughly once a second
type fpsCounter struct {
	start  time.Time
	frames int
	last   float64
}

func (f *fpsCounter) tick(now time.Time, log *logrus.Entry) {
	if f.start.IsZero() {
		f.start = now
	}
	f.frames++
	elapsed := now.Sub(f.start)
	if elapsed < time.Second {
		return
	}
	f.last = float64(f.frames) / elapsed.Seconds()
	log.WithField("fps", math.Round(f.last*10)/10).Debugln("Frame rate")
	f.start = now
	f.frames = 0
}

// FPS returns the rate measured over the last full second
func (o *Output) FPS() float64 {
	return o.fps.last
}
