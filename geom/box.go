// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package geom holds the axis-aligned rectangle math shared by every other
// package. Nothing in here keeps state.
package geom

import (
	"fmt"
	"image"
	"math"

	"gioui.org/f32"
)

// Box is an axis-aligned rectangle. Depending on context it is in layout
// (logical) coordinates or in output device pixels.
type Box struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (b Box) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
}

// Empty reports whether the box covers no area
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains reports whether the point lies inside the box. The right and
// bottom edges are exclusive.
func (b Box) Contains(x, y float64) bool {
	if b.Empty() {
		return false
	}
	return x >= float64(b.X) && x < float64(b.X+b.Width) &&
		y >= float64(b.Y) && y < float64(b.Y+b.Height)
}

// ContainsBox reports whether o lies completely inside b
func (b Box) ContainsBox(o Box) bool {
	if o.Empty() {
		return true
	}
	if b.Empty() {
		return false
	}
	return o.X >= b.X && o.Y >= b.Y &&
		o.X+o.Width <= b.X+b.Width && o.Y+o.Height <= b.Y+b.Height
}

// Intersect returns the overlap of both boxes, or the zero box
func (b Box) Intersect(o Box) Box {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Box{}
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Overlaps reports whether the boxes share any area
func (b Box) Overlaps(o Box) bool {
	return !b.Intersect(o).Empty()
}

// Translate moves the box by the given offset
func (b Box) Translate(dx, dy int) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Scale converts a logical box to device pixels. The origin is floored and
// the far edge ceiled so that the result always covers the input.
func (b Box) Scale(factor float64) Box {
	if factor == 1 {
		return b
	}
	x1 := math.Floor(float64(b.X) * factor)
	y1 := math.Floor(float64(b.Y) * factor)
	x2 := math.Ceil(float64(b.X+b.Width) * factor)
	y2 := math.Ceil(float64(b.Y+b.Height) * factor)
	return Box{X: int(x1), Y: int(y1), Width: int(x2 - x1), Height: int(y2 - y1)}
}

// RotatedBounds returns the smallest box that contains b rotated by rotation
// radians around its own center.
func (b Box) RotatedBounds(rotation float64) Box {
	if rotation == 0 || b.Empty() {
		return b
	}
	center := f32.Pt(float32(b.X)+float32(b.Width)/2, float32(b.Y)+float32(b.Height)/2)
	rot := f32.Affine2D{}.Rotate(center, float32(rotation))
	corners := [4]f32.Point{
		f32.Pt(float32(b.X), float32(b.Y)),
		f32.Pt(float32(b.X+b.Width), float32(b.Y)),
		f32.Pt(float32(b.X), float32(b.Y+b.Height)),
		f32.Pt(float32(b.X+b.Width), float32(b.Y+b.Height)),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := rot.Transform(c)
		minX = math.Min(minX, float64(p.X))
		minY = math.Min(minY, float64(p.Y))
		maxX = math.Max(maxX, float64(p.X))
		maxY = math.Max(maxY, float64(p.Y))
	}
	x := math.Floor(minX)
	y := math.Floor(minY)
	return Box{X: int(x), Y: int(y), Width: int(math.Ceil(maxX - x)), Height: int(math.Ceil(maxY - y))}
}

// Transform applies an output transform to a box living in a buffer of the
// given size.
func (b Box) Transform(t Transform, width, height int) Box {
	var out Box
	if t.Swaps() {
		out.Width, out.Height = b.Height, b.Width
	} else {
		out.Width, out.Height = b.Width, b.Height
	}
	switch t {
	case TransformNormal:
		out.X, out.Y = b.X, b.Y
	case Transform90:
		out.X, out.Y = height-b.Y-b.Height, b.X
	case Transform180:
		out.X, out.Y = width-b.X-b.Width, height-b.Y-b.Height
	case Transform270:
		out.X, out.Y = b.Y, width-b.X-b.Width
	case TransformFlipped:
		out.X, out.Y = width-b.X-b.Width, b.Y
	case TransformFlipped90:
		out.X, out.Y = b.Y, b.X
	case TransformFlipped180:
		out.X, out.Y = b.X, height-b.Y-b.Height
	case TransformFlipped270:
		out.X, out.Y = height-b.Y-b.Height, width-b.X-b.Width
	default:
		out.X, out.Y = b.X, b.Y
	}
	return out
}

// Rect converts the box into an image.Rectangle
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// FromRect converts an image.Rectangle into a box
func FromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
