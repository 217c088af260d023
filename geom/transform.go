package geom

import "gioui.org/f32"

// Transform mirrors wl_output_transform
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

var transformNames = map[Transform]string{
	TransformNormal:     "normal",
	Transform90:         "90",
	Transform180:        "180",
	Transform270:        "270",
	TransformFlipped:    "flipped",
	TransformFlipped90:  "flipped-90",
	TransformFlipped180: "flipped-180",
	TransformFlipped270: "flipped-270",
}

func (t Transform) String() string {
	if name, ok := transformNames[t]; ok {
		return name
	}
	return "unknown"
}

// Swaps reports whether the transform exchanges width and height
func (t Transform) Swaps() bool {
	return t&Transform90 != 0
}

// Invert returns the transform that undoes t. Only the plain 90 and 270
// rotations differ from their own inverse.
func (t Transform) Invert() Transform {
	if t&Transform90 != 0 && t&TransformFlipped == 0 {
		return t ^ Transform180
	}
	return t
}

// Matrix is a row-major 3x3 matrix as consumed by the renderer
type Matrix [9]float32

// Affine converts the first two rows into a gio affine transform
func (m Matrix) Affine() f32.Affine2D {
	return f32.NewAffine2D(m[0], m[1], m[2], m[3], m[4], m[5])
}

func matrixFromAffine(a f32.Affine2D) Matrix {
	sx, hx, ox, hy, sy, oy := a.Elems()
	return Matrix{sx, hx, ox, hy, sy, oy, 0, 0, 1}
}

// ProjectionMatrix maps device pixels of an output of the given size into
// normalised device coordinates, taking the output transform into account.
func ProjectionMatrix(width, height int, t Transform) Matrix {
	w, h := float32(width), float32(height)
	a := f32.Affine2D{}.
		Scale(f32.Point{}, f32.Pt(2/w, -2/h)).
		Offset(f32.Pt(-1, 1))
	switch t {
	case Transform90, TransformFlipped90:
		a = a.Rotate(f32.Point{}, -halfPi)
	case Transform180, TransformFlipped180:
		a = a.Rotate(f32.Point{}, -2*halfPi)
	case Transform270, TransformFlipped270:
		a = a.Rotate(f32.Point{}, -3*halfPi)
	}
	if t&TransformFlipped != 0 {
		a = a.Scale(f32.Point{}, f32.Pt(-1, 1))
	}
	return matrixFromAffine(a)
}

const halfPi = 1.5707963267948966

// ProjectBox builds the matrix that maps the unit square onto box, rotated
// by rotation radians around the box center, and then through projection.
func ProjectBox(box Box, rotation float64, projection Matrix) Matrix {
	center := f32.Pt(float32(box.Width)/2, float32(box.Height)/2)
	a := f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(float32(box.Width), float32(box.Height)))
	if rotation != 0 {
		a = a.Rotate(center, float32(rotation))
	}
	a = a.Offset(f32.Pt(float32(box.X), float32(box.Y)))
	return matrixFromAffine(projection.Affine().Mul(a))
}
