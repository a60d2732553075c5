package draw

import (
	"image"
	"image/color"
)

// Ellipse is an alpha mask that is opaque inside the ellipse and transparent outside.
// With a non-zero Feather the edge fades out over that fraction of the radius.
type Ellipse struct {
	Cx int // center x
	Cy int // center y
	Rx int // semi-major axis x
	Ry int // semi-minor axis y

	Feather float64
}

func (e *Ellipse) ColorModel() color.Model {
	return color.AlphaModel
}

func (e *Ellipse) Bounds() image.Rectangle {
	return image.Rect(e.Cx-e.Rx, e.Cy-e.Ry, e.Cx+e.Rx, e.Cy+e.Ry)
}

func (e *Ellipse) At(x, y int) color.Color {
	return color.Alpha{e.alpha(x, y)}
}

func (e *Ellipse) alpha(x, y int) uint8 {
	if e.Rx <= 0 || e.Ry <= 0 {
		return 0
	}
	// Equation of ellipse
	p1 := float64((x-e.Cx)*(x-e.Cx)) / float64(e.Rx*e.Rx)
	p2 := float64((y-e.Cy)*(y-e.Cy)) / float64(e.Ry*e.Ry)
	eqn := p1 + p2

	if eqn > 1 {
		return 0
	}
	inner := 1 - e.Feather
	if e.Feather <= 0 || eqn <= inner*inner {
		return 255
	}
	// Linear falloff between the inner radius and the edge.
	t := (1 - eqn) / (1 - inner*inner)
	return uint8(255 * t)
}

// Mask is the union of several ellipses, typically one per detected face.
type Mask struct {
	Rect     image.Rectangle
	Ellipses []Ellipse
}

func (m *Mask) ColorModel() color.Model {
	return color.AlphaModel
}

func (m *Mask) Bounds() image.Rectangle {
	return m.Rect
}

func (m *Mask) At(x, y int) color.Color {
	var a uint8
	for i := range m.Ellipses {
		if v := m.Ellipses[i].alpha(x, y); v > a {
			a = v
			if a == 255 {
				break
			}
		}
	}
	return color.Alpha{a}
}
