package draw

import (
	"image"
	"image/color"
	"testing"
)

func alphaAt(img image.Image, x, y int) uint8 {
	return img.At(x, y).(color.Alpha).A
}

func TestEllipse(t *testing.T) {
	e := &Ellipse{Cx: 50, Cy: 40, Rx: 20, Ry: 10}

	if got := e.Bounds(); got != image.Rect(30, 30, 70, 50) {
		t.Errorf("unexpected bounds %v", got)
	}

	tests := []struct {
		x, y int
		want uint8
	}{
		{50, 40, 255},
		{69, 40, 255},
		{50, 49, 255},
		{71, 40, 0},
		{50, 51, 0},
		{68, 48, 0},
	}
	for _, tt := range tests {
		if got := alphaAt(e, tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestEllipseFeather(t *testing.T) {
	e := &Ellipse{Cx: 0, Cy: 0, Rx: 100, Ry: 100, Feather: 0.5}

	if got := alphaAt(e, 10, 0); got != 255 {
		t.Errorf("expected opaque center, got %d", got)
	}
	edge := alphaAt(e, 90, 0)
	if edge == 0 || edge == 255 {
		t.Errorf("expected partial alpha near the edge, got %d", edge)
	}
	if got := alphaAt(e, 101, 0); got != 0 {
		t.Errorf("expected transparent outside, got %d", got)
	}
}

func TestEllipseDegenerate(t *testing.T) {
	e := &Ellipse{Cx: 5, Cy: 5}
	if got := alphaAt(e, 5, 5); got != 0 {
		t.Errorf("zero radius ellipse must be transparent, got %d", got)
	}
}

func TestMaskUnion(t *testing.T) {
	m := &Mask{
		Rect: image.Rect(0, 0, 200, 100),
		Ellipses: []Ellipse{
			{Cx: 40, Cy: 50, Rx: 20, Ry: 20},
			{Cx: 160, Cy: 50, Rx: 20, Ry: 20},
		},
	}
	if got := alphaAt(m, 40, 50); got != 255 {
		t.Errorf("expected first face opaque, got %d", got)
	}
	if got := alphaAt(m, 160, 50); got != 255 {
		t.Errorf("expected second face opaque, got %d", got)
	}
	if got := alphaAt(m, 100, 50); got != 0 {
		t.Errorf("expected gap between faces transparent, got %d", got)
	}
}
