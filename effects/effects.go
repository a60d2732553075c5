// Package effects post-processes a captured try-on frame before it is downloaded or shared.
package effects

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	ellipse "github.com/esimov/pigo-tryon/draw"
	"github.com/esimov/stackblur-go"
	triangle "github.com/esimov/triangle/v2"
	"golang.org/x/sync/errgroup"
)

// Effect names a capture post-processing step.
type Effect string

const (
	None     Effect = "none"
	Portrait Effect = "portrait"
	Sketch   Effect = "sketch"
	Pixel    Effect = "pixel"
	Privacy  Effect = "privacy"
)

// Names lists the supported effects in the order they are offered on the page.
var Names = []Effect{None, Portrait, Sketch, Pixel, Privacy}

// ErrUnknownEffect is returned by Parse for an unsupported effect name.
var ErrUnknownEffect = errors.New("unknown effect")

// Parse validates an effect name. The empty string means None.
func Parse(name string) (Effect, error) {
	switch e := Effect(strings.ToLower(strings.TrimSpace(name))); e {
	case "":
		return None, nil
	case None, Portrait, Sketch, Pixel, Privacy:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// NeedsFaces reports whether the effect uses the detected face regions.
func (e Effect) NeedsFaces() bool {
	return e == Portrait || e == Privacy
}

const (
	BlurRadius = 20
	// Feather is the fraction of the face ellipse that fades into the blurred background.
	Feather = 0.25
)

// Apply runs the effect over src. Faces are the detected face regions; they are
// only used by the effects reporting NeedsFaces.
func Apply(ctx context.Context, e Effect, src image.Image, faces []image.Rectangle) (image.Image, error) {
	switch e {
	case None, "":
		dst := image.NewNRGBA(src.Bounds())
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst, nil
	case Portrait:
		return portrait(ctx, src, faces)
	case Sketch:
		return sketch(src)
	case Pixel:
		return pixelate(src, 0, NoiseLevel), nil
	case Privacy:
		return privacy(ctx, src, faces)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, e)
}

// portrait blurs out the background and keeps the face regions sharp.
func portrait(ctx context.Context, src image.Image, faces []image.Rectangle) (*image.NRGBA, error) {
	bounds := src.Bounds()
	blurred, mask, err := blurWithMask(ctx, src, faces)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, blurred, blurred.Bounds().Min, draw.Src)
	draw.DrawMask(dst, bounds, src, bounds.Min, mask, bounds.Min, draw.Over)
	return dst, nil
}

// privacy is the inverse of portrait: the faces are blurred out and the rest of
// the frame is kept as is.
func privacy(ctx context.Context, src image.Image, faces []image.Rectangle) (*image.NRGBA, error) {
	bounds := src.Bounds()
	blurred, mask, err := blurWithMask(ctx, src, faces)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	draw.DrawMask(dst, bounds, blurred, blurred.Bounds().Min, mask, bounds.Min, draw.Over)
	return dst, nil
}

// blurWithMask blurs the whole frame and builds the face mask concurrently.
func blurWithMask(ctx context.Context, src image.Image, faces []image.Rectangle) (*image.NRGBA, *ellipse.Mask, error) {
	var (
		blurred *image.NRGBA
		mask    *ellipse.Mask
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		img, err := stackblur.Process(src, BlurRadius)
		if err != nil {
			return fmt.Errorf("blurring background: %w", err)
		}
		blurred = img
		return nil
	})
	g.Go(func() error {
		mask = faceMask(src.Bounds(), faces)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return blurred, mask, nil
}

// faceMask builds an elliptical mask slightly taller than each face box so
// that the hair and chin stay sharp.
func faceMask(bounds image.Rectangle, faces []image.Rectangle) *ellipse.Mask {
	m := &ellipse.Mask{Rect: bounds}
	for _, f := range faces {
		if f.Empty() {
			continue
		}
		c := image.Pt((f.Min.X+f.Max.X)/2, (f.Min.Y+f.Max.Y)/2)
		m.Ellipses = append(m.Ellipses, ellipse.Ellipse{
			Cx:      c.X,
			Cy:      c.Y,
			Rx:      int(float64(f.Dx()) * 0.6),
			Ry:      int(float64(f.Dy()) * 0.8),
			Feather: Feather,
		})
	}
	return m
}

// sketch renders the frame as a low-poly delaunay triangulation.
func sketch(src image.Image) (image.Image, error) {
	proc := triangle.Processor{
		BlurRadius:      2,
		Noise:           0,
		BlurFactor:      2,
		EdgeFactor:      6,
		PointRate:       0.075,
		MaxPoints:       2500,
		PointsThreshold: 10,
		Wireframe:       triangle.WithoutWireframe,
		StrokeWidth:     0,
		IsStrokeSolid:   false,
		Grayscale:       false,
		BgColor:         "#ffffff00",
	}
	img := &triangle.Image{Processor: proc}

	res, _, _, err := img.Draw(src, proc, func() {})
	if err != nil {
		return nil, fmt.Errorf("triangulating frame: %w", err)
	}
	return res, nil
}
