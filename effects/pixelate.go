package effects

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
)

const (
	// CellRatio is the pixel cell size relative to the longest image side.
	CellRatio  = 0.015
	NoiseLevel = 8
)

// pixelate quantizes the frame to the web safe palette and fills uniform cells
// with their average color.
func pixelate(src image.Image, cellSize, noise int) *image.NRGBA {
	bounds := src.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))

	if cellSize <= 0 {
		cellSize = int(float64(max(dx, dy)) * CellRatio)
	}
	cellSize = max(cellSize, 1)

	qimg := image.NewPaletted(image.Rect(0, 0, dx, dy), palette.WebSafe)
	draw.Draw(qimg, qimg.Bounds(), src, bounds.Min, draw.Src)

	for x := 0; x < dx; x += cellSize {
		for y := 0; y < dy; y += cellSize {
			rect := image.Rect(x, y, x+cellSize, y+cellSize).Intersect(qimg.Bounds())
			if rect.Empty() {
				continue
			}
			cellColor := avgColor(qimg.SubImage(rect).(*image.Paletted))

			// Fill up the cell with the quantified color.
			draw.Draw(dst, rect, &image.Uniform{C: cellColor}, image.Point{}, draw.Src)
		}
	}
	if noise > 0 {
		addNoise(dst, noise)
	}
	return dst
}

// avgColor returns the average color of a cell.
func avgColor(img *image.Paletted) color.NRGBA {
	var (
		bounds  = img.Bounds()
		r, g, b int
	)
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += int(cr >> 8)
			g += int(cg >> 8)
			b += int(cb >> 8)
		}
	}
	n := bounds.Dx() * bounds.Dy()
	return color.NRGBA{
		R: uint8(clamp(r/n, 0, 255)),
		G: uint8(clamp(g/n, 0, 255)),
		B: uint8(clamp(b/n, 0, 255)),
		A: 255,
	}
}

// prng is a Park-Miller pseudo random generator. A fixed seed keeps the grain
// identical between two captures of the same frame.
type prng struct {
	a    int
	m    int
	rand int
	div  float64
}

func newPRNG() *prng {
	return &prng{
		a:    16807,
		m:    0x7fffffff,
		rand: 1,
		div:  1.0 / 0x7fffffff,
	}
}

// nextLongRand generates a new random number based on the provided seed.
func (p *prng) nextLongRand(seed int) int {
	lo := p.a * (seed & 0xffff)
	hi := p.a * (seed >> 16)
	lo += (hi & 0x7fff) << 16

	if lo > p.m {
		lo &= p.m
		lo++
	}
	lo += hi >> 15
	if lo > p.m {
		lo &= p.m
		lo++
	}
	return lo
}

// randomSeed returns a new random number in [0, 1).
func (p *prng) randomSeed() float64 {
	p.rand = p.nextLongRand(p.rand)
	return float64(p.rand) * p.div
}

// addNoise adds a film grain of the given amount to the image.
func addNoise(img *image.NRGBA, amount int) {
	rnd := newPRNG()
	bounds := img.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			noise := int((rnd.randomSeed() - 0.5) * float64(amount))
			c := img.NRGBAAt(x, y)
			c.R = uint8(clamp(int(c.R)+noise, 0, 255))
			c.G = uint8(clamp(int(c.G)+noise, 0, 255))
			c.B = uint8(clamp(int(c.B)+noise, 0, 255))
			img.SetNRGBA(x, y, c)
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
