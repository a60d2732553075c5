package pixels

import (
	"image"
	"image/color"
	"math"
)

// ImgToPix converts an image to row-major RGBA pixel data.
func ImgToPix(img image.Image) []uint8 {
	bounds := img.Bounds()
	pixels := make([]uint8, 0, bounds.Dx()*bounds.Dy()*4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, c.R, c.G, c.B, c.A)
		}
	}
	return pixels
}

// PixToImage converts row-major RGBA pixel data, as returned by a canvas
// `getImageData` call, to an image of the given size.
func PixToImage(pixels []uint8, rect image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(rect)
	copy(img.Pix, pixels)
	return img
}

// RgbaToGrayscale converts RGBA pixel data of a cols x rows frame to a grayscale buffer.
// The result reuses the first rows*cols bytes of data.
func RgbaToGrayscale(data []uint8, rows, cols int) []uint8 {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			// gray = 0.2*red + 0.7*green + 0.1*blue
			data[r*cols+c] = uint8(math.Round(
				0.2126*float64(data[r*4*cols+4*c+0]) +
					0.7152*float64(data[r*4*cols+4*c+1]) +
					0.0722*float64(data[r*4*cols+4*c+2])))
		}
	}
	return data[:rows*cols]
}

// Mirror flips the image horizontally.
func Mirror(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.X-1-(x-bounds.Min.X), y, src.At(x, y))
		}
	}
	return dst
}
