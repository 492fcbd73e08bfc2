package scanning

import (
	"image"

	"github.com/disintegration/imaging"
)

// Preprocess prepares a phone photo for local OCR: grayscale, upscaled when
// shorter than minHeight, then contrast and sharpening so thin print
// survives binarization
func Preprocess(src image.Image, minHeight int) *image.NRGBA {
	img := imaging.Grayscale(src)
	if h := img.Bounds().Dy(); h > 0 && h < minHeight {
		img = imaging.Resize(img, 0, minHeight, imaging.Lanczos)
	}
	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 1.0)
	return img
}
