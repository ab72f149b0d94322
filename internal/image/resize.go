package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
)

// FitDimensions returns the size of a w x h image scaled down so that its
// longest side is at most max. Images already within bounds keep their size.
func FitDimensions(w, h, max int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= max {
		return w, h
	}
	// integer math keeps the longest side exactly max
	nw := w * max / longest
	nh := h * max / longest
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// ProportionalResize shrinks img to fit within max x max keeping its aspect
// ratio. It never upscales; a compliant image is returned as is.
func ProportionalResize(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := FitDimensions(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
