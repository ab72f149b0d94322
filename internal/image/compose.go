package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
)

// ComposePreview centers img on a canvas filled with bg, leaving pad pixels
// on every side.
func ComposePreview(img image.Image, bg RGB, pad int) *image.NRGBA {
	if pad < 0 {
		pad = 0
	}
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*pad, b.Dy()+2*pad, bg.NRGBA())
	return imaging.Overlay(canvas, img, image.Pt(pad, pad), 1.0)
}
