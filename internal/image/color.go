package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	colors "gopkg.in/go-playground/colors.v1"
)

// SampleSize is the edge of the square grid colors are counted on.
const SampleSize = 100

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex renders c as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	// uint8 channels are always in range
	clr, _ := colors.RGB(c.R, c.G, c.B)
	return clr.ToHEX().String()
}

// HSL returns hue in degrees and saturation, lightness in [0, 1].
func (c RGB) HSL() (h, s, l float64) {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
}

// RGBFromHSL converts back to 8-bit channels, rounding to nearest.
func RGBFromHSL(h, s, l float64) RGB {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ColorPolicy mutes a color into a backdrop tone. Saturation is scaled and
// capped; lightness is mapped linearly into [LightnessMin, LightnessMax].
type ColorPolicy struct {
	SaturationScale   float64 `yaml:"saturation_scale"`
	SaturationCeiling float64 `yaml:"saturation_ceiling"`
	LightnessMin      float64 `yaml:"lightness_min"`
	LightnessMax      float64 `yaml:"lightness_max"`
}

// DefaultColorPolicy is tunable; other revisions used a 0.9 ceiling and a
// 0.05-0.25 band.
var DefaultColorPolicy = ColorPolicy{
	SaturationScale:   0.5,
	SaturationCeiling: 0.3,
	LightnessMin:      0.2,
	LightnessMax:      0.4,
}

// Mute applies the policy. Hue is preserved.
func (p ColorPolicy) Mute(h, s, l float64) (float64, float64, float64) {
	s = clamp01(s) * p.SaturationScale
	if s > p.SaturationCeiling {
		s = p.SaturationCeiling
	}
	if s < 0 {
		s = 0
	}
	l = p.LightnessMin + clamp01(l)*(p.LightnessMax-p.LightnessMin)
	return h, s, l
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SampleGrid drops alpha from img and scales it to n x n. Alpha is discarded
// rather than composited, so the resample sees straight RGB only.
func SampleGrid(img image.Image, n int) *image.NRGBA {
	flat := imaging.Clone(img)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xff
	}
	return imaging.Resize(flat, n, n, imaging.Box)
}

// DominantColor returns the most frequent exact color in sample. Ties go to
// the color seen first in row-major order.
func DominantColor(sample *image.NRGBA) RGB {
	b := sample.Bounds()
	counts := make(map[RGB]int)
	var best RGB
	bestCount := 0
	order := make(map[RGB]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := sample.NRGBAAt(x, y)
			key := RGB{R: c.R, G: c.G, B: c.B}
			if _, ok := order[key]; !ok {
				order[key] = len(order)
			}
			counts[key]++
			n := counts[key]
			if n > bestCount || (n == bestCount && order[key] < order[best]) {
				best, bestCount = key, n
			}
		}
	}
	return best
}

// BackgroundColor derives the muted backdrop color of img.
func BackgroundColor(img image.Image, policy ColorPolicy) RGB {
	dominant := DominantColor(SampleGrid(img, SampleSize))
	return policy.Apply(dominant)
}

// Apply mutes a single color through HSL.
func (p ColorPolicy) Apply(c RGB) RGB {
	h, s, l := p.Mute(c.HSL())
	return RGBFromHSL(h, s, l)
}

// NRGBA is a convenience for drawing with the color.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
