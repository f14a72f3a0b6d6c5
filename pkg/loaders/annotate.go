package loaders

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// Annotate returns a copy of the framebuffer with the given caption lines
// stamped over a dark band along the bottom edge of the upright image
func Annotate(fb *renderer.Framebuffer, lines []string) *renderer.Framebuffer {
	if len(lines) == 0 {
		return FramebufferFromImage(fb.ToImage())
	}

	dc := gg.NewContextForImage(fb.ToImage())
	const padding = 4.0
	lineHeight := dc.FontHeight() + 2
	bandHeight := float64(len(lines))*lineHeight + 2*padding
	height := float64(fb.Height)

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, height-bandHeight, float64(fb.Width), bandHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for i, line := range lines {
		y := height - bandHeight + padding + float64(i)*lineHeight
		dc.DrawStringAnchored(line, padding, y, 0, 1)
	}

	return FramebufferFromImage(dc.Image())
}

// FramebufferFromImage converts an upright image into a bottom-up framebuffer
// with channels in [0, 1]
func FramebufferFromImage(img image.Image) *renderer.Framebuffer {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	fb := renderer.NewFramebuffer(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			fb.Set(x, height-1-y, core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			))
		}
	}

	return fb
}
