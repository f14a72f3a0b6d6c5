package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Framebuffer is a dense row-major grid of linear RGB colors.
// Row 0 is the bottom of the image (v = bottom).
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFramebuffer allocates a framebuffer for the given resolution
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color of pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores the color of pixel (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pixels[y*fb.Width+x] = c
}

// toByte clamps a channel to [0,1] and scales it to [0,255], truncating
func toByte(v float64) uint8 {
	return uint8(max(0, min(1, v)) * 255)
}

// Bytes returns the 8-bit RGB buffer, three bytes per pixel, in the
// framebuffer's own bottom-up row order
func (fb *Framebuffer) Bytes() []byte {
	buf := make([]byte, 3*len(fb.Pixels))
	for i, c := range fb.Pixels {
		buf[3*i] = toByte(c.X)
		buf[3*i+1] = toByte(c.Y)
		buf[3*i+2] = toByte(c.Z)
	}
	return buf
}

// ToImage converts the framebuffer to an upright RGBA image,
// flipping rows so that image row 0 is the top of the scene
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			img.SetRGBA(x, fb.Height-1-y, color.RGBA{
				R: toByte(c.X),
				G: toByte(c.Y),
				B: toByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

// AverageLuminance returns the mean perceptual luminance of the clamped pixels
func (fb *Framebuffer) AverageLuminance() float64 {
	if len(fb.Pixels) == 0 {
		return 0
	}

	total := 0.0
	for _, c := range fb.Pixels {
		c = c.Clamp(0, 1)
		total += 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z
	}
	return total / float64(len(fb.Pixels))
}

// bounds returns the full pixel rectangle
func (fb *Framebuffer) bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}
