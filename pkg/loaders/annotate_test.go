package loaders

import (
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

func solidFramebuffer(width, height int, c core.Vec3) *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fb.Set(x, y, c)
		}
	}
	return fb
}

func TestAnnotate_DarkensBottomBand(t *testing.T) {
	fb := solidFramebuffer(64, 64, core.NewVec3(1, 1, 1))
	annotated := Annotate(fb, []string{"stats"})

	if annotated.Width != 64 || annotated.Height != 64 {
		t.Fatalf("Expected 64x64, got %dx%d", annotated.Width, annotated.Height)
	}

	// Framebuffer row 0 is the bottom of the upright image, under the band.
	// Pixel (63, 0) sits right of any text, so it holds only the band color.
	bottom := annotated.At(63, 0)
	if bottom.X >= 0.9 {
		t.Errorf("Expected darkened band at bottom, got %v", bottom)
	}

	// The top row is far above the band
	top := annotated.At(0, 63)
	if top.X < 0.99 || top.Y < 0.99 || top.Z < 0.99 {
		t.Errorf("Expected untouched white at top, got %v", top)
	}

	// Source framebuffer is not modified
	if fb.At(63, 0) != core.NewVec3(1, 1, 1) {
		t.Error("Annotate modified the source framebuffer")
	}
}

func TestAnnotate_NoLinesCopies(t *testing.T) {
	fb := solidFramebuffer(4, 4, core.NewVec3(0.2, 0.4, 0.6))
	annotated := Annotate(fb, nil)

	got := annotated.At(1, 2)
	// 8-bit quantization
	if diff := got.Subtract(core.NewVec3(0.2, 0.4, 0.6)); diff.Length() > 0.01 {
		t.Errorf("Expected copy of source pixel, got %v", got)
	}
}

func TestFramebufferFromImage_FlipsRows(t *testing.T) {
	fb := renderer.NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0)) // bottom-left
	fb.Set(0, 1, core.NewVec3(0, 0, 1)) // top-left

	img := fb.ToImage()
	back := FramebufferFromImage(img)

	if back.At(0, 0).X != 1 {
		t.Errorf("Expected red at bottom-left, got %v", back.At(0, 0))
	}
	if back.At(0, 1).Z != 1 {
		t.Errorf("Expected blue at top-left, got %v", back.At(0, 1))
	}
}
