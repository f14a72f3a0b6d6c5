package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// testFramebuffer is a 2x2 framebuffer: red and green on the bottom row,
// blue and white on the top row
func testFramebuffer() *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))
	fb.Set(1, 0, core.NewVec3(0, 1, 0))
	fb.Set(0, 1, core.NewVec3(0, 0, 1))
	fb.Set(1, 1, core.NewVec3(1, 1, 1))
	return fb
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testFramebuffer()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	header := "P6\n2 2\n255\n"
	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte(header)) {
		t.Fatalf("Expected header %q, got %q", header, data[:min(len(data), len(header))])
	}

	// Top row (blue, white) comes first in the file
	expected := []byte{0, 0, 255, 255, 255, 255, 255, 0, 0, 0, 255, 0}
	if pixels := data[len(header):]; !bytes.Equal(pixels, expected) {
		t.Errorf("Expected pixels %v, got %v", expected, pixels)
	}
}

func TestWritePNG_Upright(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testFramebuffer()); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}

	tests := []struct {
		x, y     int
		expected color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 255, 255}},
		{1, 0, color.RGBA{255, 255, 255, 255}},
		{0, 1, color.RGBA{255, 0, 0, 255}},
		{1, 1, color.RGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA); got != tt.expected {
			t.Errorf("Pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestWriteImage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.png")
	original := testFramebuffer()

	if err := WriteImage(path, original); err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}

	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if loaded.Width != 2 || loaded.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", loaded.Width, loaded.Height)
	}
	for i := range original.Pixels {
		if loaded.Pixels[i].Subtract(original.Pixels[i]).Length() > 0.01 {
			t.Errorf("Pixel %d: expected %v, got %v", i, original.Pixels[i], loaded.Pixels[i])
		}
	}
}

func TestWriteImage_Formats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.ppm", "out.png", "out.jpg", "OUT.JPEG"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteImage(path, testFramebuffer()); err != nil {
				t.Fatalf("WriteImage(%s) failed: %v", name, err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Expected file to exist: %v", err)
			}
			if info.Size() == 0 {
				t.Error("Expected non-empty file")
			}
		})
	}
}

func TestWriteImage_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := WriteImage(path, testFramebuffer()); err == nil {
		t.Error("Expected error for unsupported extension")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file to be created for unsupported extension")
	}
}

func TestWriteImage_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.ppm")
	if err := WriteImage(path, testFramebuffer()); err == nil {
		t.Error("Expected error for unwritable path")
	}
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")

	// Top row white/red, bottom row green/blue
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	fb, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	checkColor := func(name string, got, expected core.Vec3) {
		const tolerance = 0.01
		if got.Subtract(expected).Length() > tolerance {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}

	// Framebuffer row 0 is the bottom of the image
	checkColor("Bottom-left (green)", fb.At(0, 0), core.NewVec3(0, 1, 0))
	checkColor("Bottom-right (blue)", fb.At(1, 0), core.NewVec3(0, 0, 1))
	checkColor("Top-left (white)", fb.At(0, 1), core.NewVec3(1, 1, 1))
	checkColor("Top-right (red)", fb.At(1, 1), core.NewVec3(1, 0, 0))
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestWriterForPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"a.ppm", false},
		{"a.PNG", false},
		{"dir/a.jpeg", false},
		{"a.gif", true},
		{"noext", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, err := WriterForPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s", tt.path)
				}
				return
			}
			if err != nil || w == nil {
				t.Errorf("Unexpected error for %s: %v", tt.path, err)
			}
		})
	}
}
