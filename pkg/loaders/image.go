package loaders

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// ImageWriter encodes a framebuffer into an image format
type ImageWriter func(w io.Writer, fb *renderer.Framebuffer) error

// WriterForPath returns the encoder matching the file extension
func WriterForPath(filename string) (ImageWriter, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".ppm":
		return WritePPM, nil
	case ".png":
		return WritePNG, nil
	case ".jpg", ".jpeg":
		return WriteJPEG, nil
	default:
		return nil, fmt.Errorf("unsupported file extension %q (supported: ppm, png, jpg/jpeg)", ext)
	}
}

// WriteImage encodes the framebuffer to filename, picking the format by extension
func WriteImage(filename string, fb *renderer.Framebuffer) error {
	write, err := WriterForPath(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := write(file, fb); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

// WritePPM writes a binary P6 PPM with a maxval of 255, top row first
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}

	buf := fb.Bytes()
	rowBytes := 3 * fb.Width
	for y := fb.Height - 1; y >= 0; y-- {
		if _, err := bw.Write(buf[y*rowBytes : (y+1)*rowBytes]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePNG writes the framebuffer as an upright PNG
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	return gg.NewContextForRGBA(fb.ToImage()).EncodePNG(w)
}

// WriteJPEG writes the framebuffer as an upright JPEG
func WriteJPEG(w io.Writer, fb *renderer.Framebuffer) error {
	return jpeg.Encode(w, fb.ToImage(), &jpeg.Options{Quality: 90})
}

// LoadImage loads a PNG or JPEG image into a bottom-up framebuffer with
// channels in [0, 1]
func LoadImage(filename string) (*renderer.Framebuffer, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FramebufferFromImage(img), nil
}
