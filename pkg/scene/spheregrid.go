package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// Convert from OKLAB to linear RGB
	// Using simplified approximation for OKLAB to RGB conversion
	// This is not perfectly accurate but good enough for our purposes

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	// Clamp to [0, 1] range
	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a scene with a gridSize x gridSize wall of spheres
// facing the camera. Hue varies across columns and reflectivity down rows.
func NewSphereGridScene(gridSize int) *Scene {
	s := &Scene{
		Camera: Camera{
			Near:   1,
			Left:   -1,
			Right:  1,
			Bottom: -1,
			Top:    1,
		},
		Width:      800,
		Height:     800,
		Background: core.NewVec3(0.05, 0.05, 0.1),
		Ambient:    core.NewVec3(0.2, 0.2, 0.2),
		OutputFile: "spheregrid.ppm",
	}

	const spacing = 2.5
	const radius = 1.0
	const depth = -20.0
	offset := float64(gridSize-1) * spacing / 2

	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			hue := float64(col) / float64(max(gridSize, 1)) * 360.0
			kr := 0.0
			if gridSize > 1 {
				kr = 0.8 * float64(row) / float64(gridSize-1)
			}

			s.AddSphere(geometry.NewSphere(
				fmt.Sprintf("grid_%d_%d", row, col),
				core.NewVec3(float64(col)*spacing-offset, float64(row)*spacing-offset, depth),
				radius,
				geometry.Material{
					Color: oklchToRGB(0.7, 0.15, hue),
					Ka:    0.3,
					Kd:    0.8,
					Ks:    0.5,
					Kr:    kr,
					N:     32,
				},
			))
		}
	}

	s.AddLight("key", core.NewVec3(-10, 10, 0), core.NewVec3(0.8, 0.8, 0.8))
	s.AddLight("fill", core.NewVec3(10, -5, -5), core.NewVec3(0.3, 0.3, 0.4))

	return s
}
