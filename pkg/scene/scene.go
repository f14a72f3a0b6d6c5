package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

var (
	// ErrInvalidResolution is returned when the output resolution is not positive
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrInvalidFrustum is returned when the near plane or image plane extents are degenerate
	ErrInvalidFrustum = errors.New("invalid frustum")
)

// Camera describes the view frustum. The eye sits at the world origin
// looking down -Z, with the image plane at z = -Near.
type Camera struct {
	Near   float64
	Left   float64
	Right  float64
	Bottom float64
	Top    float64
}

// Light is a point light
type Light struct {
	Name      string
	Position  core.Vec3
	Intensity core.Vec3 // RGB
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera     Camera
	Width      int // Horizontal resolution in pixels
	Height     int // Vertical resolution in pixels
	Spheres    []geometry.Sphere
	Lights     []Light
	Background core.Vec3
	Ambient    core.Vec3 // Ambient light intensity
	OutputFile string
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(sphere geometry.Sphere) {
	s.Spheres = append(s.Spheres, sphere)
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(name string, position, intensity core.Vec3) {
	s.Lights = append(s.Lights, Light{Name: name, Position: position, Intensity: intensity})
}

// Validate checks the parts of the scene that cannot be rendered meaningfully
// when missing. Degenerate spheres are left alone; they simply never intersect.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, s.Width, s.Height)
	}
	c := s.Camera
	if c.Near <= 0 {
		return fmt.Errorf("%w: near plane must be positive, got %g", ErrInvalidFrustum, c.Near)
	}
	if c.Left == c.Right {
		return fmt.Errorf("%w: left and right are both %g", ErrInvalidFrustum, c.Left)
	}
	if c.Bottom == c.Top {
		return fmt.Errorf("%w: bottom and top are both %g", ErrInvalidFrustum, c.Bottom)
	}
	return nil
}
