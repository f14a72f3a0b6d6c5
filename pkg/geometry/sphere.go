package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Material holds the Phong coefficients of a surface
type Material struct {
	Color core.Vec3 // Surface color, nominally in [0,1] but not clamped
	Ka    float64   // Ambient
	Kd    float64   // Diffuse
	Ks    float64   // Specular
	Kr    float64   // Reflective
	N     int       // Specular exponent
}

// Sphere represents a sphere shape. Only Scale.X determines the radius;
// the other scale components are carried for scene fidelity.
type Sphere struct {
	Name     string
	Center   core.Vec3
	Scale    core.Vec3
	Material Material
}

// NewSphere creates a new sphere with a uniform scale
func NewSphere(name string, center core.Vec3, radius float64, material Material) Sphere {
	return Sphere{
		Name:     name,
		Center:   center,
		Scale:    core.NewVec3(radius, radius, radius),
		Material: material,
	}
}

// Radius returns the sphere radius
func (s Sphere) Radius() float64 {
	return s.Scale.X
}

// Intersect tests if a ray intersects with the sphere and returns the
// smallest strictly positive distance along the ray.
func (s Sphere) Intersect(origin, direction core.Vec3) (float64, bool) {
	radius := s.Radius()
	if radius <= 0 {
		return 0, false
	}

	// Vector from ray origin to sphere center
	oc := origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := direction.Dot(direction)
	b := 2.0 * oc.Dot(direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2 * a)
	t1 := (-b + sqrtD) / (2 * a)

	// Prefer the near root; fall back to the far one when the origin is inside
	t := t1
	if t0 > 0 {
		t = t0
	}
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// NormalAt returns the outward unit normal at a point on the surface
func (s Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
