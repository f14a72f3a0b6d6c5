package renderer

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// ShadowBias offsets secondary ray origins off the surface they leave
const ShadowBias = 1e-3

// RenderConfig contains rendering configuration
type RenderConfig struct {
	MaxDepth       int  // Reflection rays are cast while depth < MaxDepth
	Reflections    bool // Composite Kr * reflected color into the shaded result
	BoundedShadows bool // Ignore occluders farther away than the light
	TileSize       int  // Size of each square tile in pixels
	NumWorkers     int  // Number of parallel workers (0 = use CPU count)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		MaxDepth:       3,
		Reflections:    true,
		BoundedShadows: true,
		TileSize:       32,
		NumWorkers:     0,
	}
}

// Hit describes the nearest intersection along a ray. The sphere is
// referenced by its index in the scene's sphere slice.
type Hit struct {
	T           float64
	SphereIndex int
	Point       core.Vec3
	Normal      core.Vec3
}

// Raytracer traces rays through a read-only scene. It holds no mutable
// state, so one instance can be shared by every worker.
type Raytracer struct {
	scene  *scene.Scene
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Raytracer{
		scene:  s,
		config: config,
		logger: logger,
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// PrimaryRay returns the normalized camera ray through the center of pixel (x, y).
// Row 0 is the bottom of the image plane.
func (rt *Raytracer) PrimaryRay(x, y int) core.Ray {
	cam := rt.scene.Camera
	u := cam.Left + (cam.Right-cam.Left)*(float64(x)+0.5)/float64(rt.scene.Width)
	v := cam.Bottom + (cam.Top-cam.Bottom)*(float64(y)+0.5)/float64(rt.scene.Height)
	direction := core.NewVec3(u, v, -cam.Near).Normalize()
	return core.NewRay(core.NewVec3(0, 0, 0), direction)
}

// ClosestHit finds the sphere with the smallest positive intersection distance.
// Ties keep the earlier sphere.
func (rt *Raytracer) ClosestHit(ray core.Ray) (Hit, bool) {
	closestT := math.MaxFloat64
	closest := -1

	for i := range rt.scene.Spheres {
		if t, ok := rt.scene.Spheres[i].Intersect(ray.Origin, ray.Direction); ok && t < closestT {
			closestT = t
			closest = i
		}
	}

	if closest < 0 {
		return Hit{}, false
	}

	point := ray.At(closestT)
	return Hit{
		T:           closestT,
		SphereIndex: closest,
		Point:       point,
		Normal:      rt.scene.Spheres[closest].NormalAt(point),
	}, true
}

// Trace returns the color seen along a ray at the given recursion depth
func (rt *Raytracer) Trace(ray core.Ray, depth int) core.Vec3 {
	return rt.trace(ray, depth, nil)
}

func (rt *Raytracer) trace(ray core.Ray, depth int, stats *RenderStats) core.Vec3 {
	hit, isHit := rt.ClosestHit(ray)
	if !isHit {
		return rt.scene.Background
	}

	viewDir := ray.Direction.Negate()
	return rt.shade(hit, viewDir, depth, stats)
}

// inShadow reports whether any sphere blocks the path from point toward the light
func (rt *Raytracer) inShadow(point, lightDir core.Vec3, lightDistance float64, stats *RenderStats) bool {
	if stats != nil {
		stats.ShadowRays++
	}

	origin := point.Add(lightDir.Multiply(ShadowBias))
	maxT := math.Inf(1)
	if rt.config.BoundedShadows {
		maxT = lightDistance - ShadowBias
	}

	for i := range rt.scene.Spheres {
		if t, ok := rt.scene.Spheres[i].Intersect(origin, lightDir); ok && t < maxT {
			return true
		}
	}
	return false
}

// shade computes the Phong color at a hit point, plus the mirror term when enabled
func (rt *Raytracer) shade(hit Hit, viewDir core.Vec3, depth int, stats *RenderStats) core.Vec3 {
	sphere := &rt.scene.Spheres[hit.SphereIndex]
	mat := sphere.Material
	normal := hit.Normal

	// Ambient
	color := rt.scene.Ambient.MultiplyVec(mat.Color).Multiply(mat.Ka)

	for _, light := range rt.scene.Lights {
		toLight := light.Position.Subtract(hit.Point)
		lightDistance := toLight.Length()
		if lightDistance == 0 {
			// Light sits on the surface, no defined direction
			continue
		}
		lightDir := toLight.Multiply(1 / lightDistance)

		if rt.inShadow(hit.Point, lightDir, lightDistance, stats) {
			continue
		}

		// Diffuse
		diff := max(normal.Dot(lightDir), 0)
		color = color.Add(light.Intensity.MultiplyVec(mat.Color).Multiply(mat.Kd * diff))

		// Specular, not tinted by the surface color
		reflectDir := lightDir.Negate().Reflect(normal)
		spec := math.Pow(max(viewDir.Dot(reflectDir), 0), float64(mat.N))
		color = color.Add(light.Intensity.Multiply(mat.Ks * spec))
	}

	if depth < rt.config.MaxDepth && mat.Kr > 0 {
		color = color.Add(rt.reflect(hit, viewDir, mat.Kr, depth, stats))
	}

	return color.Clamp(0, 1)
}

// reflect returns the weighted color of the mirror ray leaving a hit point.
// With reflections disabled the ray is counted but contributes nothing.
func (rt *Raytracer) reflect(hit Hit, viewDir core.Vec3, kr float64, depth int, stats *RenderStats) core.Vec3 {
	reflectDir := viewDir.Negate().Reflect(hit.Normal).Normalize()

	if !rt.config.Reflections {
		if stats != nil {
			stats.SkippedReflections++
		}
		return core.Vec3{}
	}

	if stats != nil {
		stats.ReflectionRays++
	}
	reflected := core.NewRay(hit.Point.Add(reflectDir.Multiply(ShadowBias)), reflectDir)
	return rt.trace(reflected, depth+1, stats).Multiply(kr)
}

