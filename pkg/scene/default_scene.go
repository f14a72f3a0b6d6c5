package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// NewDefaultScene creates a default scene with a few shaded and mirrored spheres
func NewDefaultScene() *Scene {
	s := &Scene{
		Camera: Camera{
			Near:   1,
			Left:   -1,
			Right:  1,
			Bottom: -1,
			Top:    1,
		},
		Width:      600,
		Height:     600,
		Background: core.NewVec3(1, 1, 1),
		Ambient:    core.NewVec3(0.75, 0.75, 0.75),
		OutputFile: "default.ppm",
	}

	s.AddSphere(geometry.Sphere{
		Name:   "s1",
		Center: core.NewVec3(0, 0, -10),
		Scale:  core.NewVec3(2, 4, 2),
		Material: geometry.Material{
			Color: core.NewVec3(0.5, 0, 0),
			Ka:    1, Kd: 1, Ks: 0.9, Kr: 0, N: 50,
		},
	})
	s.AddSphere(geometry.Sphere{
		Name:   "s2",
		Center: core.NewVec3(4, 4, -10),
		Scale:  core.NewVec3(1, 2, 1),
		Material: geometry.Material{
			Color: core.NewVec3(0, 0.5, 0),
			Ka:    1, Kd: 1, Ks: 0.9, Kr: 0, N: 50,
		},
	})
	s.AddSphere(geometry.Sphere{
		Name:   "s3",
		Center: core.NewVec3(-4, 2, -10),
		Scale:  core.NewVec3(1, 2, 1),
		Material: geometry.Material{
			Color: core.NewVec3(0, 0, 0.5),
			Ka:    1, Kd: 1, Ks: 0.9, Kr: 0.5, N: 50,
		},
	})

	s.AddLight("l1", core.NewVec3(0, 0, 0), core.NewVec3(0.9, 0.9, 0))
	s.AddLight("l2", core.NewVec3(10, 10, -10), core.NewVec3(0.9, 0, 0.9))
	s.AddLight("l3", core.NewVec3(-10, 5, -5), core.NewVec3(0, 0, 0.9))

	return s
}
