package loaders

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// RGB is a JSON triple, used for both positions and colors
type RGB [3]float64

func (v RGB) vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SphereCfg is the JSON form of a sphere
type SphereCfg struct {
	Name     string  `json:"name"`
	Position RGB     `json:"position"`
	Scale    RGB     `json:"scale"`
	Color    RGB     `json:"color"`
	Ka       float64 `json:"ka"`
	Kd       float64 `json:"kd"`
	Ks       float64 `json:"ks"`
	Kr       float64 `json:"kr"`
	N        int     `json:"n"`
}

// LightCfg is the JSON form of a point light
type LightCfg struct {
	Name      string `json:"name"`
	Position  RGB    `json:"position"`
	Intensity RGB    `json:"intensity"`
}

// SceneCfg mirrors the text format field for field
type SceneCfg struct {
	Near       float64     `json:"near"`
	Left       float64     `json:"left"`
	Right      float64     `json:"right"`
	Bottom     float64     `json:"bottom"`
	Top        float64     `json:"top"`
	Resolution [2]int      `json:"res"`
	Spheres    []SphereCfg `json:"spheres,omitempty"`
	Lights     []LightCfg  `json:"lights,omitempty"`
	Background RGB         `json:"back"`
	Ambient    RGB         `json:"ambient"`
	Output     string      `json:"output"`
}

// Build converts the configuration into a scene
func (c SceneCfg) Build() (*scene.Scene, error) {
	s := &scene.Scene{
		Camera: scene.Camera{
			Near:   c.Near,
			Left:   c.Left,
			Right:  c.Right,
			Bottom: c.Bottom,
			Top:    c.Top,
		},
		Width:      c.Resolution[0],
		Height:     c.Resolution[1],
		Background: c.Background.vec3(),
		Ambient:    c.Ambient.vec3(),
		OutputFile: c.Output,
	}

	for _, sc := range c.Spheres {
		if sc.N < 0 {
			return nil, fmt.Errorf("sphere %s: specular exponent must be non-negative, got %d", sc.Name, sc.N)
		}
		s.AddSphere(geometry.Sphere{
			Name:   sc.Name,
			Center: sc.Position.vec3(),
			Scale:  sc.Scale.vec3(),
			Material: geometry.Material{
				Color: sc.Color.vec3(),
				Ka:    sc.Ka,
				Kd:    sc.Kd,
				Ks:    sc.Ks,
				Kr:    sc.Kr,
				N:     sc.N,
			},
		})
	}

	for _, lc := range c.Lights {
		s.AddLight(lc.Name, lc.Position.vec3(), lc.Intensity.vec3())
	}

	return s, nil
}

// ParseSceneJSON decodes a JSON scene description
func ParseSceneJSON(reader io.Reader) (*scene.Scene, error) {
	var cfg SceneCfg
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode scene JSON: %w", err)
	}
	return cfg.Build()
}

// NewSceneCfg converts a scene back into its JSON form
func NewSceneCfg(s *scene.Scene) SceneCfg {
	toRGB := func(v core.Vec3) RGB { return RGB{v.X, v.Y, v.Z} }

	cfg := SceneCfg{
		Near:       s.Camera.Near,
		Left:       s.Camera.Left,
		Right:      s.Camera.Right,
		Bottom:     s.Camera.Bottom,
		Top:        s.Camera.Top,
		Resolution: [2]int{s.Width, s.Height},
		Background: toRGB(s.Background),
		Ambient:    toRGB(s.Ambient),
		Output:     s.OutputFile,
	}
	for _, sp := range s.Spheres {
		cfg.Spheres = append(cfg.Spheres, SphereCfg{
			Name:     sp.Name,
			Position: toRGB(sp.Center),
			Scale:    toRGB(sp.Scale),
			Color:    toRGB(sp.Material.Color),
			Ka:       sp.Material.Ka,
			Kd:       sp.Material.Kd,
			Ks:       sp.Material.Ks,
			Kr:       sp.Material.Kr,
			N:        sp.Material.N,
		})
	}
	for _, l := range s.Lights {
		cfg.Lights = append(cfg.Lights, LightCfg{
			Name:      l.Name,
			Position:  toRGB(l.Position),
			Intensity: toRGB(l.Intensity),
		})
	}
	return cfg
}

// WriteSceneJSON encodes a scene as indented JSON
func WriteSceneJSON(w io.Writer, s *scene.Scene) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewSceneCfg(s))
}
