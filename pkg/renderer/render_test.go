package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// redSphereScene is a single red sphere lit from the camera position
func redSphereScene() *scene.Scene {
	s := newTestScene(100, 100)
	s.Ambient = core.NewVec3(0.2, 0.2, 0.2)
	s.Background = core.NewVec3(0, 0, 1)
	s.AddSphere(geometry.NewSphere("ball", core.NewVec3(0, 0, -10), 1, geometry.Material{
		Color: core.NewVec3(1, 0, 0),
		Ka:    1,
		Kd:    1,
	}))
	s.AddLight("camera-light", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	return s
}

// busyScene exercises shadows, speculars and reflections together
func busyScene() *scene.Scene {
	s := scene.NewDefaultScene()
	s.Width = 37
	s.Height = 23
	return s
}

func TestRender_RedSphereCenterPixel(t *testing.T) {
	rt := newTestRaytracer(redSphereScene(), nil)

	fb, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if _, isHit := rt.ClosestHit(rt.PrimaryRay(50, 50)); !isHit {
		t.Fatal("Expected center pixel ray to hit the sphere")
	}

	c := fb.At(50, 50)
	if c.X <= 0 {
		t.Errorf("Expected red channel > 0, got %f", c.X)
	}
	if c.Y > 1e-9 || c.Z > 1e-9 {
		t.Errorf("Expected green and blue ≈ 0, got %v", c)
	}

	// Corners see the background
	if corner := fb.At(0, 0); corner != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected background in corner, got %v", corner)
	}

	if stats.TotalPixels != 100*100 {
		t.Errorf("Expected %d pixels, got %d", 100*100, stats.TotalPixels)
	}
	if stats.PrimaryHits == 0 || stats.PrimaryHits >= stats.TotalPixels {
		t.Errorf("Expected some but not all pixels to hit, got %d", stats.PrimaryHits)
	}
	if stats.ShadowRays != stats.PrimaryHits {
		t.Errorf("Expected one shadow ray per hit with one light, got %d for %d hits", stats.ShadowRays, stats.PrimaryHits)
	}
}

func TestRender_EmptySceneIsBackground(t *testing.T) {
	s := newTestScene(16, 9)
	s.Background = core.NewVec3(0.25, 0.5, 0.75)
	rt := newTestRaytracer(s, nil)

	fb, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if len(fb.Pixels) != 16*9 {
		t.Fatalf("Expected %d pixels, got %d", 16*9, len(fb.Pixels))
	}
	for i, c := range fb.Pixels {
		if c != s.Background {
			t.Fatalf("Pixel %d = %v, want background %v", i, c, s.Background)
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	rt := newTestRaytracer(busyScene(), nil)

	first, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("first Render() error: %v", err)
	}
	second, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("second Render() error: %v", err)
	}

	for i := range first.Pixels {
		if first.Pixels[i] != second.Pixels[i] {
			t.Fatalf("Pixel %d differs between renders: %v vs %v", i, first.Pixels[i], second.Pixels[i])
		}
	}
}

func TestRender_ParallelMatchesSequential(t *testing.T) {
	s := busyScene()

	sequential, seqStats, err := newTestRaytracer(s, nil).RenderSequential()
	if err != nil {
		t.Fatalf("RenderSequential() error: %v", err)
	}

	tests := []struct {
		name       string
		tileSize   int
		numWorkers int
	}{
		{"single worker", 32, 1},
		{"uneven tiles", 7, 4},
		{"one pixel tiles", 1, 3},
		{"cpu count", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newTestRaytracer(s, func(c *RenderConfig) {
				c.TileSize = tt.tileSize
				c.NumWorkers = tt.numWorkers
			})

			parallel, stats, err := rt.Render(context.Background())
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}

			for i := range sequential.Pixels {
				if sequential.Pixels[i] != parallel.Pixels[i] {
					t.Fatalf("Pixel %d differs: sequential %v, parallel %v", i, sequential.Pixels[i], parallel.Pixels[i])
				}
			}
			if stats.ShadowRays != seqStats.ShadowRays || stats.ReflectionRays != seqStats.ReflectionRays {
				t.Errorf("Stats differ: sequential %+v, parallel %+v", seqStats, stats)
			}
		})
	}
}

func TestRender_Cancelled(t *testing.T) {
	rt := newTestRaytracer(busyScene(), func(c *RenderConfig) { c.TileSize = 4 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb, _, err := rt.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if fb != nil {
		t.Error("Expected nil framebuffer on cancellation")
	}
}

func TestRender_InvalidScene(t *testing.T) {
	tests := []struct {
		name    string
		scene   *scene.Scene
		wantErr error
	}{
		{"zero resolution", newTestScene(0, 0), scene.ErrInvalidResolution},
		{"zero near plane", func() *scene.Scene {
			s := newTestScene(4, 4)
			s.Camera.Near = 0
			return s
		}(), scene.ErrInvalidFrustum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newTestRaytracer(tt.scene, nil)
			if _, _, err := rt.Render(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if _, _, err := rt.RenderSequential(); !errors.Is(err, tt.wantErr) {
				t.Errorf("RenderSequential() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultRenderConfig(t *testing.T) {
	config := DefaultRenderConfig()

	if config.MaxDepth != 3 {
		t.Errorf("Expected default max depth 3, got %d", config.MaxDepth)
	}
	if !config.Reflections {
		t.Error("Expected reflections enabled by default")
	}
	if !config.BoundedShadows {
		t.Error("Expected bounded shadows by default")
	}
	if config.TileSize != 32 {
		t.Errorf("Expected default tile size 32, got %d", config.TileSize)
	}
}
