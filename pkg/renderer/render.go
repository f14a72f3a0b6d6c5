package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// NopLogger discards all output
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}

// Render traces every pixel of the scene into a new framebuffer using a pool
// of tile workers. The result does not depend on the worker count.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	if err := rt.scene.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	width, height := rt.scene.Width, rt.scene.Height
	fb := NewFramebuffer(width, height)
	tiles := NewTileGrid(width, height, rt.config.TileSize)

	pool := NewWorkerPool(rt, rt.config.NumWorkers, len(tiles))
	rt.logger.Printf("Rendering %dx%d: %d spheres, %d lights, %d tiles on %d workers...\n",
		width, height, len(rt.scene.Spheres), len(rt.scene.Lights), len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:        tile,
			TaskID:      i,
			Framebuffer: fb,
		})
	}

	// Drain every result so workers never block, keeping the first error
	var stats RenderStats
	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		rt.logger.Printf("Rendering stopped: %v\n", firstErr)
		return nil, RenderStats{}, firstErr
	}

	stats.Duration = time.Since(startTime)
	rt.logger.Printf("Render completed in %v (%d shadow rays, %d reflection rays, hit ratio %.2f, avg luminance %.3f)\n",
		stats.Duration, stats.ShadowRays, stats.ReflectionRays, stats.HitRatio(), fb.AverageLuminance())

	return fb, stats, nil
}

// RenderSequential traces every pixel in row order on the calling goroutine
func (rt *Raytracer) RenderSequential() (*Framebuffer, RenderStats, error) {
	if err := rt.scene.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	fb := NewFramebuffer(rt.scene.Width, rt.scene.Height)
	stats := rt.RenderTile(fb.bounds(), fb)
	stats.Duration = time.Since(startTime)
	return fb, stats, nil
}
