package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels        int           // Total number of pixels rendered
	PrimaryHits        int           // Primary rays that hit a sphere
	ShadowRays         int           // Shadow tests performed
	ReflectionRays     int           // Reflection rays traced
	SkippedReflections int           // Reflection directions computed but not traced
	Tiles              int           // Tiles rendered
	Duration           time.Duration // Wall-clock render time
}

// Merge adds the counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryHits += other.PrimaryHits
	s.ShadowRays += other.ShadowRays
	s.ReflectionRays += other.ReflectionRays
	s.SkippedReflections += other.SkippedReflections
	s.Tiles += other.Tiles
}

// HitRatio returns the fraction of primary rays that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.PrimaryHits) / float64(s.TotalPixels)
}
