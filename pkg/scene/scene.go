package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// ShadowBias offsets shadow ray origins along the surface normal so a
// surface does not shadow itself through rounding error.
const ShadowBias = 1e-3

// ShadowPolicy decides which shadow-ray hits count as occluders
type ShadowPolicy string

const (
	// ShadowToLight only counts hits strictly between the point and the light
	ShadowToLight ShadowPolicy = "to-light"
	// ShadowAnyHit counts any hit along the shadow ray, even beyond the light
	ShadowAnyHit ShadowPolicy = "any-hit"
)

// ParseShadowPolicy converts a config string into a ShadowPolicy.
// The empty string selects ShadowToLight.
func ParseShadowPolicy(s string) (ShadowPolicy, error) {
	switch ShadowPolicy(s) {
	case "", ShadowToLight:
		return ShadowToLight, nil
	case ShadowAnyHit:
		return ShadowAnyHit, nil
	default:
		return "", fmt.Errorf("unknown shadow policy %q", s)
	}
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int            // Image width
	Height          int            // Image height
	SamplesPerPixel int            // Number of rays per pixel
	Jitter          bool           // Randomize sample positions within the pixel
	Gamma           float64        // Gamma exponent
	GammaMode       core.GammaMode // Which direction the gamma curve is applied
	Seed            int64          // Base seed for jitter
}

// Scene contains all the elements needed for rendering.
// It is built once and read-only while a render is in progress.
type Scene struct {
	Spheres        []*geometry.Sphere
	Ground         geometry.Plane
	Light          lights.PointLight
	Background     core.Vec3
	ShadowPolicy   ShadowPolicy
	ShadingModel   material.ShadingModel
	SamplingConfig SamplingConfig
}

// Shapes returns every primitive in intersection order: spheres, then the ground
func (s *Scene) Shapes() []geometry.Shape {
	shapes := make([]geometry.Shape, 0, len(s.Spheres)+1)
	for _, sphere := range s.Spheres {
		shapes = append(shapes, sphere)
	}
	return append(shapes, s.Ground)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres) + 1
}

// Hit finds the nearest intersection by linear scan over Shapes.
// Ties keep the earlier primitive.
func (s *Scene) Hit(ray core.Ray) (*geometry.HitRecord, bool) {
	var closestHit *geometry.HitRecord
	closestSoFar := math.Inf(1)

	for _, shape := range s.Shapes() {
		// Strict tMax keeps the first primitive on equal t
		if hit, ok := shape.Hit(ray, closestSoFar); ok {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// IsOccluded reports whether the light is blocked as seen from point.
// The shadow ray starts ShadowBias along normal.
func (s *Scene) IsOccluded(point, normal core.Vec3) bool {
	origin := point.Add(normal.Multiply(ShadowBias))
	sample := s.Light.Sample(origin)
	if sample.Distance == 0 {
		return false
	}
	shadowRay := core.NewRay(origin, sample.Direction)

	for _, shape := range s.Shapes() {
		t, ok := shape.Intersect(shadowRay)
		if ok && (s.ShadowPolicy == ShadowAnyHit || t < sample.Distance) {
			return true
		}
	}
	return false
}
