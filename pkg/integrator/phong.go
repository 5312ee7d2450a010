package integrator

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// PhongIntegrator shades the nearest hit with direct light only.
// There is no recursion for reflection or refraction.
type PhongIntegrator struct{}

// NewPhongIntegrator creates a new Phong integrator
func NewPhongIntegrator() *PhongIntegrator {
	return &PhongIntegrator{}
}

// RayColor returns the shaded nearest hit, or the scene background on a miss
func (pi *PhongIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	hit, isHit := s.Hit(ray)
	if !isHit {
		return s.Background
	}

	viewDir := ray.Direction.Negate()
	return Shade(s, hit.Point, hit.Normal, viewDir, hit.Material)
}
