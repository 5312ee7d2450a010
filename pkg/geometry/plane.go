package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// ParallelEpsilon is the smallest |direction.Y| for which a ray is not
// considered parallel to a horizontal plane.
const ParallelEpsilon = 1e-4

// Up is the normal of every horizontal plane
var Up = core.NewVec3(0, 1, 0)

// Plane represents an infinite horizontal plane at height Y
type Plane struct {
	Y        float64
	Material *material.Material
}

// NewPlane creates a new horizontal plane
func NewPlane(y float64, mat *material.Material) Plane {
	return Plane{Y: y, Material: mat}
}

// Intersect returns t = (Y - origin.y) / direction.y when it is positive
func (p Plane) Intersect(ray core.Ray) (float64, bool) {
	// Ray parallel to the plane, no stable intersection
	if math.Abs(ray.Direction.Y) < ParallelEpsilon {
		return 0, false
	}

	t := (p.Y - ray.Origin.Y) / ray.Direction.Y
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// Hit tests if a ray intersects with the plane closer than tMax
func (p Plane) Hit(ray core.Ray, tMax float64) (*HitRecord, bool) {
	t, ok := p.Intersect(ray)
	if !ok || t >= tMax {
		return nil, false
	}

	return &HitRecord{
		T:        t,
		Point:    ray.At(t),
		Normal:   Up,
		Material: p.Material,
	}, true
}
