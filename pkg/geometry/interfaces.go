package geometry

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T        float64            // Parameter t along the ray
	Point    core.Vec3          // Point of intersection
	Normal   core.Vec3          // Outward unit surface normal at the intersection
	Material *material.Material // Material of the shape that was hit
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Intersect returns the smallest strictly positive t at which the ray
	// meets the surface.
	Intersect(ray core.Ray) (float64, bool)
	// Hit returns a full hit record for an intersection closer than tMax.
	Hit(ray core.Ray, tMax float64) (*HitRecord, bool)
}
