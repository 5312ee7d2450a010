package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// LightType identifies the kind of light
type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light interface for objects that illuminate a shading point directly
type Light interface {
	Type() LightType

	// Sample returns the direction FROM the shading point TO the light
	Sample(point core.Vec3) LightSample
}

// LightSample contains information about the light as seen from a point
type LightSample struct {
	Point     core.Vec3 // Position of the light
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Light color
}
