package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// PointLight is an infinitesimal light with no falloff
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
}

var _ Light = PointLight{}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3) PointLight {
	return PointLight{Position: position, Color: color}
}

// Type implements the Light interface
func (pl PointLight) Type() LightType {
	return LightTypePoint
}

// Sample implements the Light interface.
// A point coincident with the light gets a zero direction and distance.
func (pl PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Position.Subtract(point)
	return LightSample{
		Point:     pl.Position,
		Direction: toLight.Normalize(),
		Distance:  toLight.Length(),
		Emission:  pl.Color,
	}
}
