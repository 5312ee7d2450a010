package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Reference scene materials. Each call returns a new material, so scenes
// never share mutable state.

// RedMaterial is the matte red of the left sphere
func RedMaterial() *material.Material {
	return material.NewMaterial(core.NewVec3(0.2, 0, 0), core.NewVec3(1, 0, 0), core.Vec3{}, 0)
}

// GreenMaterial is the glossy green of the center sphere
func GreenMaterial() *material.Material {
	return material.NewMaterial(core.NewVec3(0, 0.2, 0), core.NewVec3(0, 0.5, 0), core.NewVec3(0.5, 0.5, 0.5), 32)
}

// BlueMaterial is the matte blue of the right sphere
func BlueMaterial() *material.Material {
	return material.NewMaterial(core.NewVec3(0, 0, 0.2), core.NewVec3(0, 0, 1), core.Vec3{}, 0)
}

// GrayMaterial is the matte gray of the ground plane
func GrayMaterial() *material.Material {
	return material.NewMaterial(core.NewVec3(0.2, 0.2, 0.2), core.NewVec3(1, 1, 1), core.Vec3{}, 0)
}

// DefaultSamplingConfig returns the reference 512x512 single-sample setup
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           512,
		Height:          512,
		SamplesPerPixel: 1,
		Jitter:          false,
		Gamma:           core.DefaultGamma,
		GammaMode:       core.GammaModeEncode,
		Seed:            42,
	}
}

// NewDefaultScene creates the reference scene: three spheres over a gray
// ground plane lit by one white point light.
func NewDefaultScene() *Scene {
	return &Scene{
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(core.NewVec3(-4, 0, -7), 1, RedMaterial()),
			geometry.NewSphere(core.NewVec3(0, 0, -7), 2, GreenMaterial()),
			geometry.NewSphere(core.NewVec3(4, 0, -7), 1, BlueMaterial()),
		},
		Ground:         geometry.NewPlane(-2, GrayMaterial()),
		Light:          lights.NewPointLight(core.NewVec3(-4, 4, -3), core.NewVec3(1, 1, 1)),
		Background:     core.Vec3{},
		ShadowPolicy:   ShadowToLight,
		ShadingModel:   material.BlinnPhong,
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// NewAntialiasedScene is the reference scene with 64 jittered samples per pixel
func NewAntialiasedScene() *Scene {
	s := NewDefaultScene()
	s.SamplingConfig.SamplesPerPixel = 64
	s.SamplingConfig.Jitter = true
	return s
}
