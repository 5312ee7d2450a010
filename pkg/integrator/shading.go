package integrator

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Shade evaluates local illumination at a surface point: ambient plus,
// when the light is visible, diffuse and specular. The result is linear
// and unclamped.
func Shade(s *scene.Scene, point, normal, viewDir core.Vec3, mat *material.Material) core.Vec3 {
	lightColor := s.Light.Color
	ambient := mat.Ambient.MultiplyVec(lightColor)

	// Skip the shadow ray when nothing but ambient can contribute
	if mat.IsAmbientOnly() || s.IsOccluded(point, normal) {
		return ambient
	}

	lightDir := s.Light.Sample(point).Direction
	direct := mat.EvaluateBRDF(s.ShadingModel, normal, lightDir, viewDir)
	return ambient.Add(direct.MultiplyVec(lightColor))
}
