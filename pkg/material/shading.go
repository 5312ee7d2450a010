package material

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ShadingModel selects the specular formulation
type ShadingModel string

const (
	// BlinnPhong uses the half vector between view and light directions
	BlinnPhong ShadingModel = "blinn-phong"
	// Phong uses the light direction reflected about the normal
	Phong ShadingModel = "phong"
)

// ParseShadingModel converts a config string into a ShadingModel.
// The empty string selects BlinnPhong.
func ParseShadingModel(s string) (ShadingModel, error) {
	switch ShadingModel(s) {
	case "", BlinnPhong:
		return BlinnPhong, nil
	case Phong:
		return Phong, nil
	default:
		return "", fmt.Errorf("unknown shading model %q", s)
	}
}

// DiffuseFactor returns the Lambert cosine max(0, n·l)
func DiffuseFactor(normal, lightDir core.Vec3) float64 {
	return max(0, normal.Dot(lightDir))
}

// SpecularFactor returns the highlight strength for the given model.
// Surfaces facing away from the light get no highlight. A shininess of
// zero yields exactly 1 (0^0 is defined as 1).
func (m *Material) SpecularFactor(model ShadingModel, normal, lightDir, viewDir core.Vec3) float64 {
	if normal.Dot(lightDir) <= 0 {
		return 0
	}
	if m.Shininess == 0 {
		return 1
	}

	var cosAlpha float64
	switch model {
	case Phong:
		reflectDir := normal.Multiply(2 * normal.Dot(lightDir)).Subtract(lightDir).Normalize()
		cosAlpha = viewDir.Dot(reflectDir)
	default:
		halfVector := viewDir.Add(lightDir).Normalize()
		cosAlpha = normal.Dot(halfVector)
	}

	if cosAlpha <= 0 {
		return 0
	}
	return math.Pow(cosAlpha, m.Shininess)
}

// EvaluateBRDF returns kd*diffuse + ks*specular for unit light color
func (m *Material) EvaluateBRDF(model ShadingModel, normal, lightDir, viewDir core.Vec3) core.Vec3 {
	diffuse := m.Diffuse.Multiply(DiffuseFactor(normal, lightDir))
	if !m.HasHighlight() {
		return diffuse
	}
	specular := m.Specular.Multiply(m.SpecularFactor(model, normal, lightDir, viewDir))
	return diffuse.Add(specular)
}
