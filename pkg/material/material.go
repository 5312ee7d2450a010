package material

import "github.com/df07/go-phong-raytracer/pkg/core"

// Material holds Phong reflectance coefficients.
// Materials are shared by pointer between shapes and must not be mutated
// once a render has started.
type Material struct {
	Ambient   core.Vec3 // ka
	Diffuse   core.Vec3 // kd
	Specular  core.Vec3 // ks
	Shininess float64   // specular exponent, never negative
}

// NewMaterial creates a material with every field initialized.
// A negative shininess is clamped to zero.
func NewMaterial(ambient, diffuse, specular core.Vec3, shininess float64) *Material {
	return &Material{
		Ambient:   ambient,
		Diffuse:   diffuse,
		Specular:  specular,
		Shininess: max(0, shininess),
	}
}

// NewMatte creates a material with no specular highlight
func NewMatte(ambient, diffuse core.Vec3) *Material {
	return NewMaterial(ambient, diffuse, core.Vec3{}, 0)
}

// Black returns a material that reflects nothing
func Black() *Material {
	return NewMaterial(core.Vec3{}, core.Vec3{}, core.Vec3{}, 0)
}

// HasHighlight reports whether the material produces any specular term
func (m *Material) HasHighlight() bool {
	return !m.Specular.IsZero()
}

// IsAmbientOnly reports whether diffuse and specular are both zero
func (m *Material) IsAmbientOnly() bool {
	return m.Diffuse.IsZero() && m.Specular.IsZero()
}
