package scene

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func TestParseShadowPolicy(t *testing.T) {
	if p, err := ParseShadowPolicy(""); err != nil || p != ShadowToLight {
		t.Errorf("Expected default to-light, got %s (%v)", p, err)
	}
	if p, err := ParseShadowPolicy("any-hit"); err != nil || p != ShadowAnyHit {
		t.Errorf("Expected any-hit, got %s (%v)", p, err)
	}
	if _, err := ParseShadowPolicy("soft"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestDefaultScene_Layout(t *testing.T) {
	s := NewDefaultScene()

	if len(s.Spheres) != 3 {
		t.Fatalf("Expected 3 spheres, got %d", len(s.Spheres))
	}
	if got := len(s.Shapes()); got != 4 {
		t.Errorf("Expected 4 shapes, got %d", got)
	}
	if got := s.GetPrimitiveCount(); got != 4 {
		t.Errorf("Expected 4 primitives, got %d", got)
	}
	if s.Ground.Y != -2 {
		t.Errorf("Expected ground at y=-2, got %f", s.Ground.Y)
	}
	if s.Light.Position != core.NewVec3(-4, 4, -3) {
		t.Errorf("Unexpected light position %v", s.Light.Position)
	}
	if s.SamplingConfig.Width != 512 || s.SamplingConfig.Height != 512 {
		t.Errorf("Expected 512x512, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
}

func TestDefaultScene_MaterialsNotShared(t *testing.T) {
	a := NewDefaultScene()
	b := NewDefaultScene()

	for i := range a.Spheres {
		if a.Spheres[i].Material == b.Spheres[i].Material {
			t.Errorf("Sphere %d: scenes share a material pointer", i)
		}
	}
	if a.Ground.Material == b.Ground.Material {
		t.Error("Scenes share the ground material")
	}

	a.Spheres[1].Material.Diffuse = core.NewVec3(1, 1, 1)
	if b.Spheres[1].Material.Diffuse != GreenMaterial().Diffuse {
		t.Errorf("Mutating one scene changed another: %v", b.Spheres[1].Material.Diffuse)
	}
}

func TestScene_Hit_Nearest(t *testing.T) {
	s := NewDefaultScene()

	tests := []struct {
		name      string
		direction core.Vec3
		expectHit bool
		material  *material.Material
		expectedT float64
	}{
		{"green sphere front", core.NewVec3(0, 0, -1), true, GreenMaterial(), 5},
		{"red sphere", core.NewVec3(-4, 0, -7), true, RedMaterial(), math.Sqrt(65) - 1},
		{"blue sphere", core.NewVec3(4, 0, -7), true, BlueMaterial(), math.Sqrt(65) - 1},
		{"ground", core.NewVec3(0, -1, -1), true, GrayMaterial(), 2 * math.Sqrt2},
		{"sky", core.NewVec3(0, 1, 0), false, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := s.Hit(core.NewRay(core.Vec3{}, tt.direction))
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, ok)
			}
			if !ok {
				return
			}
			if *hit.Material != *tt.material {
				t.Errorf("Hit the wrong primitive: %+v", hit.Material)
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestScene_Hit_SphereInFrontOfGround(t *testing.T) {
	s := NewDefaultScene()
	// Aimed at the bottom of the green sphere, which also crosses the plane further on
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, -1.5, -7))

	hit, ok := s.Hit(ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	if *hit.Material != *GreenMaterial() {
		t.Errorf("Expected the sphere to occlude the plane, got %+v", hit.Material)
	}
}

func TestScene_Hit_TieKeepsFirst(t *testing.T) {
	first := material.NewMatte(core.NewVec3(1, 0, 0), core.Vec3{})
	second := material.NewMatte(core.NewVec3(0, 1, 0), core.Vec3{})
	s := &Scene{
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 0, -5), 1, first),
			geometry.NewSphere(core.NewVec3(0, 0, -5), 1, second),
		},
		Ground: geometry.NewPlane(-100, material.Black()),
	}

	hit, ok := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Material != first {
		t.Error("Expected the first sphere to win a tie")
	}
}

func TestScene_IsOccluded_GroundBeneathSphere(t *testing.T) {
	s := NewDefaultScene()
	// The line from the light through the green sphere's center meets the ground here
	point := core.NewVec3(2, -2, -9)

	for _, policy := range []ShadowPolicy{ShadowToLight, ShadowAnyHit} {
		s.ShadowPolicy = policy
		if !s.IsOccluded(point, geometry.Up) {
			t.Errorf("%s: expected point to be in the green sphere's shadow", policy)
		}
	}
}

func TestScene_IsOccluded_LitPoints(t *testing.T) {
	s := NewDefaultScene()

	tests := []struct {
		name   string
		point  core.Vec3
		normal core.Vec3
	}{
		{"open ground", core.NewVec3(0, -2, -3), geometry.Up},
		{"green sphere front", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)},
		{"red sphere top", core.NewVec3(-4, 1, -7), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s.IsOccluded(tt.point, tt.normal) {
				t.Error("Expected point to be lit")
			}
		})
	}
}

func TestScene_IsOccluded_NoSelfShadowing(t *testing.T) {
	s := NewDefaultScene()
	green := s.Spheres[1]
	towardLight := s.Light.Position.Subtract(green.Center).Normalize()
	point := green.Center.Add(towardLight.Multiply(green.Radius))

	if s.IsOccluded(point, green.NormalAt(point)) {
		t.Error("Expected the bias to prevent self-occlusion")
	}
}

func TestScene_IsOccluded_PolicyBeyondLight(t *testing.T) {
	s := &Scene{
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 10, 0), 1, material.Black()),
		},
		Ground: geometry.NewPlane(0, material.Black()),
		Light:  lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1)),
	}
	point := core.NewVec3(0, 0, 0)

	s.ShadowPolicy = ShadowToLight
	if s.IsOccluded(point, geometry.Up) {
		t.Error("to-light: a sphere behind the light must not cast a shadow")
	}

	s.ShadowPolicy = ShadowAnyHit
	if !s.IsOccluded(point, geometry.Up) {
		t.Error("any-hit: a sphere behind the light should count as an occluder")
	}
}
