package renderer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/integrator"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// MockIntegrator implements integrator.Integrator for testing
type MockIntegrator struct {
	rayColorFn func(ray core.Ray, s *scene.Scene) core.Vec3
	calls      int
}

func (m *MockIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	m.calls++
	return m.rayColorFn(ray, s)
}

func smallScene(width, height int) *scene.Scene {
	s := scene.NewDefaultScene()
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	return s
}

func colorsNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestRaytracer_ReferenceScene(t *testing.T) {
	s := scene.NewDefaultScene()
	raytracer := NewRaytracer(s, nil)

	fb, stats, err := raytracer.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if fb.Width != 512 || fb.Height != 512 {
		t.Fatalf("Expected 512x512, got %dx%d", fb.Width, fb.Height)
	}
	if stats.TotalPixels != 512*512 || stats.TotalSamples != 512*512 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	// Center pixel: lit front face of the green sphere
	center := fb.At(256, 256)
	ambient := scene.GreenMaterial().Ambient.GammaEncode(core.DefaultGamma)
	if center.Y <= ambient.Y {
		t.Errorf("Expected lit green above ambient %v, got %v", ambient, center)
	}
	if center.Y <= center.X || center.Y <= center.Z {
		t.Errorf("Expected green to dominate, got %v", center)
	}

	// Corners looking into empty sky are background
	for _, p := range [][2]int{{0, 0}, {511, 0}} {
		if c := fb.At(p[0], p[1]); c != (core.Vec3{}) {
			t.Errorf("Expected black background at %v, got %v", p, c)
		}
	}
}

func TestRaytracer_CenterPixelMatchesShader(t *testing.T) {
	s := scene.NewDefaultScene()
	raytracer := NewRaytracer(s, nil)

	fb, _, err := raytracer.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Framebuffer row 256 is camera row 255 counted from the bottom
	ray := raytracer.camera.GetRay(256.5, 255.5, 512, 512)
	linear := integrator.NewPhongIntegrator().RayColor(ray, s)
	expected := linear.GammaEncode(core.DefaultGamma).Clamp(0, 1)

	if got := fb.At(256, 256); !colorsNear(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRaytracer_GroundShadow(t *testing.T) {
	s := scene.NewDefaultScene()
	fb, _, err := NewRaytracer(s, nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// This pixel sees the ground near (2,-2,-9), behind the green sphere from the light
	shadowed := fb.At(312, 312)
	ambient := scene.GrayMaterial().Ambient.GammaEncode(core.DefaultGamma)
	if !colorsNear(shadowed, ambient, 1e-9) {
		t.Errorf("Expected ambient-only %v in shadow, got %v", ambient, shadowed)
	}

	// This pixel sees open ground near (0,-2,-3)
	lit := fb.At(256, 426)
	if lit.X <= ambient.X+0.1 {
		t.Errorf("Expected lit ground well above ambient %v, got %v", ambient, lit)
	}
}

func TestRaytracer_SingleSampleEquivalence(t *testing.T) {
	s := smallScene(48, 48)

	single := NewRaytracer(s, nil)
	fbSingle, _, err := single.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	config := s.SamplingConfig
	config.SamplesPerPixel = 8
	config.Jitter = false
	multi := NewRaytracer(s, nil)
	multi.SetSamplingConfig(config)
	fbMulti, stats, err := multi.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.TotalSamples != 48*48*8 {
		t.Errorf("Expected %d samples, got %d", 48*48*8, stats.TotalSamples)
	}

	for i := range fbSingle.Pix {
		if !colorsNear(fbSingle.Pix[i], fbMulti.Pix[i], 1e-12) {
			t.Fatalf("Pixel %d differs: %v vs %v", i, fbSingle.Pix[i], fbMulti.Pix[i])
		}
	}
}

func TestRaytracer_WorkerCountDoesNotChangeImage(t *testing.T) {
	s := smallScene(64, 64)
	s.SamplingConfig.SamplesPerPixel = 4
	s.SamplingConfig.Jitter = true

	render := func(workers int) *Framebuffer {
		raytracer := NewRaytracer(s, nil)
		raytracer.SetRenderConfig(RenderConfig{TileSize: 16, NumWorkers: workers})
		fb, stats, err := raytracer.Render(context.Background())
		if err != nil {
			t.Fatalf("Render with %d workers failed: %v", workers, err)
		}
		if stats.Tiles != 16 {
			t.Errorf("Expected 16 tiles, got %d", stats.Tiles)
		}
		return fb
	}

	serial := render(1)
	parallel := render(4)
	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Pixel %d differs between serial and parallel renders", i)
		}
	}
}

func TestRaytracer_JitterAntialiasesEdges(t *testing.T) {
	s := smallScene(64, 64)
	aliased, _, err := NewRaytracer(s, nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	s.SamplingConfig.SamplesPerPixel = 16
	s.SamplingConfig.Jitter = true
	smooth, _, err := NewRaytracer(s, nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	differing := 0
	for i := range aliased.Pix {
		if aliased.Pix[i] != smooth.Pix[i] {
			differing++
		}
	}
	if differing == 0 {
		t.Error("Expected jittered sampling to change at least the silhouette pixels")
	}
}

func TestRaytracer_SamplePixelAverages(t *testing.T) {
	s := smallScene(4, 4)
	s.SamplingConfig.SamplesPerPixel = 10
	raytracer := NewRaytracer(s, nil)

	values := []float64{0, 1}
	mock := &MockIntegrator{
		rayColorFn: func(ray core.Ray, s *scene.Scene) core.Vec3 {
			v := values[0]
			values[0], values[1] = values[1], values[0]
			return core.NewVec3(v, v, v)
		},
	}
	raytracer.SetIntegrator(mock)

	color := raytracer.SamplePixel(1, 1, core.NewRandomSampler(rand.New(rand.NewSource(1))))
	if mock.calls != 10 {
		t.Errorf("Expected 10 integrator calls, got %d", mock.calls)
	}
	if !colorsNear(color, core.NewVec3(0.5, 0.5, 0.5), 1e-12) {
		t.Errorf("Expected mean 0.5, got %v", color)
	}
}

func TestRaytracer_GammaModes(t *testing.T) {
	s := smallScene(1, 1)
	mock := &MockIntegrator{
		rayColorFn: func(ray core.Ray, s *scene.Scene) core.Vec3 {
			return core.NewVec3(0.25, 0.5, 2)
		},
	}

	tests := []struct {
		mode     core.GammaMode
		expected core.Vec3
	}{
		{core.GammaModeNone, core.NewVec3(0.25, 0.5, 1)},
		{core.GammaModeEncode, core.NewVec3(math.Pow(0.25, 1/2.2), math.Pow(0.5, 1/2.2), 1)},
		{core.GammaModeDecode, core.NewVec3(math.Pow(0.25, 2.2), math.Pow(0.5, 2.2), 1)},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			config := s.SamplingConfig
			config.GammaMode = tt.mode
			raytracer := NewRaytracer(s, nil)
			raytracer.SetSamplingConfig(config)
			raytracer.SetIntegrator(mock)

			fb, _, err := raytracer.Render(context.Background())
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if got := fb.At(0, 0); !colorsNear(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRaytracer_RowOrder(t *testing.T) {
	s := smallScene(1, 2)
	raytracer := NewRaytracer(s, nil)
	raytracer.SetSamplingConfig(scene.SamplingConfig{Width: 1, Height: 2, SamplesPerPixel: 1, GammaMode: core.GammaModeNone})
	raytracer.SetIntegrator(&MockIntegrator{
		rayColorFn: func(ray core.Ray, s *scene.Scene) core.Vec3 {
			if ray.Direction.Y > 0 {
				return core.NewVec3(1, 1, 1)
			}
			return core.Vec3{}
		},
	})

	fb, _, err := raytracer.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if fb.At(0, 0) != core.NewVec3(1, 1, 1) || fb.At(0, 1) != (core.Vec3{}) {
		t.Errorf("Expected upward rays in the top row, got top=%v bottom=%v", fb.At(0, 0), fb.At(0, 1))
	}
}

func TestRaytracer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		raytracer := NewRaytracer(smallScene(32, 32), nil)
		raytracer.SetRenderConfig(RenderConfig{TileSize: 8, NumWorkers: workers})

		fb, _, err := raytracer.Render(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
		if fb != nil {
			t.Errorf("workers=%d: expected no framebuffer from a cancelled pass", workers)
		}
	}
}

func TestRaytracer_InvalidSize(t *testing.T) {
	raytracer := NewRaytracer(smallScene(0, 10), nil)
	if _, _, err := raytracer.Render(context.Background()); err == nil {
		t.Error("Expected error for zero width")
	}
}
