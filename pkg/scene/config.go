package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Triple is a JSON-friendly [x, y, z] or [r, g, b]
type Triple [3]float64

// Vec3 converts the triple to a core.Vec3
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

func tripleOf(v core.Vec3) Triple {
	return Triple{v.X, v.Y, v.Z}
}

// MaterialConfig describes a Phong material
type MaterialConfig struct {
	Ambient   Triple  `json:"ambient"`
	Diffuse   Triple  `json:"diffuse"`
	Specular  Triple  `json:"specular"`
	Shininess float64 `json:"shininess"`
}

// SphereConfig describes one sphere
type SphereConfig struct {
	Center   Triple         `json:"center"`
	Radius   float64        `json:"radius"`
	Material MaterialConfig `json:"material"`
}

// DefaultSphereMaterial is the material of a sphere whose config omits one:
// the matte gray of the reference ground.
func DefaultSphereMaterial() MaterialConfig {
	return materialConfigOf(GrayMaterial())
}

// UnmarshalJSON decodes a sphere, filling an omitted material with
// DefaultSphereMaterial.
func (sc *SphereConfig) UnmarshalJSON(data []byte) error {
	type plain SphereConfig
	decoded := plain{Material: DefaultSphereMaterial()}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*sc = SphereConfig(decoded)
	return nil
}

// Config is the on-disk description of a scene and how to sample it
type Config struct {
	Name            string         `json:"name,omitempty"`
	Description     string         `json:"description,omitempty"`
	Group           string         `json:"group,omitempty"`
	Spheres         []SphereConfig `json:"spheres"`
	PlaneHeight     float64        `json:"planeHeight"`
	PlaneMaterial   MaterialConfig `json:"planeMaterial"`
	LightPosition   Triple         `json:"lightPosition"`
	LightColor      Triple         `json:"lightColor"`
	Background      Triple         `json:"background"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	SamplesPerPixel int            `json:"samplesPerPixel"`
	Jitter          bool           `json:"jitter"`
	Gamma           float64        `json:"gamma"`
	GammaMode       string         `json:"gammaMode,omitempty"`
	ShadingModel    string         `json:"shadingModel,omitempty"`
	ShadowPolicy    string         `json:"shadowPolicy,omitempty"`
	Seed            int64          `json:"seed,omitempty"`
}

func materialConfigOf(m *material.Material) MaterialConfig {
	return MaterialConfig{
		Ambient:   tripleOf(m.Ambient),
		Diffuse:   tripleOf(m.Diffuse),
		Specular:  tripleOf(m.Specular),
		Shininess: m.Shininess,
	}
}

func (mc MaterialConfig) build() *material.Material {
	return material.NewMaterial(mc.Ambient.Vec3(), mc.Diffuse.Vec3(), mc.Specular.Vec3(), mc.Shininess)
}

// DefaultConfig returns the reference scene as a Config
func DefaultConfig() Config {
	return ConfigOf(NewDefaultScene())
}

// ConfigOf describes an existing scene as a Config
func ConfigOf(s *Scene) Config {
	spheres := make([]SphereConfig, 0, len(s.Spheres))
	for _, sphere := range s.Spheres {
		spheres = append(spheres, SphereConfig{
			Center:   tripleOf(sphere.Center),
			Radius:   sphere.Radius,
			Material: materialConfigOf(sphere.Material),
		})
	}

	return Config{
		Spheres:         spheres,
		PlaneHeight:     s.Ground.Y,
		PlaneMaterial:   materialConfigOf(s.Ground.Material),
		LightPosition:   tripleOf(s.Light.Position),
		LightColor:      tripleOf(s.Light.Color),
		Background:      tripleOf(s.Background),
		Width:           s.SamplingConfig.Width,
		Height:          s.SamplingConfig.Height,
		SamplesPerPixel: s.SamplingConfig.SamplesPerPixel,
		Jitter:          s.SamplingConfig.Jitter,
		Gamma:           s.SamplingConfig.Gamma,
		GammaMode:       string(s.SamplingConfig.GammaMode),
		ShadingModel:    string(s.ShadingModel),
		ShadowPolicy:    string(s.ShadowPolicy),
		Seed:            s.SamplingConfig.Seed,
	}
}

// Validate checks the config for values the renderer cannot use
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.SamplesPerPixel < 1 {
		errs = append(errs, fmt.Errorf("samplesPerPixel must be at least 1, got %d", c.SamplesPerPixel))
	}
	if c.Gamma < 0 {
		errs = append(errs, fmt.Errorf("gamma must not be negative, got %g", c.Gamma))
	}
	for i, sphere := range c.Spheres {
		if sphere.Radius <= 0 {
			errs = append(errs, fmt.Errorf("sphere %d: radius must be positive, got %g", i, sphere.Radius))
		}
	}
	if _, err := core.ParseGammaMode(c.GammaMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := material.ParseShadingModel(c.ShadingModel); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseShadowPolicy(c.ShadowPolicy); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Build validates the config and constructs the scene it describes.
// A zero gamma selects core.DefaultGamma.
func (c Config) Build() (*Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	// Validate has already rejected unknown names
	gammaMode, _ := core.ParseGammaMode(c.GammaMode)
	shadingModel, _ := material.ParseShadingModel(c.ShadingModel)
	shadowPolicy, _ := ParseShadowPolicy(c.ShadowPolicy)

	gamma := c.Gamma
	if gamma == 0 {
		gamma = core.DefaultGamma
	}

	spheres := make([]*geometry.Sphere, 0, len(c.Spheres))
	for _, sc := range c.Spheres {
		spheres = append(spheres, geometry.NewSphere(sc.Center.Vec3(), sc.Radius, sc.Material.build()))
	}

	return &Scene{
		Spheres:      spheres,
		Ground:       geometry.NewPlane(c.PlaneHeight, c.PlaneMaterial.build()),
		Light:        lights.NewPointLight(c.LightPosition.Vec3(), c.LightColor.Vec3()),
		Background:   c.Background.Vec3(),
		ShadowPolicy: shadowPolicy,
		ShadingModel: shadingModel,
		SamplingConfig: SamplingConfig{
			Width:           c.Width,
			Height:          c.Height,
			SamplesPerPixel: c.SamplesPerPixel,
			Jitter:          c.Jitter,
			Gamma:           gamma,
			GammaMode:       gammaMode,
			Seed:            c.Seed,
		},
	}, nil
}

// LoadConfig reads a Config from a JSON file.
// Top-level fields missing from the file keep their reference-scene
// defaults. A "spheres" list replaces the reference spheres entirely, and a
// sphere without a material gets DefaultSphereMaterial.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	referenceSpheres := cfg.Spheres
	// Decoding into the reference slice would merge fields element by element
	cfg.Spheres = nil

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open scene config: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode scene config: %w", err)
	}
	if cfg.Spheres == nil {
		cfg.Spheres = referenceSpheres
	}
	return cfg, nil
}

// SaveConfig writes a Config to a JSON file
func SaveConfig(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene config: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode scene config: %w", err)
	}
	return nil
}
