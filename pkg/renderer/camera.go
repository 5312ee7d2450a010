package renderer

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera by its near-plane window.
// The camera looks down -Z with +Y up.
type CameraConfig struct {
	Origin   core.Vec3
	Left     float64
	Right    float64
	Bottom   float64
	Top      float64
	Distance float64 // Distance from the origin to the near plane
}

// DefaultCameraConfig returns the fixed camera of the reference scene
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:   core.NewVec3(0, 0, 0),
		Left:     -0.1,
		Right:    0.1,
		Bottom:   -0.1,
		Top:      0.1,
		Distance: 0.1,
	}
}

// Camera generates primary rays through the near plane
type Camera struct {
	config CameraConfig
}

// NewCamera creates a camera from a config
func NewCamera(config CameraConfig) *Camera {
	return &Camera{config: config}
}

// GetRay returns the ray through continuous pixel coordinates (px, py) of a
// width x height image. py is measured from the bottom row, so (0.5, 0.5) is
// the center of the bottom-left pixel.
func (c *Camera) GetRay(px, py float64, width, height int) core.Ray {
	cfg := c.config
	u := cfg.Left + (cfg.Right-cfg.Left)*px/float64(width)
	v := cfg.Bottom + (cfg.Top-cfg.Bottom)*py/float64(height)
	return core.NewRay(cfg.Origin, core.NewVec3(u, v, -cfg.Distance))
}
