package core

import "fmt"

// DefaultGamma is the display gamma used for 8-bit output
const DefaultGamma = 2.2

// GammaMode selects which direction a gamma curve is applied in
type GammaMode string

const (
	// GammaModeEncode maps linear radiance to display values: c^(1/gamma)
	GammaModeEncode GammaMode = "encode"
	// GammaModeDecode maps display values back to linear: c^gamma
	GammaModeDecode GammaMode = "decode"
	// GammaModeNone leaves colors untouched
	GammaModeNone GammaMode = "none"
)

// ParseGammaMode converts a config string into a GammaMode.
// The empty string selects GammaModeEncode.
func ParseGammaMode(s string) (GammaMode, error) {
	switch GammaMode(s) {
	case "", GammaModeEncode:
		return GammaModeEncode, nil
	case GammaModeDecode:
		return GammaModeDecode, nil
	case GammaModeNone:
		return GammaModeNone, nil
	default:
		return "", fmt.Errorf("unknown gamma mode %q", s)
	}
}

// ApplyGamma applies the gamma curve selected by mode
func (v Vec3) ApplyGamma(mode GammaMode, gamma float64) Vec3 {
	switch mode {
	case GammaModeEncode:
		return v.GammaEncode(gamma)
	case GammaModeDecode:
		return v.GammaDecode(gamma)
	default:
		return v
	}
}
