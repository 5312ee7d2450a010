package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Framebuffer is the output of a render pass: Width*Height colors stored
// row-major with the top row first, like image.Image. Every stored channel
// is already in [0, 1].
type Framebuffer struct {
	Width  int
	Height int
	Pix    []core.Vec3
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]core.Vec3, width*height),
	}
}

// Bounds returns the framebuffer rectangle
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Set writes a pixel, clamping each channel to [0, 1].
// This is the only place colors are clamped.
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pix[y*fb.Width+x] = c.Clamp(0.0, 1.0)
}

// At returns the stored color at (x, y), with y counted from the top
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pix[y*fb.Width+x]
}

// toByte converts a [0,1] channel to 8 bits
func toByte(v float64) uint8 {
	return uint8(255 * v)
}

// RGB returns packed 8-bit RGB triples, top row first
func (fb *Framebuffer) RGB() []byte {
	out := make([]byte, 0, len(fb.Pix)*3)
	for _, c := range fb.Pix {
		out = append(out, toByte(c.X), toByte(c.Y), toByte(c.Z))
	}
	return out
}

// ToRGBA converts the framebuffer into an opaque image
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c.X),
				G: toByte(c.Y),
				B: toByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

// WritePNG encodes the framebuffer as PNG
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	if err := png.Encode(w, fb.ToRGBA()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePPM encodes the framebuffer as a binary (P6) PPM
func (fb *Framebuffer) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	if _, err := bw.Write(fb.RGB()); err != nil {
		return fmt.Errorf("write ppm pixels: %w", err)
	}
	return bw.Flush()
}
