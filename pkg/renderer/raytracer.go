package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/integrator"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// RenderConfig controls how a pass is scheduled. It never changes the image.
type RenderConfig struct {
	TileSize   int // Size of each tile in pixels
	NumWorkers int // Number of parallel workers (1 = synchronous, 0 = use CPU count)
}

// DefaultRenderConfig returns a synchronous single-worker configuration
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   64,
		NumWorkers: 1,
	}
}

// Raytracer renders a scene into a Framebuffer in a single pass
type Raytracer struct {
	scene        *scene.Scene
	width        int
	height       int
	config       scene.SamplingConfig
	renderConfig RenderConfig
	camera       *Camera
	integrator   integrator.Integrator
	logger       core.Logger
}

// NewRaytracer creates a new raytracer using the scene's sampling config.
// A nil logger discards output.
func NewRaytracer(s *scene.Scene, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	return &Raytracer{
		scene:        s,
		width:        s.SamplingConfig.Width,
		height:       s.SamplingConfig.Height,
		config:       s.SamplingConfig,
		renderConfig: DefaultRenderConfig(),
		camera:       NewCamera(DefaultCameraConfig()),
		integrator:   integrator.NewPhongIntegrator(),
		logger:       logger,
	}
}

// SetSamplingConfig updates the sampling configuration, including image size
func (rt *Raytracer) SetSamplingConfig(config scene.SamplingConfig) {
	rt.config = config
	rt.width = config.Width
	rt.height = config.Height
}

// SetRenderConfig updates tiling and worker settings
func (rt *Raytracer) SetRenderConfig(config RenderConfig) {
	rt.renderConfig = config
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(i integrator.Integrator) {
	rt.integrator = i
}

// samplesPerPixel never returns less than one
func (rt *Raytracer) samplesPerPixel() int {
	return max(1, rt.config.SamplesPerPixel)
}

// SamplePixel returns the mean linear color of pixel (i, j), where j counts
// rows from the bottom of the image. Each sample offsets the ray within the
// pixel by sampler.Get2D().
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for sample := 0; sample < rt.samplesPerPixel(); sample++ {
		offset := sampler.Get2D()
		ray := rt.camera.GetRay(float64(i)+offset.X, float64(j)+offset.Y, rt.width, rt.height)
		ps.AddSample(rt.integrator.RayColor(ray, rt.scene))
	}
	return ps.GetColor()
}

// toDisplay applies the configured gamma curve to a linear color
func (rt *Raytracer) toDisplay(c core.Vec3) core.Vec3 {
	return c.ApplyGamma(rt.config.GammaMode, rt.config.Gamma)
}

// RenderTile renders every pixel of a tile into the framebuffer
func (rt *Raytracer) RenderTile(tile *Tile, fb *Framebuffer) RenderStats {
	sampler := tile.NewSampler(rt.config)
	bounds := tile.Bounds

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// Framebuffer rows run top-down, camera rows bottom-up
		j := rt.height - 1 - y
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			fb.Set(i, y, rt.toDisplay(rt.SamplePixel(i, j, sampler)))
		}
	}

	pixels := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:  pixels,
		TotalSamples: pixels * rt.samplesPerPixel(),
		Tiles:        1,
	}
}

// Render runs one complete pass and returns a fully written framebuffer.
// The result is identical for any worker count. ctx is only checked between
// tiles; a cancelled pass returns ctx.Err() and no framebuffer.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	if rt.width <= 0 || rt.height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid image size %dx%d", rt.width, rt.height)
	}

	startTime := time.Now()
	fb := NewFramebuffer(rt.width, rt.height)
	tiles := NewTileGrid(rt.width, rt.height, rt.renderConfig.TileSize)

	stats := RenderStats{SamplesPerPixel: rt.samplesPerPixel()}
	var err error
	if rt.renderConfig.NumWorkers == 1 {
		stats.Workers = 1
		err = rt.renderSerial(ctx, tiles, fb, &stats)
	} else {
		err = rt.renderParallel(ctx, tiles, fb, &stats)
	}
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("render cancelled: %w", err)
	}

	stats.Duration = time.Since(startTime)
	stats.finalize()
	rt.logger.Printf("Rendered %d primitives at %dx%d, %d spp (%d tiles, %d workers) in %v\n",
		rt.scene.GetPrimitiveCount(), rt.width, rt.height, stats.SamplesPerPixel, stats.Tiles, stats.Workers, stats.Duration)
	return fb, stats, nil
}

// renderSerial renders tiles in order on the calling goroutine
func (rt *Raytracer) renderSerial(ctx context.Context, tiles []*Tile, fb *Framebuffer, stats *RenderStats) error {
	for _, tile := range tiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.merge(rt.RenderTile(tile, fb))
	}
	return nil
}

// renderParallel distributes tiles across a worker pool
func (rt *Raytracer) renderParallel(ctx context.Context, tiles []*Tile, fb *Framebuffer, stats *RenderStats) error {
	pool := NewWorkerPool(ctx, rt, len(tiles), rt.renderConfig.NumWorkers)
	stats.Workers = pool.GetNumWorkers()
	pool.Start()

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Framebuffer: fb})
	}

	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		stats.merge(result.Stats)
	}
	pool.Stop()

	return firstErr
}
