package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene type: 'default' or 'antialiased'")
	configPath := flag.String("config", "", "JSON scene config (overrides -scene)")
	samples := flag.Int("samples", 0, "Samples per pixel (0 = scene default)")
	jitter := flag.Bool("jitter", false, "Jitter samples within each pixel")
	workers := flag.Int("workers", 1, "Parallel workers (1 = synchronous, 0 = CPU count)")
	outputDir := flag.String("out", "output", "Output directory")
	writePPM := flag.Bool("ppm", false, "Also write a binary PPM next to the PNG")
	dumpConfig := flag.String("write-config", "", "Write the reference scene config to this path and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Phong Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default     - Three spheres over a ground plane, one sample per pixel")
		fmt.Println("  antialiased - Same scene with 64 jittered samples per pixel")
		fmt.Println()
		fmt.Println("Output will be saved to <out>/<scene_type>/render_<timestamp>.png")
		return
	}

	if *dumpConfig != "" {
		if err := scene.SaveConfig(*dumpConfig, scene.DefaultConfig()); err != nil {
			log.Fatalf("Error writing config: %v", err)
		}
		log.Printf("Reference scene config written to %s", *dumpConfig)
		return
	}

	var selectedScene *scene.Scene
	var err error
	if *configPath != "" {
		selectedScene, err = loadScene(*configPath)
		*sceneType = "custom"
	} else {
		selectedScene, err = createScene(*sceneType)
	}
	if err != nil {
		log.Fatalf("Error creating scene: %v", err)
	}

	if *samples > 0 {
		selectedScene.SamplingConfig.SamplesPerPixel = *samples
	}
	if *jitter {
		selectedScene.SamplingConfig.Jitter = true
	}

	filename, err := render(selectedScene, *sceneType, *outputDir, *workers, *writePPM)
	if err != nil {
		log.Fatalf("Error rendering: %v", err)
	}
	log.Printf("Render saved as %s", filename)
}

// createScene returns a built-in scene by name
func createScene(sceneType string) (*scene.Scene, error) {
	s, ok := scene.NewBuiltInScene(sceneType)
	if !ok {
		return nil, fmt.Errorf("unknown scene type: %q", sceneType)
	}
	return s, nil
}

// loadScene builds a scene from a JSON config file
func loadScene(path string) (*scene.Scene, error) {
	cfg, err := scene.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

// render runs one pass and writes the result, returning the PNG path
func render(s *scene.Scene, sceneType, outputDir string, workers int, writePPM bool) (string, error) {
	dir := filepath.Join(outputDir, sceneType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	raytracer := renderer.NewRaytracer(s, renderer.NewDefaultLogger())
	config := renderer.DefaultRenderConfig()
	config.NumWorkers = workers
	raytracer.SetRenderConfig(config)

	fb, stats, err := raytracer.Render(context.Background())
	if err != nil {
		return "", err
	}
	log.Printf("Samples: %d total, %.1f per pixel", stats.TotalSamples, stats.AverageSamples)

	// Create timestamped filename
	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Join(dir, fmt.Sprintf("render_%s", timestamp))

	if err := writeFile(base+".png", fb.WritePNG); err != nil {
		return "", err
	}
	if writePPM {
		if err := writeFile(base+".ppm", fb.WritePPM); err != nil {
			return "", err
		}
	}
	return base + ".png", nil
}

func writeFile(path string, encode func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := encode(file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
