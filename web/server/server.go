package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Request limits, applied to query parameters and to the final scene
const (
	maxImageSize = 2000
	maxSamples   = 10000
	maxWorkers   = 256
)

// Server renders scenes on request and serves the result as PNG
type Server struct {
	port      int
	scenesDir string
	console   *Console
	renderID  atomic.Int64
}

// NewServer creates a new web server serving JSON scene configs from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		console:   NewConsole(maxConsoleMessages),
	}
}

// RenderRequest represents a render request from the client.
// Zero values keep the scene's own setting.
type RenderRequest struct {
	Scene        string                // Scene ID (e.g., "default" or "config:warm")
	Width        int                   // Image width
	Height       int                   // Image height
	Samples      int                   // Samples per pixel
	Jitter       *bool                 // Jitter sample positions
	Workers      int                   // Parallel workers (0 = CPU count)
	GammaMode    core.GammaMode        // Gamma direction
	ShadingModel material.ShadingModel // Specular formulation
	ShadowPolicy scene.ShadowPolicy    // Which shadow hits occlude
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/console", s.handleConsole)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender renders one pass and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sceneObj, err := scene.LoadScene(req.Scene, s.scenesDir)
	if err != nil {
		http.Error(w, fmt.Sprintf("Scene error: %v", err), http.StatusBadRequest)
		return
	}
	req.apply(sceneObj)
	if err := checkLimits(sceneObj.SamplingConfig); err != nil {
		http.Error(w, fmt.Sprintf("Scene error: %v", err), http.StatusBadRequest)
		return
	}

	renderID := fmt.Sprintf("render-%d", s.renderID.Add(1))
	raytracer := renderer.NewRaytracer(sceneObj, NewWebLogger(renderID, s.console))
	raytracer.SetRenderConfig(renderer.RenderConfig{TileSize: 64, NumWorkers: req.Workers})

	// Use request context to stop rendering when the client disconnects
	fb, stats, err := raytracer.Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			log.Printf("[%s] client disconnected: %v", renderID, err)
			return
		}
		http.Error(w, fmt.Sprintf("Render error: %v", err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := fb.WritePNG(&buf); err != nil {
		http.Error(w, fmt.Sprintf("Encode error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[%s] write response: %v", renderID, err)
	}
}

// apply overrides the scene's settings with those given in the request
func (req *RenderRequest) apply(s *scene.Scene) {
	if req.Width > 0 {
		s.SamplingConfig.Width = req.Width
	}
	if req.Height > 0 {
		s.SamplingConfig.Height = req.Height
	}
	if req.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.Jitter != nil {
		s.SamplingConfig.Jitter = *req.Jitter
	}
	if req.GammaMode != "" {
		s.SamplingConfig.GammaMode = req.GammaMode
	}
	if req.ShadingModel != "" {
		s.ShadingModel = req.ShadingModel
	}
	if req.ShadowPolicy != "" {
		s.ShadowPolicy = req.ShadowPolicy
	}
}

// checkLimits rejects scenes that exceed the request limits, including
// sizes that come from a config file rather than the query
func checkLimits(cfg scene.SamplingConfig) error {
	if cfg.Width > maxImageSize || cfg.Height > maxImageSize {
		return fmt.Errorf("image size must be at most %dx%d, got %dx%d", maxImageSize, maxImageSize, cfg.Width, cfg.Height)
	}
	if cfg.SamplesPerPixel > maxSamples {
		return fmt.Errorf("samples must be at most %d, got %d", maxSamples, cfg.SamplesPerPixel)
	}
	return nil
}

// parseRenderRequest parses and validates request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: "default"}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 0, maxWorkers); err != nil {
		return nil, err
	}
	if req.Jitter, err = parseBoolParam(values, "jitter"); err != nil {
		return nil, err
	}
	if value := values.Get("gamma"); value != "" {
		if req.GammaMode, err = core.ParseGammaMode(value); err != nil {
			return nil, err
		}
	}
	if value := values.Get("shading"); value != "" {
		if req.ShadingModel, err = material.ParseShadingModel(value); err != nil {
			return nil, err
		}
	}
	if value := values.Get("shadow"); value != "" {
		if req.ShadowPolicy, err = scene.ParseShadowPolicy(value); err != nil {
			return nil, err
		}
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses an optional boolean parameter; nil means absent
func parseBoolParam(values url.Values, key string) (*bool, error) {
	value := values.Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, value)
	}
	return &parsed, nil
}

// handleScenes lists built-in and config scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the JSON configuration of a named scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.LoadScene(sceneName, s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene":  sceneName,
		"config": scene.ConfigOf(sceneObj),
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": 1, "max": maxImageSize},
			"height":  map[string]int{"min": 1, "max": maxImageSize},
			"samples": map[string]int{"min": 1, "max": maxSamples},
			"workers": map[string]int{"min": 0, "max": maxWorkers},
		},
	})
}

// handleConsole returns recent render log lines
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.Messages())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
