package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// builtInGroup names the group holding scenes compiled into the binary
const builtInGroup = "Built-in Scenes"

// configPrefix marks scene IDs that refer to JSON files in the scenes directory
const configPrefix = "config:"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "config"
	FilePath    string `json:"filePath"`    // Path to JSON file (config type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Three spheres over a gray ground plane, one sample per pixel",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "antialiased",
		Name:        "Antialiased Scene",
		DisplayName: "Antialiased Scene",
		Description: "Default scene with 64 jittered samples per pixel",
		Group:       builtInGroup,
		Type:        "builtin",
	},
}

// NewBuiltInScene returns the built-in scene with the given ID
func NewBuiltInScene(id string) (*Scene, bool) {
	switch id {
	case "default":
		return NewDefaultScene(), true
	case "antialiased":
		return NewAntialiasedScene(), true
	default:
		return nil, false
	}
}

// LoadScene resolves a scene ID from ListAllScenes into a scene.
// IDs of the form "config:<name>" load <dir>/<name>.json.
func LoadScene(id, dir string) (*Scene, error) {
	if s, ok := NewBuiltInScene(id); ok {
		return s, nil
	}

	name, ok := strings.CutPrefix(id, configPrefix)
	if !ok || name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("unknown scene: %q", id)
	}

	cfg, err := LoadConfig(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

// ListConfigScenes scans dir for JSON scene configs.
// A missing directory yields an empty list.
func ListConfigScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseConfigMetadata(filePath)
		if err != nil {
			// Skip files that are not scene configs
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseConfigMetadata extracts the name, description and group of a JSON
// scene config, falling back to values derived from the filename
func ParseConfigMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          configPrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Config Scenes",
		Type:        "config",
		FilePath:    filePath,
	}

	cfg, err := LoadConfig(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if name := strings.TrimSpace(cfg.Name); name != "" {
		sceneInfo.Name = name
		sceneInfo.DisplayName = name
	}
	sceneInfo.Description = strings.TrimSpace(cfg.Description)
	if group := strings.TrimSpace(cfg.Group); group != "" {
		sceneInfo.Group = group
	}

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and config scenes, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	configScenes, err := ListConfigScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list config scenes: %w", err)
	}

	allScenes := append(append([]SceneInfo{}, builtInScenes...), configScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
