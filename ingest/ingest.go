// Package ingest turns scene-configuration files into validated
// SceneConfigs. JSON and TOML are supported; every file starts from the
// stock defaults, so configs only need to name the fields they change.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/TFMV/pulsegraph/models"
)

// SceneProcessor defines the interface that all scene-config
// processors must implement.
type SceneProcessor interface {
	// ProcessScene takes raw file bytes and returns a validated
	// scene configuration.
	ProcessScene(data []byte) (*models.SceneConfig, error)

	// GetName returns the name of the processor.
	GetName() string
}

// JSONProcessor handles JSON scene configs.
type JSONProcessor struct{}

// GetName returns the name of the processor.
func (p *JSONProcessor) GetName() string {
	return "JSON Scene Processor"
}

// ProcessScene processes a JSON scene config.
func (p *JSONProcessor) ProcessScene(data []byte) (*models.SceneConfig, error) {
	cfg := models.NewSceneConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing JSON scene: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid JSON scene: %w", err)
	}
	return cfg, nil
}

// TOMLProcessor handles TOML scene configs.
type TOMLProcessor struct{}

// GetName returns the name of the processor.
func (p *TOMLProcessor) GetName() string {
	return "TOML Scene Processor"
}

// ProcessScene processes a TOML scene config.
func (p *TOMLProcessor) ProcessScene(data []byte) (*models.SceneConfig, error) {
	cfg := models.NewSceneConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing TOML scene: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid TOML scene: %w", err)
	}
	return cfg, nil
}

// GetProcessor returns the appropriate processor for a file extension.
func GetProcessor(ext string) (SceneProcessor, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return &JSONProcessor{}, nil
	case "toml":
		return &TOMLProcessor{}, nil
	default:
		return nil, fmt.Errorf("unsupported scene file type: %s", ext)
	}
}

// LoadScene reads and processes a scene-config file based on its
// extension.
func LoadScene(path string) (*models.SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	processor, err := GetProcessor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return processor.ProcessScene(data)
}

// MidnightScene returns the stock dark scene.
func MidnightScene() *models.SceneConfig {
	return models.NewSceneConfig()
}

// EmberScene returns a warm variant of the stock scene: amber vertices
// over a deep brown background.
func EmberScene() *models.SceneConfig {
	cfg := models.NewSceneConfig()
	cfg.MatteVertexColor = "#8A5A2B" // Burnt umber
	cfg.GlowVertexColor = "#FFB347"  // Amber
	cfg.MatteEdgeColor = "#4A3320"   // Dark brown
	cfg.GlowEdgeColor = "#FF851B"    // Orange
	cfg.Background = "#140D08"       // Near-black brown
	return cfg
}
