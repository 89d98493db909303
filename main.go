package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TFMV/pulsegraph/graph"
	"github.com/TFMV/pulsegraph/ingest"
	"github.com/TFMV/pulsegraph/models"
	"github.com/TFMV/pulsegraph/physics"
	"github.com/TFMV/pulsegraph/render"
	"github.com/TFMV/pulsegraph/server"
)

// Configuration represents all the settings for the application.
type Configuration struct {
	Mode       string
	Addr       string
	SceneFile  string
	OutputFile string
	Seed       int64
	SimTime    float64
	Pulse      bool
	DebugMode  bool
}

func main() {
	// Create a context that can be canceled on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	config := parseConfig()

	if config.DebugMode {
		log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
		log.Println("Debug mode enabled")
	} else {
		log.SetFlags(log.LstdFlags)
	}

	scene, err := loadScene(config)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	switch config.Mode {
	case "serve":
		if err := server.Start(ctx, config.Addr, scene, config.DebugMode); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case "svg", "json":
		if err := renderSnapshot(scene, config); err != nil {
			log.Fatalf("Rendering failed: %v", err)
		}
		log.Printf("Processing complete. Output saved to %s", config.OutputFile)
	default:
		log.Fatalf("Unsupported mode: %s", config.Mode)
	}
}

// parseConfig parses command-line flags and returns a Configuration object.
func parseConfig() *Configuration {
	config := &Configuration{}

	flag.StringVar(&config.Mode, "mode", "serve", "Mode: serve, svg, json")
	flag.StringVar(&config.Addr, "addr", ":8080", "Listen address for serve mode")
	flag.StringVar(&config.SceneFile, "scene", "", "Path to a scene config file (JSON, TOML)")
	flag.StringVar(&config.OutputFile, "output", "", "Path to output file (defaults to 'output.[format]')")
	flag.Int64Var(&config.Seed, "seed", 0, "Random seed (0 = time-based)")
	flag.Float64Var(&config.SimTime, "simtime", 20.0, "Simulated seconds to advance before a snapshot")
	flag.BoolVar(&config.Pulse, "pulse", true, "Trigger a glow pulse before the snapshot")
	flag.BoolVar(&config.DebugMode, "debug", false, "Enable debug logging")

	flag.Parse()

	if config.OutputFile == "" {
		switch config.Mode {
		case "svg":
			config.OutputFile = "output.svg"
		case "json":
			config.OutputFile = "output.json"
		}
	}

	return config
}

// loadScene builds the scene configuration from the scene file, falling
// back to the stock scene, and applies command-line overrides.
func loadScene(config *Configuration) (*models.SceneConfig, error) {
	scene := models.NewSceneConfig()

	if config.SceneFile != "" {
		loaded, err := ingest.LoadScene(config.SceneFile)
		if err != nil {
			return nil, err
		}
		scene = loaded
	}

	if config.Seed != 0 {
		scene.Seed = config.Seed
	}
	return scene, scene.Validate()
}

// renderSnapshot advances a fresh simulation by the configured
// sim-time, optionally fires one glow pulse and lets it reach peak
// intensity, then writes a single rendered frame.
func renderSnapshot(scene *models.SceneConfig, config *Configuration) error {
	seed := scene.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mesh := graph.Build(scene, rng)
	sim := physics.NewSimulation(mesh, scene, rng)

	dt := float32(1.0) / float32(scene.FrameRate)
	steps := int(config.SimTime * float64(scene.FrameRate))
	for i := 0; i < steps; i++ {
		sim.Step(dt)
	}

	if config.Pulse {
		pulse := sim.TriggerPulse()
		log.Printf("snapshot pulse %s: %d vertices, %d edges",
			pulse.ID, len(pulse.Selection.Vertices), len(pulse.Selection.Edges))

		// Advance to the intensity peak.
		halfSteps := int(float64(scene.PulseDuration) / 2 * float64(scene.FrameRate))
		for i := 0; i < halfSteps; i++ {
			sim.Step(dt)
		}
	}

	palette, err := render.PaletteFromConfig(scene)
	if err != nil {
		return err
	}

	renderer, err := render.GetRenderer(config.Mode)
	if err != nil {
		return err
	}

	options := render.NewDefaultOptions()
	options.Width = scene.Width
	options.Height = scene.Height
	options.Background = scene.Background

	camera := render.NewCamera(scene.FOV, scene.Width, scene.Height)
	output, err := renderer.Render(mesh, camera, palette, options)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
