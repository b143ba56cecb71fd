package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/DriesCruyskens/diffgrowth/growth"
	"github.com/DriesCruyskens/diffgrowth/ingest"
	"github.com/DriesCruyskens/diffgrowth/render"
	"github.com/DriesCruyskens/diffgrowth/server"
)

// Configuration represents all the settings for the application
type Configuration struct {
	Mode       string
	DataFile   string
	OutputFile string
	Port       int

	// Starting shape
	OriginX        float64
	OriginY        float64
	Radius         float64
	Count          int
	Noisy          bool
	NoiseAmplitude float64
	NoiseFrequency float64
	Seed           int64

	// Simulation parameters
	MaxForce                float64
	MaxSpeed                float64
	DesiredSeparation       float64
	SeparationCohesionRatio float64
	MaxEdgeLength           float64
	Iterations              int

	// Output
	Width     float64
	Height    float64
	ShowNodes bool
	DebugMode bool
}

func main() {
	config := parseConfig()

	logger, err := newLogger(config.DebugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create a context that is canceled on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("received shutdown signal")
		cancel()
	}()

	if config.Mode == "server" {
		srv := server.New(&server.Config{Port: config.Port}, logger)
		if err := srv.Start(); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
		return
	}

	points, err := startingPoints(config)
	if err != nil {
		logger.Fatal("failed to prepare starting points", zap.Error(err))
	}

	sim := growth.New(points, config.MaxForce, config.MaxSpeed,
		config.DesiredSeparation, config.SeparationCohesionRatio, config.MaxEdgeLength)

	logger.Info("running simulation",
		zap.Int("starting_points", len(points)),
		zap.Int("iterations", config.Iterations))

loop:
	for i := 0; i < config.Iterations; i++ {
		select {
		case <-ctx.Done():
			logger.Warn("interrupted, rendering partial result", zap.Int("completed", i))
			break loop
		default:
			sim.Tick()
		}
	}

	if err := renderOutput(sim.Points(), config); err != nil {
		logger.Fatal("rendering failed", zap.Error(err))
	}

	logger.Info("processing complete",
		zap.Int("nodes", sim.Len()),
		zap.String("output", config.OutputFile))
}

// parseConfig parses command-line flags and returns a Configuration object
func parseConfig() *Configuration {
	config := &Configuration{}

	// Basic options
	flag.StringVar(&config.Mode, "mode", "svg", "Output mode: svg, json, ascii, png, server")
	flag.StringVar(&config.DataFile, "data", "", "Path to starting points file (JSON, CSV); overrides the circle generator")
	flag.StringVar(&config.OutputFile, "output", "", "Path to output file (defaults to 'output.[format]')")
	flag.IntVar(&config.Port, "port", 8080, "Port for server mode")

	// Starting shape options
	flag.Float64Var(&config.OriginX, "origin-x", 0.0, "X coordinate of the starting circle center")
	flag.Float64Var(&config.OriginY, "origin-y", 0.0, "Y coordinate of the starting circle center")
	flag.Float64Var(&config.Radius, "radius", 10.0, "Radius of the starting circle")
	flag.IntVar(&config.Count, "count", 10, "Number of starting points")
	flag.BoolVar(&config.Noisy, "noisy", false, "Displace the starting circle with OpenSimplex noise")
	flag.Float64Var(&config.NoiseAmplitude, "noise-amplitude", 2.5, "Radial displacement of the noisy circle")
	flag.Float64Var(&config.NoiseFrequency, "noise-frequency", 1.5, "Noise frequency along the circumference")
	flag.Int64Var(&config.Seed, "seed", 1, "Noise seed for the noisy circle")

	// Simulation options
	flag.Float64Var(&config.MaxForce, "force", 1.5, "Maximum steering force")
	flag.Float64Var(&config.MaxSpeed, "speed", 1.0, "Maximum node speed")
	flag.Float64Var(&config.DesiredSeparation, "separation", 14.0, "Radius within which nodes repel each other")
	flag.Float64Var(&config.SeparationCohesionRatio, "ratio", 1.1, "Weight of separation relative to cohesion")
	flag.Float64Var(&config.MaxEdgeLength, "edge-length", 5.0, "Edge length above which edges subdivide")
	flag.IntVar(&config.Iterations, "iterations", 500, "Number of simulation iterations")

	// Output options
	flag.Float64Var(&config.Width, "width", 800.0, "Width of the output")
	flag.Float64Var(&config.Height, "height", 600.0, "Height of the output")
	flag.BoolVar(&config.ShowNodes, "show-nodes", false, "Draw a dot at every node (SVG mode)")
	flag.BoolVar(&config.DebugMode, "debug", false, "Enable debug logging")

	flag.Parse()

	// Set default output file if not specified
	if config.OutputFile == "" {
		switch config.Mode {
		case "svg":
			config.OutputFile = "output.svg"
		case "json":
			config.OutputFile = "output.json"
		case "ascii":
			config.OutputFile = "output.txt"
		case "png":
			config.OutputFile = "output.png"
		}
	}

	return config
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// startingPoints loads points from the data file when one is given,
// otherwise generates them on a circle.
func startingPoints(config *Configuration) ([]r2.Vec, error) {
	if config.DataFile != "" {
		return ingest.ProcessFile(config.DataFile)
	}

	if config.Count < 2 {
		return nil, fmt.Errorf("need at least 2 starting points, got %d", config.Count)
	}

	if config.Noisy {
		return growth.PointsOnNoisyCircle(config.OriginX, config.OriginY, config.Radius,
			config.NoiseAmplitude, config.NoiseFrequency, config.Count, config.Seed), nil
	}
	return growth.PointsOnCircle(config.OriginX, config.OriginY, config.Radius, config.Count), nil
}

// renderOutput renders the curve using the renderer for the configured mode
func renderOutput(points []r2.Vec, config *Configuration) error {
	renderer, err := render.GetRenderer(config.Mode)
	if err != nil {
		return err
	}

	options := render.NewDefaultOptions(config.Mode)
	options.Width = config.Width
	options.Height = config.Height
	options.ShowNodes = config.ShowNodes

	output, err := renderer.Render(points, options)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}
