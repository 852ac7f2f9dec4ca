package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/TFMV/echolink/config"
	"github.com/TFMV/echolink/ingest"
	"github.com/TFMV/echolink/metrics"
	"github.com/TFMV/echolink/models"
	"github.com/TFMV/echolink/physics"
	"github.com/TFMV/echolink/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Configuration represents the command-line settings for the application
type Configuration struct {
	Mode        string
	DataFile    string
	ConfigFile  string
	OutputFile  string
	MaxIter     int
	Seed        int64
	StrictIDs   bool
	DebugMode   bool
	MetricsAddr string
	Timeout     time.Duration
}

func main() {
	// Cancel the layout on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := parseFlags()

	if opts.DebugMode {
		log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
		log.Println("Debug mode enabled")
	} else {
		log.SetFlags(log.LstdFlags)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var layoutMetrics *metrics.Layout
	if opts.MetricsAddr != "" {
		layoutMetrics = metrics.NewLayout(prometheus.DefaultRegisterer)
		go serveMetrics(opts.MetricsAddr)
	}

	graph, err := processInputFile(opts.DataFile)
	if err != nil {
		log.Fatalf("Failed to process input file: %v", err)
	}
	graph.SetDimensions(cfg.Layout.Width, cfg.Layout.Height)
	log.Printf("Loaded %d nodes and %d links from %s", len(graph.Nodes), len(graph.Links), opts.DataFile)

	sim, err := buildSimulation(graph, cfg, layoutMetrics)
	if err != nil {
		log.Fatalf("Failed to build simulation: %v", err)
	}

	if err := runLayout(ctx, sim, opts.Timeout); err != nil {
		log.Fatalf("Layout failed: %v", err)
	}
	log.Printf("Layout finished after %d ticks (alpha %.4f, energy %.4f)", sim.Iterations(), sim.Alpha(), sim.Energy())

	if err := renderOutput(graph, cfg, opts); err != nil {
		log.Fatalf("Rendering failed: %v", err)
	}
	log.Printf("Processing complete. Output saved to %s", opts.OutputFile)
}

// parseFlags parses command-line flags and returns a Configuration object
func parseFlags() *Configuration {
	opts := &Configuration{}

	flag.StringVar(&opts.Mode, "mode", "svg", "Render mode: svg, ascii, json")
	flag.StringVar(&opts.DataFile, "data", "", "Path to data file (JSON, CSV)")
	flag.StringVar(&opts.ConfigFile, "config", "", "Path to YAML layout configuration")
	flag.StringVar(&opts.OutputFile, "output", "", "Path to output file (defaults to 'output.[format]')")
	flag.IntVar(&opts.MaxIter, "iterations", 0, "Maximum simulation ticks (overrides config)")
	flag.Int64Var(&opts.Seed, "seed", 0, "Seed for reproducible jitter (0 keeps the config value)")
	flag.BoolVar(&opts.StrictIDs, "strict-ids", false, "Fail on duplicate node identifiers")
	flag.BoolVar(&opts.DebugMode, "debug", false, "Enable debug logging")
	flag.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on, e.g. :9100")
	flag.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Give up on the layout after this long")

	flag.Parse()

	if opts.DataFile == "" {
		fmt.Println("Please provide a data file using -data flag")
		flag.Usage()
		os.Exit(1)
	}

	if opts.OutputFile == "" {
		switch opts.Mode {
		case "ascii":
			opts.OutputFile = "output.txt"
		default:
			opts.OutputFile = "output." + opts.Mode
		}
	}

	return opts
}

// loadConfig reads the YAML configuration and applies flag overrides
func loadConfig(opts *Configuration) (config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return cfg, err
		}
	}
	if opts.MaxIter > 0 {
		cfg.Layout.MaxIterations = opts.MaxIter
	}
	if opts.Seed != 0 {
		seed := opts.Seed
		cfg.Link.JitterSeed = &seed
	}
	if opts.StrictIDs {
		cfg.Link.StrictIDs = true
	}
	return cfg, cfg.Validate()
}

// processInputFile reads and processes the input file based on its extension
func processInputFile(dataFile string) (*models.Graph, error) {
	processor, err := ingest.ForFile(filepath.Ext(dataFile), nil)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(dataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	graph, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process data: %w", err)
	}
	return graph, nil
}

// buildSimulation wires the link, charge and centering forces over the graph
func buildSimulation(graph *models.Graph, cfg config.Config, m *metrics.Layout) (*physics.Simulation, error) {
	sim := physics.NewSimulation(graph.Nodes, graph.Width, graph.Height).
		SetMetrics(m).
		SetMaxIterations(cfg.Layout.MaxIterations).
		SetAlphaMin(cfg.Layout.AlphaMin).
		SetVelocityDecay(cfg.Layout.VelocityDecay)

	link := physics.NewLinkForce(graph.Links).
		SetID(physics.NodeID).
		SetStrictIDs(cfg.Link.StrictIDs).
		SetDistanceConstant(cfg.Link.Distance).
		SetUpdateSize(physics.FractionOfLinks(cfg.Link.UpdateFraction)).
		SetUpdateMultiplierConstant(cfg.Link.UpdateMultiplier).
		SetIterations(cfg.Link.Iterations).
		SetMetrics(m)
	if cfg.Link.Strength != nil {
		link.SetStrengthConstant(*cfg.Link.Strength)
	}

	var rand physics.RandSource
	if cfg.Link.JitterSeed != nil {
		rand = physics.NoiseSource(*cfg.Link.JitterSeed)
		link.SetSource(rand)
	}

	if err := sim.AddForce("link", link); err != nil {
		var missing *physics.MissingNodeError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("link references unknown node %v: %w", missing.ID, err)
		}
		return nil, err
	}

	if cfg.Charge.Enabled {
		charge := physics.NewManyBody().SetStrength(cfg.Charge.Strength)
		if cfg.Charge.DistanceMax > 0 {
			charge.SetDistanceMax(cfg.Charge.DistanceMax)
		}
		if rand != nil {
			charge.SetSource(rand)
		}
		if err := sim.AddForce("charge", charge); err != nil {
			return nil, err
		}
	}

	if err := sim.AddForce("center", physics.NewCenter(graph.Width/2, graph.Height/2)); err != nil {
		return nil, err
	}
	return sim, nil
}

// runLayout runs the simulation until it is stable, the timeout expires or
// the process is interrupted. A timeout keeps the partial layout.
func runLayout(ctx context.Context, sim *physics.Simulation, timeout time.Duration) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := sim.Run(runCtx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		log.Println("Warning: Physics simulation timeout, using partial results")
		return nil
	default:
		return err
	}
}

// renderOutput renders the graph using the specified renderer
func renderOutput(graph *models.Graph, cfg config.Config, opts *Configuration) error {
	renderer, err := render.GetRenderer(opts.Mode)
	if err != nil {
		return err
	}

	options := render.NewDefaultOptions(opts.Mode)
	options.Width = cfg.Layout.Width
	options.Height = cfg.Layout.Height
	options.Background = graph.Background

	output, err := renderer.Render(graph, options)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Metrics server stopped: %v", err)
	}
}
