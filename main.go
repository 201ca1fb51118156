package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"panelshot/capture"
	"panelshot/cd"
	"panelshot/config"
	"panelshot/logging"
	"panelshot/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	headless := flag.Bool("headless", true, "run the browser without a visible window")
	configPath := flag.String("config", "", "path to a TOML or YAML config file")
	outputDir := flag.String("output", "", "directory for screenshots (overrides config)")
	only := flag.String("only", "", "run a single pass: console or kibana")
	flag.Parse()

	if *only != "" && *only != "console" && *only != "kibana" {
		fmt.Fprintf(os.Stderr, "invalid -only %q: want console or kibana\n", *only)
		return 2
	}

	// A missing .env is fine; the variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		var missing *config.MissingCredentialsError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", missing)
		} else {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		}
		return 1
	}

	headlessSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			headlessSet = true
		}
	})
	if !headlessSet {
		*headless = cfg.Headless
	}
	config.ApplyFlagOverrides(cfg, *headless, *outputDir)

	logger, err := logging.SetupLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		return 1
	}
	defer logging.CloseFile()

	runID := uuid.NewString()
	logger = logger.With("run", runID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case sig := <-c:
			logger.Warn("received signal, stopping", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	logger.Info("starting capture run", "output", cfg.OutputDir, "headless", cfg.Headless,
		"targets", len(cfg.Targets), "panels", len(cfg.Kibana.Panels))

	if err := capture.ResetOutputDir(cfg.OutputDir, logger); err != nil {
		logger.Error("error preparing output directory", "dir", cfg.OutputDir, "error", err)
		return 1
	}

	var recorder capture.Recorder
	if influx := metrics.NewInfluxRecorder(cfg.Metrics, runID, logger); influx != nil {
		defer influx.Close()
		recorder = influx
		logger.Info("recording results to InfluxDB", "url", cfg.Metrics.URL, "bucket", cfg.Metrics.Bucket)
	}

	runner := capture.NewRunner(cfg, cd.Launch, logger, recorder)
	if *only != "kibana" {
		runner.RunConsole(ctx)
	}
	if *only != "console" {
		runner.RunKibana(ctx)
	}

	if err := renderSummary(runner.Results()); err != nil {
		logger.Warn("error rendering summary", "error", err)
	}

	elapsed := time.Since(start)
	if ctx.Err() != nil {
		logger.Warn("run interrupted", "elapsed", elapsed)
		return 1
	}
	logger.Info("done", "elapsed", elapsed.Round(time.Millisecond), "failed", countFailed(runner.Results()))
	fmt.Println("Time Elapsed: ", elapsed)
	return 0
}

func countFailed(results []capture.Result) int {
	n := 0
	for _, res := range results {
		if res.Status == capture.StatusFailed || res.Status == capture.StatusSkipped {
			n++
		}
	}
	return n
}
