// Command shoot captures one element of one page with a chosen crop heuristic.
// It is used to try selectors before adding them to the run configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"panelshot/capture"
	"panelshot/cd"
	"panelshot/config"
	"panelshot/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	url := flag.String("url", "", "page to open")
	selector := flag.String("selector", "body", "CSS selector of the element to capture")
	mode := flag.String("crop", "shrink", "crop heuristic: shrink, smart or none")
	out := flag.String("out", "shot.png", "output file")
	headless := flag.Bool("headless", true, "run the browser without a visible window")
	width := flag.Int64("width", 1920, "viewport width")
	height := flag.Int64("height", 1080, "viewport height")
	wait := flag.Duration("wait", 15*time.Second, "how long to wait for the element")
	flag.Parse()

	capt, err := captureFunc(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "shoot:", err)
		return 2
	}
	if *url == "" {
		fmt.Fprintln(os.Stderr, "shoot: -url is required")
		return 2
	}

	logger, err := logging.SetupLogger("", "debug")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error setting up logging:", err)
		return 1
	}

	// Setup to handle termination signals to cleanly close the browser
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	page, closeBrowser, err := cd.Launch(ctx, capture.LaunchOptions{
		Headless: *headless,
		Viewport: config.Viewport{Width: *width, Height: *height},
	})
	if err != nil {
		logger.Error("error creating browser", "error", err)
		return 1
	}
	defer closeBrowser()

	if err := page.Navigate(*url); err != nil {
		logger.Error("navigation failed", "url", *url, "error", err)
		return 1
	}
	if err := page.WaitNetworkIdle(30 * time.Second); err != nil {
		logger.Warn("network did not go idle", "error", err)
	}

	status, err := capt(page, *selector, *out, *wait, logger)
	if err != nil {
		logger.Error("capture failed", "selector", *selector, "status", status, "error", err)
		return 1
	}
	logger.Info("screenshot saved", "file", *out, "status", status)
	return 0
}

type captureFn func(p capture.Page, selector, path string, wait time.Duration, logger *slog.Logger) (capture.Status, error)

// captureFunc maps a -crop value to its capture routine.
func captureFunc(mode string) (captureFn, error) {
	switch mode {
	case "shrink":
		return func(p capture.Page, selector, path string, wait time.Duration, logger *slog.Logger) (capture.Status, error) {
			return capture.ShrinkScreenshot(p, selector, path, wait, 500*time.Millisecond, logger)
		}, nil
	case "smart":
		return func(p capture.Page, selector, path string, wait time.Duration, logger *slog.Logger) (capture.Status, error) {
			return capture.SmartCropScreenshot(p, selector, path, wait, 500*time.Millisecond, logger)
		}, nil
	case "none":
		return func(p capture.Page, selector, path string, wait time.Duration, _ *slog.Logger) (capture.Status, error) {
			if err := p.WaitVisible(selector, wait); err != nil {
				return capture.StatusSkipped, err
			}
			if err := p.CaptureElement(selector, path); err != nil {
				return capture.StatusFailed, err
			}
			return capture.StatusOK, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown -crop %q: want shrink, smart or none", mode)
	}
}
