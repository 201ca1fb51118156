package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"panelshot/config"
)

// RunConsole processes every console target. A failing target is logged and
// recorded; the remaining targets still run.
func (r *Runner) RunConsole(ctx context.Context) {
	for _, t := range r.cfg.Targets {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled, skipping remaining targets", "next", t.Label)
			return
		}

		start := time.Now()
		logger := r.logger.With("target", t.Label)
		logger.Info("starting processing", "base_url", t.BaseURL, "mode", t.Mode)

		err := r.processTarget(ctx, t, logger)
		switch {
		case err == nil:
			logger.Info("completed", "elapsed", time.Since(start).Round(time.Millisecond))
		case errors.Is(err, ErrLoginTimeout):
			// recorded by login
		default:
			logger.Error("critical error processing target", "error", err)
			r.record(ctx, Result{Target: t.Label, Step: StepTarget, Status: StatusFailed, Err: err, Elapsed: time.Since(start)})
		}
	}
}

func (r *Runner) processTarget(ctx context.Context, t config.Target, logger *slog.Logger) error {
	c := r.cfg.Console

	viewport := c.FullViewport
	if t.Mode == config.ModeStatus {
		viewport = c.StatusViewport
	}

	p, closePage, err := r.launch(ctx, LaunchOptions{Headless: r.cfg.Headless, Viewport: viewport})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer closePage()

	if err := r.login(ctx, p, t, logger); err != nil {
		return err
	}

	waitIdle(p, c.IdleTimeout.Duration, logger)
	time.Sleep(c.Settle.Duration)

	switch t.Mode {
	case config.ModeStatus:
		path := r.outputPath(t.Label + "_status_pane.png")
		r.step(ctx, t.Label, StepStatusPane, path, logger, func() (Status, error) {
			return SmartCropScreenshot(p, c.StatusSelector, path, c.VisibleTimeout.Duration, c.StyleSettle.Duration, logger)
		})
		return nil
	default:
		return r.captureFull(ctx, p, t, logger)
	}
}

func (r *Runner) captureFull(ctx context.Context, p Page, t config.Target, logger *slog.Logger) error {
	c := r.cfg.Console

	logger.Info("capturing home dashboard")
	home := r.outputPath(t.Label + "_dashboard.png")
	r.step(ctx, t.Label, StepDashboard, home, logger, func() (Status, error) {
		return ShrinkScreenshot(p, c.HomeSelector, home, c.VisibleTimeout.Duration, c.StyleSettle.Duration, logger)
	})

	logger.Info("navigating to health issues", "url", t.HealthURL())
	if err := p.Navigate(t.HealthURL()); err != nil {
		return fmt.Errorf("open health issues: %w", err)
	}
	waitIdle(p, c.IdleTimeout.Duration, logger)

	if err := p.ClickText(c.HealthButton, c.ButtonTimeout.Duration); err != nil {
		logger.Info("could not find button, proceeding", "pattern", c.HealthButton, "error", err)
	}
	waitIdle(p, c.IdleTimeout.Duration, logger)
	time.Sleep(c.Settle.Duration)

	logger.Info("capturing health panel")
	health := r.outputPath(t.Label + "_health.png")
	r.step(ctx, t.Label, StepHealth, health, logger, func() (Status, error) {
		return ShrinkScreenshot(p, c.HealthSelector, health, c.VisibleTimeout.Duration, c.StyleSettle.Duration, logger)
	})
	return nil
}

// login signs in to the console. When the home page is not reached in time a
// diagnostic screenshot is saved and ErrLoginTimeout is returned.
func (r *Runner) login(ctx context.Context, p Page, t config.Target, logger *slog.Logger) error {
	c := r.cfg.Console
	start := time.Now()

	logger.Info("logging in")
	if err := p.Navigate(t.LoginURL()); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}

	user := fmt.Sprintf("input[name=%q]", c.UsernameField)
	pass := fmt.Sprintf("input[name=%q]", c.PasswordField)
	if err := p.Fill(user, c.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := p.Fill(pass, c.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := p.PressEnter(pass); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	if err := p.WaitURL(pathHasSuffix(c.HomePath), c.LoginTimeout.Duration); err != nil {
		loginErr := fmt.Errorf("%w within %s: %w", ErrLoginTimeout, c.LoginTimeout, err)
		res := Result{Target: t.Label, Step: StepLogin, Status: StatusFailed, Err: loginErr}

		path := r.outputPath(t.Label + "_error_login.png")
		if cerr := p.CaptureViewport(path); cerr != nil {
			logger.Error("could not save login error screenshot", "error", cerr)
		} else {
			res.File = path
		}
		res.Elapsed = time.Since(start)
		logger.Error("login failed or timed out", "error", err, "screenshot", res.File)
		r.record(ctx, res)
		return loginErr
	}

	logger.Info("login successful")
	return nil
}

func (r *Runner) outputPath(name string) string {
	return filepath.Join(r.cfg.OutputDir, name)
}

// pathHasSuffix matches URLs whose path ends with suffix, ignoring query and fragment.
func pathHasSuffix(suffix string) func(string) bool {
	return func(raw string) bool {
		u, err := url.Parse(raw)
		if err != nil {
			return false
		}
		return strings.HasSuffix(u.Path, suffix)
	}
}
