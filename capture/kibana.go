package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"panelshot/config"
)

var panelIDPattern = regexp.MustCompile(`/view/[^/]+/([a-f0-9-]+)`)

// PanelID extracts the panel id from a Kibana dashboard URL of the form
// .../view/<dashboard>/<panel>. The match is best effort; callers fall back
// to a full-page capture when ok is false.
func PanelID(rawURL string) (id string, ok bool) {
	m := panelIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// PanelSelector returns the selector of the embeddable panel with the given id.
func PanelSelector(id string) string {
	return fmt.Sprintf("#panel-%s > div > div.euiPanel.euiPanel--plain.embPanel", id)
}

// RunKibana captures every configured Kibana panel, one browser session per panel.
func (r *Runner) RunKibana(ctx context.Context) {
	for _, panel := range r.cfg.Kibana.Panels {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled, skipping remaining panels", "next", panel.Name)
			return
		}

		start := time.Now()
		logger := r.logger.With("target", panel.Name)
		if err := r.capturePanel(ctx, panel, logger); err != nil {
			logger.Error("panel capture failed", "error", err)
			if !errors.Is(err, ErrLoginTimeout) {
				r.record(ctx, Result{Target: panel.Name, Step: StepPanel, Status: StatusFailed, Err: err, Elapsed: time.Since(start)})
			}
		}
	}
}

func (r *Runner) capturePanel(ctx context.Context, panel config.Panel, logger *slog.Logger) error {
	k := r.cfg.Kibana
	start := time.Now()

	p, closePage, err := r.launch(ctx, LaunchOptions{Headless: r.cfg.Headless, Viewport: k.Viewport})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer closePage()

	logger.Info("navigating", "url", panel.URL)
	if err := p.Navigate(panel.URL); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	if loc, err := p.Location(); err == nil && strings.Contains(loc, "login") {
		if err := r.kibanaLogin(ctx, p, panel, logger); err != nil {
			return err
		}
	}

	logger.Info("waiting for dashboard to load")
	waitIdle(p, k.IdleTimeout.Duration, logger)
	if err := p.WaitVisible(k.ReadySelector, k.ReadyTimeout.Duration); err != nil {
		logger.Warn("chart selector not detected, capturing anyway", "selector", k.ReadySelector)
	}
	time.Sleep(k.Settle.Duration)

	if err := p.Eval(fmt.Sprintf("document.body.style.zoom = %q", k.Zoom)); err != nil {
		logger.Warn("could not apply zoom", "zoom", k.Zoom, "error", err)
	}
	time.Sleep(k.ZoomSettle.Duration)

	path := r.outputPath(panel.Name + ".png")
	r.step(ctx, panel.Name, StepPanel, path, logger, func() (Status, error) {
		if id, ok := PanelID(panel.URL); ok {
			sel := PanelSelector(id)
			err := p.WaitVisible(sel, k.FieldTimeout.Duration)
			if err == nil {
				err = p.CaptureElement(sel, path)
			}
			if err == nil {
				return StatusOK, nil
			}
			logger.Warn("panel element not captured, falling back to full page", "panel", id, "error", err)
		} else {
			logger.Warn("no panel id in URL, capturing full page")
		}

		if err := p.CaptureFullPage(path); err != nil {
			return StatusFailed, fmt.Errorf("capture full page: %w", err)
		}
		return StatusFallback, nil
	})

	logger.Debug("panel done", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// kibanaLogin fills the Kibana login form and waits to leave the login page.
func (r *Runner) kibanaLogin(ctx context.Context, p Page, panel config.Panel, logger *slog.Logger) error {
	k := r.cfg.Kibana
	start := time.Now()

	logger.Info("login page detected, entering credentials")
	fail := func(err error) error {
		loginErr := fmt.Errorf("%w: %w", ErrLoginTimeout, err)
		res := Result{Target: panel.Name, Step: StepLogin, Status: StatusFailed, Err: loginErr}
		path := r.outputPath(panel.Name + "_error_login.png")
		if cerr := p.CaptureViewport(path); cerr != nil {
			logger.Error("could not save login error screenshot", "error", cerr)
		} else {
			res.File = path
		}
		res.Elapsed = time.Since(start)
		r.record(ctx, res)
		return loginErr
	}

	if k.Username == "" || k.Password == "" {
		return fail(errors.New("KIBANA_USER and KIBANA_PASSWORD are not set"))
	}
	if err := p.WaitVisible("input[name='username']", k.FieldTimeout.Duration); err != nil {
		return fail(fmt.Errorf("username field: %w", err))
	}
	if err := p.Fill("input[name='username']", k.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := p.Fill("input[name='password']", k.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := p.Click("button[type='submit']"); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	leftLogin := func(u string) bool { return !strings.Contains(u, "login") }
	if err := p.WaitURL(leftLogin, k.LoginTimeout.Duration); err != nil {
		return fail(err)
	}
	logger.Info("login successful")
	return nil
}
