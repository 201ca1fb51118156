package cd

import (
	"context"
	"time"

	"panelshot/capture"
	"panelshot/crop"
)

// ActionTimeout bounds every browser action that has no timeout of its own.
const ActionTimeout = 60 * time.Second

// Session is a capture.Page backed by a chromedp browser.
type Session struct {
	ctx  context.Context
	idle *IdleTracker
}

// Launch implements capture.Launcher with a fresh browser per call.
func Launch(ctx context.Context, opts capture.LaunchOptions) (capture.Page, func(), error) {
	browser, closeBrowser, idle, err := CreateBrowser(ctx, opts.Headless, opts.Viewport.Width, opts.Viewport.Height)
	if err != nil {
		return nil, nil, err
	}
	return &Session{ctx: browser, idle: idle}, closeBrowser, nil
}

func (s *Session) bounded() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, ActionTimeout)
}

func (s *Session) Navigate(url string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return Navigate(ctx, url)
}

func (s *Session) Location() (string, error) {
	ctx, cancel := s.bounded()
	defer cancel()
	return GetURL(ctx)
}

func (s *Session) Fill(selector, value string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return InputText(ctx, selector, value)
}

func (s *Session) PressEnter(selector string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return PressEnter(ctx, selector)
}

func (s *Session) Click(selector string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return Click(ctx, selector)
}

func (s *Session) ClickText(pattern string, timeout time.Duration) error {
	return ClickText(s.ctx, pattern, timeout)
}

func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	return ElementVisible(s.ctx, selector, timeout)
}

func (s *Session) WaitURL(match func(string) bool, timeout time.Duration) error {
	return WaitForURL(s.ctx, match, timeout)
}

func (s *Session) WaitNetworkIdle(timeout time.Duration) error {
	return WaitNetworkIdle(s.ctx, s.idle, timeout)
}

func (s *Session) Eval(expression string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return RunEval(ctx, expression)
}

func (s *Session) Style(selector string, props map[string]string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return SetStyle(ctx, selector, props)
}

func (s *Session) Box(selector string) (crop.Rect, error) {
	ctx, cancel := s.bounded()
	defer cancel()
	return BoundingBox(ctx, selector)
}

func (s *Session) Padding(selector string) (crop.Padding, error) {
	ctx, cancel := s.bounded()
	defer cancel()
	return ComputedPadding(ctx, selector)
}

func (s *Session) ChildBoxes(selector string) ([]crop.Rect, error) {
	ctx, cancel := s.bounded()
	defer cancel()
	return ChildBoxes(ctx, selector)
}

func (s *Session) CaptureViewport(path string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return CaptureScreenshot(ctx, path)
}

func (s *Session) CaptureFullPage(path string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return CaptureFullPage(ctx, path)
}

func (s *Session) CaptureElement(selector, path string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return CaptureElement(ctx, selector, path)
}

func (s *Session) CaptureClip(clip crop.Rect, path string) error {
	ctx, cancel := s.bounded()
	defer cancel()
	return CaptureClip(ctx, clip, path)
}

var _ capture.Page = (*Session)(nil)
