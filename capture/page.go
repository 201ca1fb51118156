// Package capture drives the login, navigation and screenshot steps for the
// console targets and the Kibana panels.
package capture

import (
	"context"
	"time"

	"panelshot/config"
	"panelshot/crop"
)

// Page is an open browser tab. Implementations are bound to the context they
// were launched with.
type Page interface {
	Navigate(url string) error
	Location() (string, error)

	Fill(selector, value string) error
	PressEnter(selector string) error
	Click(selector string) error
	// ClickText clicks the innermost visible element whose text matches the
	// case-insensitive pattern.
	ClickText(pattern string, timeout time.Duration) error

	WaitVisible(selector string, timeout time.Duration) error
	WaitURL(match func(string) bool, timeout time.Duration) error
	WaitNetworkIdle(timeout time.Duration) error

	Eval(expression string) error
	// Style sets inline style properties on the first element matching selector.
	Style(selector string, props map[string]string) error
	Box(selector string) (crop.Rect, error)
	Padding(selector string) (crop.Padding, error)
	ChildBoxes(selector string) ([]crop.Rect, error)

	CaptureViewport(path string) error
	CaptureFullPage(path string) error
	CaptureElement(selector, path string) error
	CaptureClip(clip crop.Rect, path string) error
}

// LaunchOptions configures a browser session.
type LaunchOptions struct {
	Headless bool
	Viewport config.Viewport
}

// Launcher opens an isolated browser session. The returned func closes it.
type Launcher func(ctx context.Context, opts LaunchOptions) (Page, func(), error)
