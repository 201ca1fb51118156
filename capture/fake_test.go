package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"panelshot/config"
	"panelshot/crop"
)

// fakePage is an in-memory Page. Every selector is visible unless hidden.
type fakePage struct {
	url    string
	hidden map[string]bool

	boxes    map[string]crop.Rect
	paddings map[string]crop.Padding
	children map[string][]crop.Rect

	loginOK      bool // PressEnter lands on /cmf/home
	kibanaLogin  bool // navigation redirects to a login page until submitted
	clickTextErr error
	navigateErr  map[string]error

	filled   map[string]string
	styles   map[string]map[string]string
	clips    []crop.Rect
	elements []string
	calls    []string
}

func newFakePage() *fakePage {
	return &fakePage{
		hidden:      map[string]bool{},
		boxes:       map[string]crop.Rect{},
		paddings:    map[string]crop.Padding{},
		children:    map[string][]crop.Rect{},
		navigateErr: map[string]error{},
		filled:      map[string]string{},
		styles:      map[string]map[string]string{},
		loginOK:     true,
	}
}

func (f *fakePage) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakePage) Navigate(url string) error {
	f.calls = append(f.calls, "navigate "+url)
	for sub, err := range f.navigateErr {
		if strings.Contains(url, sub) {
			return err
		}
	}
	f.url = url
	if f.kibanaLogin {
		f.url = "http://kibana.local/login?next=" + url
		f.filled["next"] = url
	}
	return nil
}

func (f *fakePage) Location() (string, error) { return f.url, nil }

func (f *fakePage) Fill(selector, value string) error {
	f.filled[selector] = value
	return nil
}

func (f *fakePage) PressEnter(selector string) error {
	f.calls = append(f.calls, "enter "+selector)
	if f.loginOK {
		f.url = "http://cm.local:7180/cmf/home"
	}
	return nil
}

func (f *fakePage) Click(selector string) error {
	f.calls = append(f.calls, "click "+selector)
	if f.kibanaLogin && f.filled["input[name='username']"] != "" {
		f.kibanaLogin = false
		f.url = f.filled["next"]
	}
	return nil
}

func (f *fakePage) ClickText(pattern string, timeout time.Duration) error {
	f.calls = append(f.calls, "clicktext "+pattern)
	return f.clickTextErr
}

func (f *fakePage) WaitVisible(selector string, timeout time.Duration) error {
	if f.hidden[selector] {
		return errors.New("timeout")
	}
	return nil
}

func (f *fakePage) WaitURL(match func(string) bool, timeout time.Duration) error {
	if match(f.url) {
		return nil
	}
	return fmt.Errorf("url %s did not match", f.url)
}

func (f *fakePage) WaitNetworkIdle(timeout time.Duration) error { return nil }

func (f *fakePage) Eval(expression string) error {
	f.calls = append(f.calls, "eval "+expression)
	return nil
}

func (f *fakePage) Style(selector string, props map[string]string) error {
	f.styles[selector] = props
	return nil
}

func (f *fakePage) Box(selector string) (crop.Rect, error) {
	if b, ok := f.boxes[selector]; ok {
		return b, nil
	}
	return crop.Rect{X: 0, Y: 0, Width: 200, Height: 100}, nil
}

func (f *fakePage) Padding(selector string) (crop.Padding, error) {
	return f.paddings[selector], nil
}

func (f *fakePage) ChildBoxes(selector string) ([]crop.Rect, error) {
	return f.children[selector], nil
}

func (f *fakePage) write(path string) error {
	return os.WriteFile(path, []byte("\x89PNG"), 0644)
}

func (f *fakePage) CaptureViewport(path string) error {
	f.calls = append(f.calls, "viewport")
	return f.write(path)
}

func (f *fakePage) CaptureFullPage(path string) error {
	f.calls = append(f.calls, "fullpage")
	return f.write(path)
}

func (f *fakePage) CaptureElement(selector, path string) error {
	f.elements = append(f.elements, selector)
	return f.write(path)
}

func (f *fakePage) CaptureClip(clip crop.Rect, path string) error {
	f.clips = append(f.clips, clip)
	return f.write(path)
}

// fakeLauncher hands out pages in order; a nil page fails the launch.
type fakeLauncher struct {
	pages  []*fakePage
	opts   []LaunchOptions
	next   int
	closed int
}

func (l *fakeLauncher) launch(ctx context.Context, opts LaunchOptions) (Page, func(), error) {
	l.opts = append(l.opts, opts)
	if l.next >= len(l.pages) {
		return nil, nil, errors.New("no more pages")
	}
	p := l.pages[l.next]
	l.next++
	if p == nil {
		return nil, nil, errors.New("chrome failed to start")
	}
	return p, func() { l.closed++ }, nil
}

type memRecorder struct {
	results []Result
}

func (m *memRecorder) Record(ctx context.Context, res Result) {
	m.results = append(m.results, res)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a config with no waits, writing into a temp dir.
func testConfig(t *testing.T, targets ...config.Target) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Console.Username = "admin"
	cfg.Console.Password = "secret"
	cfg.Console.Settle = config.Duration{}
	cfg.Console.StyleSettle = config.Duration{}
	cfg.Kibana.Settle = config.Duration{}
	cfg.Kibana.ZoomSettle = config.Duration{}
	cfg.Targets = targets
	return cfg
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
