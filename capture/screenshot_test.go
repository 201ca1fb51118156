package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"panelshot/crop"
)

func TestShrinkScreenshot_ClipsPadding(t *testing.T) {
	p := newFakePage()
	p.boxes["#main"] = crop.Rect{X: 40, Y: 25, Width: 200, Height: 100}
	p.paddings["#main"] = crop.Padding{Top: 10, Right: 10, Bottom: 10, Left: 10}
	path := filepath.Join(t.TempDir(), "a_dashboard.png")

	status, err := ShrinkScreenshot(p, "#main", path, 0, 0, discardLogger())
	if err != nil {
		t.Fatalf("ShrinkScreenshot failed: %v", err)
	}
	if status != StatusOK {
		t.Errorf("expected status ok, got %s", status)
	}
	if len(p.clips) != 1 {
		t.Fatalf("expected one clipped capture, got %d", len(p.clips))
	}
	want := crop.Rect{X: 50, Y: 35, Width: 180, Height: 80}
	if p.clips[0] != want {
		t.Errorf("expected clip %+v, got %+v", want, p.clips[0])
	}
	if got := p.styles["#main"]; got["display"] != "inline-block" || got["width"] != "fit-content" {
		t.Errorf("expected shrink-wrap styles, got %v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected screenshot file: %v", err)
	}
}

func TestShrinkScreenshot_CollapsedFallsBack(t *testing.T) {
	p := newFakePage()
	p.boxes["#main"] = crop.Rect{X: 0, Y: 0, Width: 20, Height: 100}
	p.paddings["#main"] = crop.Padding{Top: 10, Right: 10, Bottom: 10, Left: 10}
	path := filepath.Join(t.TempDir(), "a_dashboard.png")

	status, err := ShrinkScreenshot(p, "#main", path, 0, 0, discardLogger())
	if err != nil {
		t.Fatalf("collapse must not be an error: %v", err)
	}
	if status != StatusFallback {
		t.Errorf("expected status fallback, got %s", status)
	}
	if len(p.clips) != 0 {
		t.Errorf("expected no clipped capture, got %v", p.clips)
	}
	if len(p.elements) != 1 || p.elements[0] != "#main" {
		t.Errorf("expected uncropped element capture of #main, got %v", p.elements)
	}
}

func TestShrinkScreenshot_NotVisible(t *testing.T) {
	p := newFakePage()
	p.hidden["#main"] = true
	path := filepath.Join(t.TempDir(), "a_dashboard.png")

	status, err := ShrinkScreenshot(p, "#main", path, 0, 0, discardLogger())
	if !errors.Is(err, ErrNotVisible) {
		t.Errorf("expected ErrNotVisible, got %v", err)
	}
	if status != StatusSkipped {
		t.Errorf("expected status skipped, got %s", status)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file for an invisible element")
	}
}

func TestSmartCropScreenshot_GrowsToChildren(t *testing.T) {
	p := newFakePage()
	p.boxes[".status-pane"] = crop.Rect{X: 0, Y: 0, Width: 1000, Height: 100}
	p.children[".status-pane"] = []crop.Rect{
		{X: 0, Y: 0, Width: 300, Height: 50},
		{X: 0, Y: 50, Width: 250, Height: 100},
	}
	path := filepath.Join(t.TempDir(), "b_status_pane.png")

	status, err := SmartCropScreenshot(p, ".status-pane", path, 0, 0, discardLogger())
	if err != nil {
		t.Fatalf("SmartCropScreenshot failed: %v", err)
	}
	if status != StatusOK {
		t.Errorf("expected status ok, got %s", status)
	}
	want := crop.Rect{X: 0, Y: 0, Width: 315, Height: 165}
	if len(p.clips) != 1 || p.clips[0] != want {
		t.Errorf("expected clip %+v, got %v", want, p.clips)
	}
	if got := p.styles[".status-pane"]; got["overflow"] != "visible" || got["height"] != "auto" {
		t.Errorf("expected overflow styles, got %v", got)
	}
}

func TestSmartCropScreenshot_ZeroSizeFallsBack(t *testing.T) {
	p := newFakePage()
	p.boxes[".status-pane"] = crop.Rect{}
	path := filepath.Join(t.TempDir(), "b_status_pane.png")

	status, err := SmartCropScreenshot(p, ".status-pane", path, 0, 0, discardLogger())
	if err != nil {
		t.Fatalf("zero size must not be an error: %v", err)
	}
	if status != StatusFallback {
		t.Errorf("expected status fallback, got %s", status)
	}
	if len(p.elements) != 1 {
		t.Errorf("expected uncropped element capture, got %v", p.elements)
	}
}

func TestSmartCropScreenshot_NotVisible(t *testing.T) {
	p := newFakePage()
	p.hidden[".status-pane"] = true

	status, err := SmartCropScreenshot(p, ".status-pane", filepath.Join(t.TempDir(), "x.png"), 0, 0, discardLogger())
	if !errors.Is(err, ErrNotVisible) || status != StatusSkipped {
		t.Errorf("expected skipped with ErrNotVisible, got %s %v", status, err)
	}
}
