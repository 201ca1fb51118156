package capture

import (
	"fmt"
	"log/slog"
	"time"

	"panelshot/crop"
)

// ShrinkScreenshot saves the padding-free content of the first element
// matching selector.
//
// The element is forced to shrink-wrap its content, then clipped to its box
// minus its computed padding. A collapsed result falls back to an uncropped
// element capture.
func ShrinkScreenshot(p Page, selector, path string, visible, settle time.Duration, logger *slog.Logger) (Status, error) {
	if err := p.WaitVisible(selector, visible); err != nil {
		return StatusSkipped, fmt.Errorf("%w: %s: %w", ErrNotVisible, selector, err)
	}

	err := p.Style(selector, map[string]string{
		"display": "inline-block",
		"width":   "fit-content",
	})
	if err != nil {
		return StatusFailed, fmt.Errorf("shrink %s: %w", selector, err)
	}
	time.Sleep(settle)

	box, err := p.Box(selector)
	if err != nil {
		return StatusFailed, fmt.Errorf("bounding box %s: %w", selector, err)
	}
	pad, err := p.Padding(selector)
	if err != nil {
		return StatusFailed, fmt.Errorf("padding %s: %w", selector, err)
	}

	clip, ok := crop.Shrink(box, pad)
	if !ok {
		logger.Warn("element collapsed to zero size, taking standard screenshot", "selector", selector, "box", box)
		return fallback(p, selector, path)
	}
	if err := p.CaptureClip(clip, path); err != nil {
		return StatusFailed, fmt.Errorf("capture %s: %w", path, err)
	}
	return StatusOK, nil
}

// SmartCropScreenshot saves an element whose content overflows its box.
//
// Overflow is opened up, then the region is sized from the furthest edges of
// the element's direct children. A non-positive result falls back to an
// uncropped element capture.
func SmartCropScreenshot(p Page, selector, path string, visible, settle time.Duration, logger *slog.Logger) (Status, error) {
	if err := p.WaitVisible(selector, visible); err != nil {
		return StatusSkipped, fmt.Errorf("%w: %s: %w", ErrNotVisible, selector, err)
	}

	err := p.Style(selector, map[string]string{
		"height":   "auto",
		"overflow": "visible",
	})
	if err != nil {
		return StatusFailed, fmt.Errorf("open overflow %s: %w", selector, err)
	}
	time.Sleep(settle)

	box, err := p.Box(selector)
	if err != nil {
		return StatusFailed, fmt.Errorf("bounding box %s: %w", selector, err)
	}
	children, err := p.ChildBoxes(selector)
	if err != nil {
		return StatusFailed, fmt.Errorf("child boxes %s: %w", selector, err)
	}

	clip, ok := crop.Smart(box, children)
	if !ok {
		logger.Warn("crop calculation failed, taking standard screenshot", "selector", selector, "box", box)
		return fallback(p, selector, path)
	}
	if err := p.CaptureClip(clip, path); err != nil {
		return StatusFailed, fmt.Errorf("capture %s: %w", path, err)
	}
	return StatusOK, nil
}

func fallback(p Page, selector, path string) (Status, error) {
	if err := p.CaptureElement(selector, path); err != nil {
		return StatusFailed, fmt.Errorf("capture element %s: %w", selector, err)
	}
	return StatusFallback, nil
}
