package cd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"panelshot/crop"
)

// ErrTimeout is returned when a bounded wait expires.
var ErrTimeout = errors.New("timed out")

const pollInterval = 250 * time.Millisecond

// CreateBrowser starts a fresh browser instance, returned in 2 parts. The first part is the context, which manages the browser actions and states and must be passed to any function used in this package. The second part closes the browser and releases its allocator.
//
// - Headless determines if the browser window is visible or not.
//
// - width and height set both the window and the emulated viewport.
//
// Every call gets its own temporary profile, so sessions never share cookies.
func CreateBrowser(parent context.Context, headless bool, width, height int64) (context.Context, context.CancelFunc, *IdleTracker, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(int(width), int(height)),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	closeBrowser := func() {
		ctxCancel()
		allocCancel()
	}

	idle := NewIdleTracker()
	chromedp.ListenTarget(ctx, idle.Listen)

	if err := chromedp.Run(ctx,
		network.Enable(),
		chromedp.EmulateViewport(width, height),
		chromedp.Navigate("about:blank"),
	); err != nil {
		closeBrowser()
		return nil, nil, nil, fmt.Errorf("error starting browser: %w", err)
	}

	return ctx, closeBrowser, idle, nil
}

// Navigate directs the browser to a specified URL and waits for the load event.
//
// - ctx is the Chromedp context which manages the underlying browser actions and states.
//
// - url is the web address to which the browser should navigate.
func Navigate(ctx context.Context, url string) error {
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("error navigating to URL %q: %w", url, err)
	}
	return nil
}

// InputText replaces the value of an input element by simulating typing.
//
// - selector specifies the CSS selector of the input element to target.
//
// - input is the string value to be typed into the element.
func InputText(ctx context.Context, selector string, input string) error {
	if err := chromedp.Run(ctx,
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, input, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to input text into %q: %w", selector, err)
	}
	return nil
}

// PressEnter sends the Enter key to the element, submitting its form.
func PressEnter(ctx context.Context, selector string) error {
	if err := chromedp.Run(ctx, chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to press enter on %q: %w", selector, err)
	}
	return nil
}

// Click performs a click action on the first visible DOM element matching a CSS selector.
//
// - ctx is the Chromedp context which manages the underlying browser actions and states.
//
// - selector is the CSS selector used to locate the element to be clicked.
func Click(ctx context.Context, selector string) error {
	if err := chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click on selector %q: %w", selector, err)
	}
	return nil
}

const clickMarker = "data-panelshot-click"

// ClickText clicks the innermost visible element whose text matches pattern, case-insensitively.
//
// The page is polled until a match appears or timeout expires, in which case ErrTimeout is returned.
// The click itself is bounded by the same timeout.
func ClickText(ctx context.Context, pattern string, timeout time.Duration) error {
	js := fmt.Sprintf(`(() => {
		const re = new RegExp(%s, 'i');
		const visible = el => { const r = el.getBoundingClientRect(); return r.width > 0 && r.height > 0; };
		const matches = el => re.test((el.innerText || el.textContent || '').trim());
		for (const el of document.querySelectorAll('body *')) {
			if (!visible(el) || !matches(el)) continue;
			if ([...el.children].some(c => visible(c) && matches(c))) continue;
			el.setAttribute(%s, '1');
			return true;
		}
		return false;
	})()`, jsString(pattern), jsString(clickMarker))

	err := poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		var found bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(js, &found)); err != nil {
			return false, err
		}
		return found, nil
	})
	if err != nil {
		return fmt.Errorf("no element with text matching %q: %w", pattern, err)
	}
	return within(ctx, timeout, func(ctx context.Context) error {
		return Click(ctx, "["+clickMarker+"]")
	})
}

// within runs action under a deadline, reporting an expired deadline as ErrTimeout.
func within(ctx context.Context, timeout time.Duration, action func(context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := action(tctx)
	if err != nil && tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
	}
	return err
}

// ElementVisible waits until the first element matching selector is visible.
//
// - timeout is the maximum time to wait. ErrTimeout is returned when it expires.
func ElementVisible(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := chromedp.Run(tctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w waiting %s for %q to be visible", ErrTimeout, timeout, selector)
	}
	return err
}

// GetURL retrieves the current page URL from the browser.
func GetURL(ctx context.Context) (string, error) {
	var value string
	if err := chromedp.Run(ctx, chromedp.Location(&value)); err != nil {
		return "", fmt.Errorf("error retrieving current URL: %w", err)
	}
	return value, nil
}

// WaitForURL blocks until the current URL satisfies match or timeout expires.
//
// URL lookups that fail are retried until the deadline.
func WaitForURL(ctx context.Context, match func(string) bool, timeout time.Duration) error {
	var last string
	err := poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		url, err := GetURL(ctx)
		if err != nil {
			return false, nil
		}
		last = url
		return match(url), nil
	})
	if err != nil {
		return fmt.Errorf("url still %q: %w", last, err)
	}
	return nil
}

// RunEval executes JavaScript code in the page and discards its result.
func RunEval(ctx context.Context, eval string) error {
	if err := chromedp.Run(ctx, chromedp.Evaluate(eval, nil)); err != nil {
		return fmt.Errorf("error executing JavaScript: %w", err)
	}
	return nil
}

// SetStyle assigns inline style properties to the first element matching selector.
func SetStyle(ctx context.Context, selector string, props map[string]string) error {
	encoded, err := json.Marshal(props)
	if err != nil {
		return err
	}
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) throw new Error('no element matches selector');
		Object.assign(el.style, %s);
	})()`, jsString(selector), encoded)
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, nil)); err != nil {
		return fmt.Errorf("error setting style on %q: %w", selector, err)
	}
	return nil
}

// BoundingBox returns the rendered box of the first element matching selector, in page coordinates.
func BoundingBox(ctx context.Context, selector string) (crop.Rect, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
	})()`, jsString(selector))

	var box *crop.Rect
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &box)); err != nil {
		return crop.Rect{}, fmt.Errorf("error measuring %q: %w", selector, err)
	}
	if box == nil {
		return crop.Rect{}, fmt.Errorf("no bounding box for %q", selector)
	}
	return *box, nil
}

// ComputedPadding returns the computed padding of the first element matching selector.
func ComputedPadding(ctx context.Context, selector string) (crop.Padding, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return null;
		const s = window.getComputedStyle(el);
		return {
			top: parseFloat(s.paddingTop) || 0,
			right: parseFloat(s.paddingRight) || 0,
			bottom: parseFloat(s.paddingBottom) || 0,
			left: parseFloat(s.paddingLeft) || 0,
		};
	})()`, jsString(selector))

	var pad *crop.Padding
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &pad)); err != nil {
		return crop.Padding{}, fmt.Errorf("error reading padding of %q: %w", selector, err)
	}
	if pad == nil {
		return crop.Padding{}, fmt.Errorf("no element for %q", selector)
	}
	return *pad, nil
}

// ChildBoxes returns the rendered boxes of the direct children of the first element matching selector.
func ChildBoxes(ctx context.Context, selector string) ([]crop.Rect, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return null;
		return [...el.children].map(c => {
			const r = c.getBoundingClientRect();
			return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
		});
	})()`, jsString(selector))

	var boxes []crop.Rect
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &boxes)); err != nil {
		return nil, fmt.Errorf("error measuring children of %q: %w", selector, err)
	}
	return boxes, nil
}

// CaptureScreenshot captures the current viewport to filename.
func CaptureScreenshot(ctx context.Context, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return save(filename, buf)
}

// CaptureFullPage captures the whole scrollable page to filename as PNG.
func CaptureFullPage(ctx context.Context, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return fmt.Errorf("failed to capture full page: %w", err)
	}
	return save(filename, buf)
}

// CaptureElement captures the first element matching selector, uncropped.
func CaptureElement(ctx context.Context, selector, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.Screenshot(selector, &buf, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to capture %q: %w", selector, err)
	}
	return save(filename, buf)
}

// CaptureClip captures the given page region to filename, including parts outside the viewport.
func CaptureClip(ctx context.Context, clip crop.Rect, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			WithClip(&page.Viewport{
				X:      clip.X,
				Y:      clip.Y,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			Do(ctx)
		return err
	})); err != nil {
		return fmt.Errorf("failed to capture clip %+v: %w", clip, err)
	}
	return save(filename, buf)
}

func save(filename string, buf []byte) error {
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	return nil
}

// poll calls check every pollInterval until it reports true or timeout expires.
func poll(ctx context.Context, timeout time.Duration, check func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		ok, err := check(ctx)
		if ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		if time.Now().After(deadline) {
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}
