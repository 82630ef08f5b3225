// Package browser drives a headless Chrome through go-rod and turns a URL
// into the rendered content the solver pipeline scans: raw HTML, body
// inner text and the concatenated text of inline script tags.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quizsolver-backend/lib/htmlutil"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrNavigateTimeout marks a navigation that exceeded the per-action
// timeout, so callers can report it apart from generic render failures.
var ErrNavigateTimeout = errors.New("timeout rendering page")

// RenderedPage is the per-request snapshot every extraction strategy
// scans. It is discarded at the end of the request.
type RenderedPage struct {
	HTML       string
	BodyText   string
	ScriptText string
}

type Config struct {
	// DebuggerURL attaches to an already-running Chrome. When empty a
	// headless instance is launched.
	DebuggerURL string `json:"debugger_url"`
	// Bin overrides the Chrome binary used by the launcher.
	Bin                 string `json:"bin"`
	NavigationTimeoutMs int    `json:"navigation_timeout_ms"`
}

func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Browser owns one Chrome instance shared by all requests. Each render
// runs in its own incognito page, so requests stay independent.
type Browser struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
}

func New(cfg Config) *Browser {
	return &Browser{cfg: cfg}
}

// Start connects to an existing Chrome or launches a new one. Calling it
// on a live instance is a no-op.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		if _, err := b.browser.Version(); err == nil {
			return nil
		}
		_ = b.browser.Close()
		b.browser = nil
	}

	controlURL := b.cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(true)
		if b.cfg.Bin != "" {
			launch = launch.Bin(b.cfg.Bin)
		}
		url, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	b.browser = browser
	return nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}

func (b *Browser) newPage(ctx context.Context) (*rod.Page, error) {
	if err := b.Start(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	browser := b.browser
	b.mu.Unlock()

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page.Context(ctx), nil
}

func (b *Browser) navigate(page *rod.Page, url string) error {
	timeout := b.cfg.NavigationTimeout()

	if err := page.Timeout(timeout).Navigate(url); err != nil {
		return classifyNavError(err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return classifyNavError(err)
	}
	// give client-side rendering a moment to settle, like waiting for
	// network idle would
	_ = page.WaitStable(2 * time.Second)
	return nil
}

func classifyNavError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrNavigateTimeout, err)
	}
	return err
}

// Render loads url and captures the full page snapshot. Body and script
// text prefer in-page evaluation and fall back to parsing the captured
// HTML; body text degrades to the raw HTML as a last resort.
func (b *Browser) Render(ctx context.Context, url string) (RenderedPage, error) {
	page, err := b.newPage(ctx)
	if err != nil {
		return RenderedPage{}, err
	}
	defer page.Close()

	if err := b.navigate(page, url); err != nil {
		return RenderedPage{}, err
	}

	html, err := page.HTML()
	if err != nil {
		return RenderedPage{}, fmt.Errorf("capture html: %w", err)
	}

	bodyText := ""
	if res, err := page.Eval(`() => document.body.innerText`); err == nil && !res.Value.Nil() {
		bodyText = res.Value.String()
	}
	if bodyText == "" {
		// eval can fail on pages without a body; parse the capture instead
		bodyText = htmlutil.BodyText(html)
	}
	if bodyText == "" {
		bodyText = html
	}

	scriptText := ""
	script := `() => Array.from(document.querySelectorAll("script"))
		.map(s => s.textContent || "")
		.filter(t => t.length > 0)
		.join("\n")`
	if res, err := page.Eval(script); err == nil && !res.Value.Nil() {
		scriptText = res.Value.String()
	}
	if scriptText == "" {
		scriptText = htmlutil.ScriptText(html)
	}

	return RenderedPage{
		HTML:       html,
		BodyText:   bodyText,
		ScriptText: scriptText,
	}, nil
}

// Snapshot performs the reduced follow-up render: page load plus an HTML
// capture, nothing else.
func (b *Browser) Snapshot(ctx context.Context, url string) (string, error) {
	page, err := b.newPage(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := b.navigate(page, url); err != nil {
		return "", err
	}
	return page.HTML()
}
