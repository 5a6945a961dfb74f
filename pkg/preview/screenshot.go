package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/uiforge/internal/logger"
	"github.com/jmylchreest/uiforge/internal/version"
)

// ErrChromeNotFound is returned when no browser binary can be located.
var ErrChromeNotFound = errors.New("no Chrome/Chromium binary found")

// Options controls Screenshot.
type Options struct {
	Width    int           // Viewport width in CSS pixels (default 1280)
	Height   int           // Viewport height in CSS pixels (default 800)
	FullPage bool          // Capture the whole page instead of the viewport
	Settle   time.Duration // Wait after load for the Tailwind script to apply styles (default 1s)
	Timeout  time.Duration // Overall limit (default 30s)
	Chrome   string        // Browser binary; discovered when empty
}

// DefaultOptions returns the options used for zero fields.
func DefaultOptions() Options {
	return Options{
		Width:   1280,
		Height:  800,
		Settle:  time.Second,
		Timeout: 30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Settle <= 0 {
		o.Settle = def.Settle
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.Chrome == "" {
		o.Chrome = FindChromePath()
	}
	return o
}

// Screenshot renders markup in headless Chrome and returns a PNG.
// Fragments are wrapped with Document first.
func Screenshot(ctx context.Context, markup string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if opts.Chrome == "" {
		return nil, ErrChromeNotFound
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(opts.Chrome),
		chromedp.UserAgent(version.UserAgent()),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	var buf []byte
	var capture chromedp.Action = chromedp.CaptureScreenshot(&buf)
	if opts.FullPage {
		capture = chromedp.FullScreenshot(&buf, 100)
	}

	logger.Debug("rendering screenshot",
		"chrome", opts.Chrome,
		"width", opts.Width,
		"height", opts.Height,
		"full_page", opts.FullPage)

	err := chromedp.Run(timeoutCtx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate("about:blank"),
		setContent(Document(markup, "")),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		capture,
	)
	if err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}
	return buf, nil
}

// setContent replaces the current page's document with doc.
func setContent(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	})
}
