// internal/audit/render-report/chrome.go
package renderreport

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 in inches, 20px margins at 96 dpi.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
	marginIn   = 20.0 / 96.0
)

// ChromeRenderer prints pages with a headless Chrome. The browser starts on
// first use and is shared; every render gets its own tab.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewChromeRenderer(cfg *Config) *ChromeRenderer {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("disable-dev-shm-usage", true))
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{allocCtx: allocCtx, allocCancel: cancel}
}

func (r *ChromeRenderer) Name() string { return RendererChrome }

func (r *ChromeRenderer) browser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx != nil && r.browserCtx.Err() == nil {
		return r.browserCtx, nil
	}

	ctx, cancel := chromedp.NewContext(r.allocCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	r.browserCtx, r.browserCancel = ctx, cancel
	return ctx, nil
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	browserCtx, err := r.browser()
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}

// Close stops the browser process.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browserCancel != nil {
		r.browserCancel()
		r.browserCtx, r.browserCancel = nil, nil
	}
	r.allocCancel()
	return nil
}
