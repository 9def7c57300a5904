package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer prints documents with headless Chromium. It requires a Chrome or
// Chromium binary on the host and backs both the rendering service binary
// and in-process report conversion.
type Renderer struct {
	Timeout time.Duration
}

var _ Converter = (*Renderer)(nil)

// NewRenderer creates a renderer with the given per-document timeout.
func NewRenderer(timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Renderer{Timeout: timeout}
}

// Convert loads an HTML string into a blank page and prints it.
func (r *Renderer) Convert(ctx context.Context, html string, opts Options) (*Result, error) {
	return r.print(ctx, opts, chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	})
}

// ConvertURL navigates to a live page and prints it. Navigation and the
// optional selector wait share the load budget; rendering itself stays on
// the renderer timeout.
func (r *Renderer) ConvertURL(ctx context.Context, pageURL string, opts URLOptions) (*Result, error) {
	load := chromedp.Tasks{chromedp.Navigate(pageURL)}
	if opts.WaitForSelector != "" {
		load = append(load, chromedp.WaitVisible(opts.WaitForSelector, chromedp.ByQuery))
	}

	budget := 30 * time.Second
	if opts.WaitTimeoutMS > 0 {
		budget = time.Duration(opts.WaitTimeoutMS) * time.Millisecond
	}

	return r.print(ctx, opts.Options, chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, budget)
			defer cancel()
			return load.Do(ctx)
		}),
	})
}

func (r *Renderer) print(ctx context.Context, opts Options, load chromedp.Tasks) (*Result, error) {
	start := time.Now()
	opts = opts.withDefaults()

	width, height, measureHeight, err := resolveDimensions(opts)
	if err != nil {
		return nil, err
	}
	margins, err := parseMargins(opts)
	if err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.Timeout)
	defer cancelTimeout()

	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.ViewportWidth), 1200,
			chromedp.EmulateScale(opts.DeviceScaleFactor)),
	}
	tasks = append(tasks, load...)

	var pdf []byte
	tasks = append(tasks,
		chromedp.WaitReady("body"),
		// Give fonts and images a moment to load before measuring.
		chromedp.Sleep(500*time.Millisecond),
		emulatePrintMedia(opts.ColorScheme),
		// Let print styles apply before the height measurement.
		chromedp.Sleep(100*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if measureHeight {
				// Auto height must reflect the print-media layout, so the
				// measurement happens after the emulation above.
				var scrollHeight float64
				if err := chromedp.Evaluate(`document.body.scrollHeight`, &scrollHeight).Do(ctx); err != nil {
					return err
				}
				height = scrollHeight / 96
			}
			var err error
			pdf, _, err = printParams(opts, width, height, margins).Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}

	return &Result{PDF: pdf, RenderTimeMS: time.Since(start).Milliseconds()}, nil
}

// emulatePrintMedia switches the page to print media so measurements and
// breaks match the printed layout, optionally pinning prefers-color-scheme.
func emulatePrintMedia(colorScheme string) chromedp.Action {
	params := emulation.SetEmulatedMedia().WithMedia("print")
	if colorScheme == "light" || colorScheme == "dark" {
		params = params.WithFeatures([]*emulation.MediaFeature{
			{Name: "prefers-color-scheme", Value: colorScheme},
		})
	}
	return params
}

func printParams(opts Options, width, height float64, m pageMargins) *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithLandscape(opts.Landscape).
		WithPrintBackground(opts.PrintBackground).
		WithScale(opts.Scale).
		WithMarginTop(m.top).
		WithMarginBottom(m.bottom).
		WithMarginLeft(m.left).
		WithMarginRight(m.right).
		WithPreferCSSPageSize(opts.PreferCSSPageSize)
	if width > 0 && height > 0 {
		params = params.WithPaperWidth(width).WithPaperHeight(height)
	}
	return params
}
