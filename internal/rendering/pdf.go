package rendering

import (
	"context"
	"log/slog"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches, with half-inch margins on every side.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	marginIn      = 0.5
)

// PDFExporter converts a standalone HTML document into PDF bytes.
type PDFExporter interface {
	ExportPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePDFExporter prints HTML with a headless Chrome started per call.
type ChromePDFExporter struct {
	execPath string
	logger   *slog.Logger
}

// NewChromePDFExporter creates an exporter. An empty execPath lets chromedp locate Chrome.
func NewChromePDFExporter(execPath string, logger *slog.Logger) *ChromePDFExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromePDFExporter{execPath: execPath, logger: logger}
}

func (e *ChromePDFExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	return opts
}

// ExportPDF loads html into a blank tab and prints it as A4 with backgrounds.
// The browser is closed before returning, also on failure.
func (e *ChromePDFExporter) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
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
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		e.logger.Error("pdf export failed", "error", err)
		return nil, &ExportError{Format: "pdf", Message: "browser printing failed", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &ExportError{Format: "pdf", Message: "browser returned an empty document"}
	}
	e.logger.Debug("pdf exported", "bytes", len(pdf))
	return pdf, nil
}
