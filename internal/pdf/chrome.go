package pdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const mmPerInch = 25.4

// ChromeConverter prints the HTML through headless Chrome with print media emulated.
// With an empty remoteURL a local browser is launched for each conversion.
type ChromeConverter struct {
	remoteURL string
	page      PageSetup
}

func NewChromeConverter(remoteURL string, page PageSetup) *ChromeConverter {
	return &ChromeConverter{remoteURL: remoteURL, page: page}
}

func (c *ChromeConverter) Name() string { return ConverterChrome }

func (c *ChromeConverter) ConsumesMarkup() bool { return true }

func (c *ChromeConverter) Convert(ctx context.Context, doc *Document) ([]byte, error) {
	if doc == nil || doc.HTML == "" {
		return nil, fmt.Errorf("chrome converter: empty document")
	}
	var (
		allocCtx context.Context
		cancel   context.CancelFunc
	)
	if c.remoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(ctx, c.remoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.DisableGPU)
		allocCtx, cancel = chromedp.NewExecAllocator(ctx, opts...)
	}
	defer cancel()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	margin := c.page.MarginMM / mmPerInch
	var out []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.HTML).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		emulation.SetEmulatedMedia().WithMedia("print"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			b, _, err := page.PrintToPDF().
				WithPrintBackground(c.page.PrintBackground).
				WithPaperWidth(c.page.WidthMM / mmPerInch).
				WithPaperHeight(c.page.HeightMM / mmPerInch).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			if err != nil {
				return err
			}
			out = b
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome converter: %w", err)
	}
	return out, nil
}
