package utils

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderReciboPDF carga la página de recibo del frontend y la imprime en
// PDF para adjuntarla al correo de confirmación. Si el frontend no está
// configurado se salta sin error: el correo sale igual sin adjunto.
func RenderReciboPDF(cpCode string) ([]byte, error) {
	base := os.Getenv("FRONTEND_RECIBO_URL")
	if base == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("cp_code", cpCode)
	fullURL := fmt.Sprintf("%s?%s", base, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
