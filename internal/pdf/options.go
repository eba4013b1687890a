// Package pdf turns a hydrated invoice into a stamped PDF:
// render (view model + HTML), convert, stamp, emit.
package pdf

import (
	"fmt"
	"time"

	"github.com/diewo77/invoice-builder/i18n"
	"github.com/diewo77/invoice-builder/internal/config"
)

const (
	ConverterNative = "native"
	ConverterChrome = "chrome"
)

// PageSetup describes the printed page. Sizes are in millimetres.
type PageSetup struct {
	WidthMM         float64
	HeightMM        float64
	MarginMM        float64
	PrintBackground bool
}

// A4 with 10 mm margins and background graphics.
var A4 = PageSetup{WidthMM: 210, HeightMM: 297, MarginMM: 10, PrintBackground: true}

// Options is built once at startup and handed to NewPipeline. It is never mutated afterwards.
type Options struct {
	Converter string
	ChromeURL string
	Lang      string
	Stamp     bool
	Page      PageSetup
}

func OptionsFromConfig(c config.PDFConfig) Options {
	return Options{
		Converter: c.Converter,
		ChromeURL: c.ChromeURL,
		Lang:      i18n.Normalize(c.Lang),
		Stamp:     c.Stamp,
		Page:      A4,
	}
}

func (o Options) validate() error {
	switch o.Converter {
	case ConverterNative, ConverterChrome:
		return nil
	}
	return fmt.Errorf("pdf: unknown converter %q", o.Converter)
}

// FileName is the download name: Invoice_{number}_{yyyyMMdd}.pdf, dated at download time in UTC.
func FileName(number string, now time.Time) string {
	return fmt.Sprintf("Invoice_%s_%s.pdf", number, now.UTC().Format("20060102"))
}
