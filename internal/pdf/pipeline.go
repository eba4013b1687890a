package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/invoice-builder/internal/metrics"
	"github.com/diewo77/invoice-builder/internal/models"
)

// Converter turns a rendered Document into PDF bytes. Converters that print
// Document.HTML report ConsumesMarkup; for the others the template is not rendered.
type Converter interface {
	Name() string
	ConsumesMarkup() bool
	Convert(ctx context.Context, doc *Document) ([]byte, error)
}

var pdfMagic = []byte("%PDF")

// ErrNotPDF is returned when a converter produced something that is not a PDF.
var ErrNotPDF = errors.New("pdf: converter output is not a PDF")

// Pipeline runs render, convert, stamp and emit. Any failing step aborts the
// whole run and nothing is returned.
type Pipeline struct {
	lang      string
	converter Converter
	stamper   Stamper
	signer    Signer
	metrics   *metrics.Collector
}

// NewPipeline wires the pipeline described by opts.
func NewPipeline(opts Options, m *metrics.Collector) (*Pipeline, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	var conv Converter = NewChromeConverter(opts.ChromeURL, opts.Page)
	if opts.Converter == ConverterNative {
		conv = NewNativeConverter(opts.Page)
	}
	var st Stamper
	if opts.Stamp {
		st = NewTextStamper()
	}
	return NewPipelineWith(opts.Lang, conv, st, nil, m), nil
}

// NewPipelineWith assembles a pipeline from explicit parts. stamper and signer may be nil.
func NewPipelineWith(lang string, conv Converter, stamper Stamper, signer Signer, m *metrics.Collector) *Pipeline {
	return &Pipeline{lang: lang, converter: conv, stamper: stamper, signer: signer, metrics: m}
}

// Render produces the final PDF for a hydrated invoice.
func (p *Pipeline) Render(ctx context.Context, inv *models.Invoice) ([]byte, error) {
	start := time.Now()

	doc, err := build(inv, p.lang, p.converter.ConsumesMarkup())
	if err != nil {
		return nil, p.fail("render", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail("render", err)
	}

	out, err := p.converter.Convert(ctx, doc)
	if err != nil {
		return nil, p.fail("convert", err)
	}

	if p.stamper != nil {
		if out, err = p.stamper.Stamp(ctx, out, SignatureText(doc.Model.SignerName)); err != nil {
			return nil, p.fail("stamp", err)
		}
	}
	if p.signer != nil {
		if out, err = p.signer.Sign(ctx, out); err != nil {
			return nil, p.fail("sign", err)
		}
	}

	if !bytes.HasPrefix(out, pdfMagic) {
		return nil, p.fail("emit", ErrNotPDF)
	}
	p.metrics.ObserveRender(p.converter.Name(), time.Since(start))
	return out, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.RenderFailed(stage)
	return fmt.Errorf("pdf %s: %w", stage, err)
}
