package pdf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/invoice-builder/internal/config"
	"github.com/diewo77/invoice-builder/internal/metrics"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func hydratedInvoice() *models.Invoice {
	c := models.NewCustomer(models.CustomerProfile{
		CompanyName: "Acme", CustomerName: "Jane Roe", CustomerAddress: "1 Main St", PostalCode: "75001",
		CustomerEmail: "jane@acme.test", CustomerTaxVatID: "FR123",
	})
	s := models.NewSender(models.SenderProfile{
		SenderCompanyName: "Me Ltd", SenderFullName: "John Doe", SenderAddress: "2 High St",
		SenderTaxVatID: "GB999", BankDetails: "IBAN GB00 0000",
	})
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := models.NewInvoice("INV-2024-001", models.InvoiceDetails{
		InvoiceDate: day, DueDate: day.AddDate(0, 0, 30), Currency: "EUR", Notes: "Thank you",
		CustomerID: c.ID, SenderID: s.ID,
		Subtotal: dec("1234.5"), TaxRate: dec("0.2"), TotalAmount: dec("1481.4"),
	}, []models.LineItem{
		models.NewLineItem("Consulting", dec("2.5"), dec("400"), dec("1000")),
		models.NewLineItem("Hosting", dec("1"), dec("234.5"), dec("234.5")),
	})
	inv.Customer = c
	inv.Sender = s
	return inv
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 1, 9, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, "Invoice_INV-2024-001_20250110.pdf", FileName("INV-2024-001", at))
}

func TestBuildDocument(t *testing.T) {
	doc, err := Build(hydratedInvoice(), "en")
	require.NoError(t, err)

	vm := doc.Model
	assert.Equal(t, "EUR 1,234.50", vm.Subtotal)
	assert.Equal(t, "EUR 246.90", vm.TaxAmount)
	assert.Equal(t, "20%", vm.TaxRate)
	assert.Equal(t, "2.5", vm.Items[0].Quantity)
	assert.Equal(t, "EUR 400.00", vm.Items[0].UnitPrice)
	assert.Equal(t, "2024-03-31", vm.DueDate)
	assert.Equal(t, "1 Main St\n75001", vm.Customer.Address)
	assert.Equal(t, "John Doe", vm.SignerName)

	for _, want := range []string{"INV-2024-001", "Consulting", "EUR 1,481.40", "Jane Roe", "IBAN GB00 0000", "Bill to"} {
		assert.Contains(t, doc.HTML, want)
	}
}

func TestBuildRequiresHydration(t *testing.T) {
	inv := hydratedInvoice()
	inv.Sender = nil
	_, err := Build(inv, "en")
	assert.ErrorIs(t, err, ErrNotHydrated)
}

func TestOptionsFromConfig(t *testing.T) {
	o := OptionsFromConfig(config.PDFConfig{Converter: "native", Lang: "en-GB", Stamp: true})
	assert.Equal(t, "en", o.Lang)
	assert.Equal(t, A4, o.Page)
	require.NoError(t, o.validate())

	_, err := NewPipeline(Options{Converter: "wkhtml"}, nil)
	assert.Error(t, err)
}

func TestNativePipelineProducesPDF(t *testing.T) {
	p, err := NewPipeline(Options{Converter: ConverterNative, Lang: "en", Stamp: true, Page: A4}, nil)
	require.NoError(t, err)

	out, err := p.Render(context.Background(), hydratedInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF")
}

func TestNativeConverterMargins(t *testing.T) {
	cfg := NewNativeConverter(A4).config()
	require.NotNil(t, cfg.Margins)
	assert.Equal(t, 10.0, cfg.Margins.Left)
	assert.Equal(t, 10.0, cfg.Margins.Top)
	assert.Equal(t, 10.0, cfg.Margins.Right)
	assert.Equal(t, 10.0, cfg.Margins.Bottom)
}

func TestDefaultConverterIsChrome(t *testing.T) {
	p, err := NewPipeline(Options{Converter: ConverterChrome, Lang: "en", Page: A4}, nil)
	require.NoError(t, err)
	assert.Equal(t, ConverterChrome, p.converter.Name())
	assert.True(t, p.converter.ConsumesMarkup())
}

// recordingConverter keeps the document handed to the wrapped converter.
type recordingConverter struct {
	Converter
	got *Document
}

func (r *recordingConverter) Convert(ctx context.Context, doc *Document) ([]byte, error) {
	r.got = doc
	return r.Converter.Convert(ctx, doc)
}

func TestNativePipelineSkipsMarkup(t *testing.T) {
	conv := &recordingConverter{Converter: NewNativeConverter(A4)}
	p := NewPipelineWith("en", conv, nil, nil, nil)

	_, err := p.Render(context.Background(), hydratedInvoice())
	require.NoError(t, err)
	require.NotNil(t, conv.got)
	assert.Empty(t, conv.got.HTML, "native layout must not render the template")
	assert.Equal(t, "INV-2024-001", conv.got.Model.Number)
}

// recordingStamper remembers the text passed to the wrapped stamper.
type recordingStamper struct {
	Stamper
	text string
}

func (r *recordingStamper) Stamp(ctx context.Context, in []byte, text string) ([]byte, error) {
	r.text = text
	return r.Stamper.Stamp(ctx, in, text)
}

func TestTextStamperWatermarksA4Pages(t *testing.T) {
	st := &recordingStamper{Stamper: NewTextStamper()}
	p := NewPipelineWith("en", NewNativeConverter(A4), st, nil, nil)

	out, err := p.Render(context.Background(), hydratedInvoice())
	require.NoError(t, err)
	assert.Equal(t, "Digitally signed by: John Doe", st.text)

	conf := model.NewDefaultConfiguration()
	ok, err := api.HasWatermarks(bytes.NewReader(out), conf)
	require.NoError(t, err)
	assert.True(t, ok, "stamped output must carry the watermark")

	dims, err := api.PageDims(bytes.NewReader(out), conf)
	require.NoError(t, err)
	require.NotEmpty(t, dims)
	for _, d := range dims {
		assert.InDelta(t, 595.28, d.Width, 1)
		assert.InDelta(t, 841.89, d.Height, 1)
	}
}

func TestSignatureTextIgnoresDocumentLanguage(t *testing.T) {
	assert.Equal(t, "Digitally signed by: Jean Dupont", SignatureText("Jean Dupont"))
}

func TestNativePipelineWithoutStamp(t *testing.T) {
	p, err := NewPipeline(Options{Converter: ConverterNative, Lang: "fr", Page: A4}, nil)
	require.NoError(t, err)

	out, err := p.Render(context.Background(), hydratedInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

type fakeConverter struct {
	out []byte
	err error
	got *Document
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) ConsumesMarkup() bool { return true }

func (f *fakeConverter) Convert(_ context.Context, doc *Document) ([]byte, error) {
	f.got = doc
	return f.out, f.err
}

type fakeStamper struct {
	text string
	err  error
}

func (f *fakeStamper) Stamp(_ context.Context, in []byte, text string) ([]byte, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return append(in, []byte("\n%stamped")...), nil
}

func TestPipelineStampsSenderName(t *testing.T) {
	conv := &fakeConverter{out: []byte("%PDF-1.7 body")}
	st := &fakeStamper{}
	p := NewPipelineWith("en", conv, st, nil, nil)

	out, err := p.Render(context.Background(), hydratedInvoice())
	require.NoError(t, err)
	assert.Equal(t, "Digitally signed by: John Doe", st.text)
	assert.True(t, strings.HasSuffix(string(out), "%stamped"))
	require.NotNil(t, conv.got)
	assert.NotEmpty(t, conv.got.HTML)
}

func TestPipelineAbortsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		conv    *fakeConverter
		stamper Stamper
		stage   string
		wantErr error
	}{
		{"convert fails", &fakeConverter{err: boom}, nil, "convert", boom},
		{"stamp fails", &fakeConverter{out: []byte("%PDF-1.7")}, &fakeStamper{err: boom}, "stamp", boom},
		{"not a pdf", &fakeConverter{out: []byte("<html>")}, nil, "emit", ErrNotPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewCollector()
			p := NewPipelineWith("en", tt.conv, tt.stamper, nil, m)
			out, err := p.Render(context.Background(), hydratedInvoice())
			assert.Nil(t, out, "no partial output")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderFailures.WithLabelValues(tt.stage)))
		})
	}
}

func TestPipelineHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipelineWith("en", NewNativeConverter(A4), nil, nil, nil)
	_, err := p.Render(ctx, hydratedInvoice())
	assert.ErrorIs(t, err, context.Canceled)
}
