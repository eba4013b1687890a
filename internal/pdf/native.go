package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/diewo77/invoice-builder/i18n"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	mconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	accent = &props.Color{Red: 29, Green: 78, Blue: 216}
	white  = &props.Color{Red: 255, Green: 255, Blue: 255}
	shade  = &props.Color{Red: 243, Green: 244, Blue: 246}
)

// NativeConverter lays the view model out directly with maroto. It needs no
// browser and is the fallback for hosts without Chrome; print media, background
// and script settings do not apply to it.
type NativeConverter struct {
	page PageSetup
}

func NewNativeConverter(page PageSetup) *NativeConverter {
	return &NativeConverter{page: page}
}

func (n *NativeConverter) Name() string { return ConverterNative }

// ConsumesMarkup is false: the layout is built from the view model, not the HTML.
func (n *NativeConverter) ConsumesMarkup() bool { return false }

func (n *NativeConverter) config() *entity.Config {
	return mconfig.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(n.page.MarginMM).
		WithTopMargin(n.page.MarginMM).
		WithRightMargin(n.page.MarginMM).
		WithBottomMargin(n.page.MarginMM).
		Build()
}

// Convert generates the PDF. maroto is not context aware, so generation runs
// aside and Convert returns as soon as ctx is done.
func (n *NativeConverter) Convert(ctx context.Context, doc *Document) ([]byte, error) {
	if doc == nil || doc.Model == nil {
		return nil, fmt.Errorf("native converter: empty document")
	}
	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := n.generate(doc.Model)
		ch <- result{b, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.b, r.err
	}
}

func (n *NativeConverter) generate(vm *ViewModel) ([]byte, error) {
	m := maroto.New(n.config())
	t := func(code string) string { return i18n.T(vm.Lang, code) }

	right := props.Text{Align: align.Right, Size: 9}
	bold := props.Text{Style: fontstyle.Bold, Size: 10}

	// header
	m.AddRow(14,
		text.NewCol(8, t("invoice"), props.Text{Size: 20, Style: fontstyle.Bold, Color: accent}),
		text.NewCol(4, vm.Number, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 4}),
	)
	m.AddRow(5, text.NewCol(8, vm.Sender.Company, props.Text{Size: 10}), text.NewCol(4, t("invoice_date")+": "+vm.InvoiceDate, right))
	m.AddRow(8, col.New(8), text.NewCol(4, t("due_date")+": "+vm.DueDate, right))

	// parties
	m.AddRows(row.New(7).Add(
		text.NewCol(6, strings.ToUpper(t("from")), props.Text{Size: 9, Style: fontstyle.Bold, Top: 1.5, Left: 2}),
		text.NewCol(6, strings.ToUpper(t("bill_to")), props.Text{Size: 9, Style: fontstyle.Bold, Top: 1.5, Left: 2}),
	).WithStyle(&props.Cell{BackgroundColor: shade}))
	left, rightLines := partyLines(vm.Sender, t), partyLines(vm.Customer, t)
	for i := 0; i < max(len(left), len(rightLines)); i++ {
		m.AddRow(5, text.NewCol(6, at(left, i), props.Text{Size: 9, Left: 2}), text.NewCol(6, at(rightLines, i), props.Text{Size: 9, Left: 2}))
	}
	m.AddRow(6, col.New(12))

	// line items
	head := props.Text{Size: 9, Style: fontstyle.Bold, Color: white, Top: 2, Left: 1}
	headRight := head
	headRight.Align = align.Right
	headRight.Right = 1
	m.AddRows(row.New(8).Add(
		text.NewCol(6, t("item"), head),
		text.NewCol(2, t("quantity"), headRight),
		text.NewCol(2, t("unit_price"), headRight),
		text.NewCol(2, t("line_total"), headRight),
	).WithStyle(&props.Cell{BackgroundColor: accent}))
	cell := props.Text{Size: 9, Top: 1.5, Left: 1}
	cellRight := props.Text{Size: 9, Top: 1.5, Align: align.Right, Right: 1}
	for _, it := range vm.Items {
		m.AddRow(7,
			text.NewCol(6, it.Name, cell),
			text.NewCol(2, it.Quantity, cellRight),
			text.NewCol(2, it.UnitPrice, cellRight),
			text.NewCol(2, it.Total, cellRight),
		)
	}

	// totals
	m.AddRow(4, col.New(12))
	m.AddRow(6, col.New(7), text.NewCol(3, t("subtotal"), props.Text{Size: 9}), text.NewCol(2, vm.Subtotal, right))
	m.AddRow(6, col.New(7), text.NewCol(3, t("tax")+" ("+vm.TaxRate+")", props.Text{Size: 9}), text.NewCol(2, vm.TaxAmount, right))
	m.AddRow(8, col.New(7), text.NewCol(3, t("total_amount"), bold), text.NewCol(2, vm.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}))

	if vm.Notes != "" {
		m.AddRow(6, col.New(12))
		m.AddRow(5, text.NewCol(12, t("notes"), bold))
		for _, l := range splitLines(vm.Notes) {
			m.AddRow(5, text.NewCol(12, l, props.Text{Size: 9}))
		}
	}
	if vm.Sender.BankDetails != "" {
		m.AddRow(6, col.New(12))
		m.AddRow(5, text.NewCol(12, t("bank_details"), bold))
		for _, l := range splitLines(vm.Sender.BankDetails) {
			m.AddRow(5, text.NewCol(12, l, props.Text{Size: 9}))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("native converter: %w", err)
	}
	return doc.GetBytes(), nil
}

func partyLines(p Party, t func(string) string) []string {
	var out []string
	for _, s := range []string{p.Company, p.Name} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	out = append(out, splitLines(p.Address)...)
	if p.Email != "" {
		out = append(out, p.Email)
	}
	if p.TaxVatID != "" {
		out = append(out, t("vat_id")+": "+p.TaxVatID)
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
