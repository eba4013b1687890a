package pdf

import (
	"errors"

	"github.com/diewo77/invoice-builder/i18n"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/money"
	"github.com/diewo77/invoice-builder/view"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ErrNotHydrated is returned when the invoice comes without its customer or sender.
var ErrNotHydrated = errors.New("pdf: invoice is missing its customer or sender")

type Party struct {
	Company     string
	Name        string
	Address     string
	Email       string
	TaxVatID    string
	BankDetails string
}

type Row struct {
	Name      string
	Quantity  string
	UnitPrice string
	Total     string
}

// ViewModel is the invoice projected for display: amounts are formatted in the invoice currency.
type ViewModel struct {
	Lang        string
	Number      string
	InvoiceDate string
	DueDate     string
	Currency    string
	Notes       string
	Sender      Party
	Customer    Party
	Items       []Row
	Subtotal    string
	TaxRate     string
	TaxAmount   string
	Total       string
	SignerName  string
}

// Document carries the view model and, for markup converters, its HTML rendering.
type Document struct {
	Model *ViewModel
	HTML  string
}

// NewViewModel projects a hydrated invoice.
func NewViewModel(inv *models.Invoice, lang string) (*ViewModel, error) {
	if inv.Customer == nil || inv.Sender == nil {
		return nil, ErrNotHydrated
	}
	tag := i18n.Tag(lang)
	amount := func(d decimal.Decimal) string { return money.FormatIn(tag, d, inv.Currency) }

	vm := &ViewModel{
		Lang:        lang,
		Number:      inv.InvoiceNumber,
		InvoiceDate: inv.InvoiceDate.Format(dateLayout),
		DueDate:     inv.DueDate.Format(dateLayout),
		Currency:    inv.Currency,
		Notes:       inv.Notes,
		Sender: Party{
			Company:     inv.Sender.SenderCompanyName,
			Name:        inv.Sender.SenderFullName,
			Address:     inv.Sender.SenderAddress,
			TaxVatID:    inv.Sender.SenderTaxVatID,
			BankDetails: inv.Sender.BankDetails,
		},
		Customer: Party{
			Company:  inv.Customer.CompanyName,
			Name:     inv.Customer.CustomerName,
			Address:  inv.Customer.FullAddress(),
			Email:    inv.Customer.CustomerEmail,
			TaxVatID: inv.Customer.CustomerTaxVatID,
		},
		Subtotal:   amount(inv.Subtotal),
		TaxRate:    money.Percent(inv.TaxRate),
		TaxAmount:  amount(inv.TaxAmount()),
		Total:      amount(inv.TotalAmount),
		SignerName: inv.Sender.SenderFullName,
	}
	for _, item := range inv.LineItems {
		vm.Items = append(vm.Items, Row{
			Name:      item.ItemName,
			Quantity:  money.FormatQuantity(item.Quantity),
			UnitPrice: amount(item.UnitPrice),
			Total:     amount(item.Total),
		})
	}
	return vm, nil
}

// Build renders the invoice into a Document with both the view model and the HTML.
func Build(inv *models.Invoice, lang string) (*Document, error) {
	return build(inv, lang, true)
}

func build(inv *models.Invoice, lang string, markup bool) (*Document, error) {
	vm, err := NewViewModel(inv, lang)
	if err != nil {
		return nil, err
	}
	doc := &Document{Model: vm}
	if !markup {
		return doc, nil
	}
	if doc.HTML, err = view.RenderString("invoice.html", lang, vm); err != nil {
		return nil, err
	}
	return doc, nil
}
