// Package i18n holds the UI and document labels for the supported languages.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLang is used when nothing better matches.
const DefaultLang = "fr"

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

var messages = map[string]map[string]string{
	"fr": {
		// validation codes
		"required":             "Requis",
		"must_be_positive":     "Doit être positif",
		"must_not_be_negative": "Ne doit pas être négatif",
		"invalid_email":        "Adresse e-mail invalide",
		"must_be_on_or_after":  "Doit être postérieure ou égale à la date de facture",
		"invalid_uuid":         "Identifiant invalide",
		"invalid_date":         "Date invalide",
		"invalid_number":       "Nombre invalide",
		"too_long":             "Trop long",
		"too_short":            "Trop court",
		"invalid_currency":     "Devise invalide",
		"inconsistent_total":   "Total incohérent",

		// invoice document
		"invoice":        "Facture",
		"invoice_number": "Numéro",
		"invoice_date":   "Date de facture",
		"due_date":       "Échéance",
		"from":           "Émetteur",
		"bill_to":        "Facturé à",
		"vat_id":         "N° TVA",
		"item":           "Désignation",
		"quantity":       "Quantité",
		"unit_price":     "Prix unitaire",
		"line_total":     "Total",
		"subtotal":       "Sous-total",
		"tax":            "TVA",
		"total_amount":   "Total TTC",
		"notes":          "Notes",
		"bank_details":   "Coordonnées bancaires",
		"signed_by":      "Signé numériquement par : %s",
	},
	"en": {
		"required":             "Required",
		"must_be_positive":     "Must be positive",
		"must_not_be_negative": "Must not be negative",
		"invalid_email":        "Invalid email address",
		"must_be_on_or_after":  "Must be on or after the invoice date",
		"invalid_uuid":         "Invalid identifier",
		"invalid_date":         "Invalid date",
		"invalid_number":       "Invalid number",
		"too_long":             "Too long",
		"too_short":            "Too short",
		"invalid_currency":     "Invalid currency",
		"inconsistent_total":   "Inconsistent total",

		"invoice":        "Invoice",
		"invoice_number": "Number",
		"invoice_date":   "Invoice date",
		"due_date":       "Due date",
		"from":           "From",
		"bill_to":        "Bill to",
		"vat_id":         "VAT ID",
		"item":           "Item",
		"quantity":       "Quantity",
		"unit_price":     "Unit price",
		"line_total":     "Total",
		"subtotal":       "Subtotal",
		"tax":            "Tax",
		"total_amount":   "Total",
		"notes":          "Notes",
		"bank_details":   "Bank details",
		"signed_by":      "Digitally signed by: %s",
	},
}

// T returns the label for code in lang. Unknown languages fall back to French,
// unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf formats the label for code with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}

// DetectLanguage picks a supported language from an Accept-Language header value.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Normalize maps any tag-like string ("en-GB", "FR") to a supported language.
func Normalize(lang string) string {
	if lang == "" {
		return DefaultLang
	}
	return DetectLanguage(lang)
}

// Tag returns the language tag for a supported language code.
func Tag(lang string) language.Tag {
	if Normalize(lang) == "en" {
		return language.English
	}
	return language.French
}
