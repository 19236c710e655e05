package i18n

import (
	"context"
	"strings"
)

// DefaultLang is the language of the shop floor.
const DefaultLang = "it"

var supported = map[string]bool{"it": true, "en": true}

var catalog = map[string]map[string]string{
	"it": {
		"required":              "Obbligatorio",
		"invalid_format":        "Formato non valido",
		"invalid_email":         "Email non valida",
		"invalid_value":         "Valore non valido",
		"must_be_positive":      "Deve essere positivo",
		"must_not_be_negative":  "Non può essere negativo",
		"select_recipient":      "Seleziona almeno un destinatario",
		"invalid_range":         "Intervallo di date non valido",
		"no_results":            "Nessun risultato trovato",
		"must_be_3_digits":      "Deve contenere esattamente 3 cifre",
		"must_be_5_digits":      "Deve contenere esattamente 5 cifre",
		"out_of_range":          "Fuori intervallo",
		"unknown_seller":        "Venditore non presente in elenco",
		"duplicate":             "Già presente",
		"not_found":             "Non trovato",
		"confirmation":          "Confermare l'operazione",
		"report.title":          "Report Vendite Filtrato",
		"report.col.date":       "Data",
		"report.col.customer":   "Cliente",
		"report.col.seller":     "Venditore",
		"report.col.lensType":   "Tipo Lente",
		"report.col.orderRank":  "Ordine Lente",
		"report.col.bin":        "Rif.Vaschetta",
		"report.col.number":     "N. Ordine",
		"report.col.status":     "Stato",
		"report.col.amount":     "Importo (€)",
		"report.col.treatments": "Trattamenti",
		"status.TO_ORDER":       "DA ORDINARE",
		"status.LENS_ORDERED":   "LENTE ORDINATE",
		"status.READY":          "PRONTO",
		"status.DELIVERED":      "CONSEGNATO",
		"lens.SINGLE_VISION":    "Monofocale",
		"lens.MULTIFOCAL":       "Multifocale",
		"lens.OFFICE":           "Office",
		"rank.FIRST":            "Primo",
		"rank.SECOND":           "Secondo",
		"treatment.TRANSITION":  "Transition",
		"treatment.BLUE_LIGHT":  "Luce Blu",
		"treatment.SUN_RX":      "Sun RX",
		"treatment.SOS":         "SOS",
		"month.1":               "Gennaio",
		"month.2":               "Febbraio",
		"month.3":               "Marzo",
		"month.4":               "Aprile",
		"month.5":               "Maggio",
		"month.6":               "Giugno",
		"month.7":               "Luglio",
		"month.8":               "Agosto",
		"month.9":               "Settembre",
		"month.10":              "Ottobre",
		"month.11":              "Novembre",
		"month.12":              "Dicembre",
	},
	"en": {
		"required":              "Required",
		"invalid_format":        "Invalid format",
		"invalid_email":         "Invalid email",
		"invalid_value":         "Invalid value",
		"must_be_positive":      "Must be positive",
		"must_not_be_negative":  "Must not be negative",
		"select_recipient":      "Select at least one recipient",
		"invalid_range":         "Invalid date range",
		"no_results":            "No results found",
		"must_be_3_digits":      "Must be exactly 3 digits",
		"must_be_5_digits":      "Must be exactly 5 digits",
		"out_of_range":          "Out of range",
		"unknown_seller":        "Seller is not in the list",
		"duplicate":             "Already exists",
		"not_found":             "Not found",
		"confirmation":          "Please confirm the operation",
		"report.title":          "Filtered Sales Report",
		"report.col.date":       "Date",
		"report.col.customer":   "Customer",
		"report.col.seller":     "Seller",
		"report.col.lensType":   "Lens type",
		"report.col.orderRank":  "Lens order",
		"report.col.bin":        "Bin ref.",
		"report.col.number":     "Order no.",
		"report.col.status":     "Status",
		"report.col.amount":     "Amount (€)",
		"report.col.treatments": "Treatments",
		"status.TO_ORDER":       "TO ORDER",
		"status.LENS_ORDERED":   "LENS ORDERED",
		"status.READY":          "READY",
		"status.DELIVERED":      "DELIVERED",
		"lens.SINGLE_VISION":    "Single vision",
		"lens.MULTIFOCAL":       "Multifocal",
		"lens.OFFICE":           "Office",
		"rank.FIRST":            "First",
		"rank.SECOND":           "Second",
		"treatment.TRANSITION":  "Transition",
		"treatment.BLUE_LIGHT":  "Blue light",
		"treatment.SUN_RX":      "Sun RX",
		"treatment.SOS":         "SOS",
		"month.1":               "January",
		"month.2":               "February",
		"month.3":               "March",
		"month.4":               "April",
		"month.5":               "May",
		"month.6":               "June",
		"month.7":               "July",
		"month.8":               "August",
		"month.9":               "September",
		"month.10":              "October",
		"month.11":              "November",
		"month.12":              "December",
	},
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, falling back to DefaultLang.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if supported[base] {
			return base
		}
	}
	return DefaultLang
}

// T translates code. Unknown languages use DefaultLang; unknown codes are
// returned unchanged.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// TranslateAll maps every value of a field->code map through T.
func TranslateAll(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for k, c := range codes {
		out[k] = T(lang, c)
	}
	return out
}

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the stored language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
