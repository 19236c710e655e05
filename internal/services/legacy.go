package services

import (
	"strings"

	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/store"
)

// Backups of the previous console use Italian collection and field names
// and store enum labels instead of codes.
var legacyCollections = map[string]string{
	"vendite":              store.CollectionOrders,
	"venditori":            store.CollectionSellers,
	"emailAmministrazioni": store.CollectionContacts,
	"datiMensili":          store.CollectionMonthlyMetrics,
}

var legacyFields = map[string]map[string]string{
	store.CollectionOrders: {
		"data":          "date",
		"cliente":       "customerSurname",
		"venditore":     "seller",
		"tipo_lente":    "lensType",
		"ordine_lente":  "orderRank",
		"rif_vaschetta": "binReference",
		"numero_ordine": "orderNumber",
		"importo":       "amount",
		"trattamenti":   "treatments",
		"stato_ordine":  "status",
	},
	store.CollectionSellers:  {"nome": "name"},
	store.CollectionContacts: {"nomeContatto": "contactName"},
}

func convertLegacy(b Backup) Backup {
	for old, current := range legacyCollections {
		records, ok := b[old]
		if !ok {
			continue
		}
		if _, clash := b[current]; clash {
			continue
		}
		delete(b, old)
		for _, r := range records {
			renameFields(r, legacyFields[current])
			if current == store.CollectionOrders {
				relabelOrder(r)
			}
		}
		b[current] = records
	}
	return b
}

func renameFields(r store.Record, names map[string]string) {
	for from, to := range names {
		v, ok := r[from]
		if !ok {
			continue
		}
		delete(r, from)
		if _, exists := r[to]; !exists {
			r[to] = v
		}
	}
}

func relabelOrder(r store.Record) {
	relabel(r, "status", "status.", statusCodes())
	relabel(r, "lensType", "lens.", lensCodes())
	relabel(r, "orderRank", "rank.", rankCodes())
	if list, ok := r["treatments"].([]any); ok {
		for i, v := range list {
			if s, ok := v.(string); ok {
				list[i] = codeForLabel(s, "treatment.", treatmentCodes())
			}
		}
	}
}

func relabel(r store.Record, field, prefix string, codes []string) {
	if s, ok := r[field].(string); ok {
		r[field] = codeForLabel(s, prefix, codes)
	}
}

// codeForLabel maps an Italian label back to its code; unknown values pass through.
func codeForLabel(label, prefix string, codes []string) string {
	for _, c := range codes {
		if strings.EqualFold(i18n.T("it", prefix+c), strings.TrimSpace(label)) {
			return c
		}
	}
	return label
}

func statusCodes() []string    { return codes(models.AllStatuses) }
func lensCodes() []string      { return codes(models.AllLensTypes) }
func rankCodes() []string      { return codes(models.AllOrderRanks) }
func treatmentCodes() []string { return codes(models.AllTreatments) }

func codes[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
