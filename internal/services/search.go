package services

import (
	"sort"
	"strings"

	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

// DefaultSearchWindowMonths is how far back a search looks when no start
// date is given.
const DefaultSearchWindowMonths = 6

// SearchQuery filters orders by surname and/or bin from Since onwards.
type SearchQuery struct {
	Surname string
	Bin     string
	Since   models.Date
}

// StatusView is the row of a status search.
type StatusView struct {
	ID              string             `json:"id"`
	CustomerSurname string             `json:"customerSurname"`
	Date            models.Date        `json:"date"`
	BinReference    string             `json:"binReference"`
	Status          models.OrderStatus `json:"status"`
}

// DefaultSince is the start date used when the operator leaves it empty.
func DefaultSince(today models.Date) models.Date {
	return models.NewDate(today.AddDate(0, -DefaultSearchWindowMonths, 0))
}

func (q SearchQuery) matching(orders []models.Order) ([]models.Order, error) {
	surname := strings.ToLower(strings.TrimSpace(q.Surname))
	bin := strings.TrimSpace(q.Bin)
	if surname == "" && bin == "" {
		return nil, domain.FieldError("surname", "required")
	}

	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.Date.Before(q.Since) {
			continue
		}
		if surname != "" && !strings.Contains(strings.ToLower(o.CustomerSurname), surname) {
			continue
		}
		if bin != "" && !strings.Contains(o.BinReference, bin) {
			continue
		}
		out = append(out, o)
	}
	SortNewestFirst(out)
	return out, nil
}

// DetailSearch returns the full matching orders, newest first.
func DetailSearch(orders []models.Order, q SearchQuery) ([]models.Order, error) {
	return q.matching(orders)
}

// StatusSearch returns the status view of the matching orders, newest first.
func StatusSearch(orders []models.Order, q SearchQuery) ([]StatusView, error) {
	found, err := q.matching(orders)
	if err != nil {
		return nil, err
	}
	out := make([]StatusView, len(found))
	for i, o := range found {
		out[i] = StatusView{
			ID:              o.ID,
			CustomerSurname: o.CustomerSurname,
			Date:            o.Date,
			BinReference:    o.BinReference,
			Status:          o.Status,
		}
	}
	return out, nil
}

// ReportFilter selects orders for the PDF report. Empty fields match
// everything; an empty Statuses list matches every status.
type ReportFilter struct {
	Start     models.Date
	End       models.Date
	Seller    string
	LensType  models.LensType
	OrderRank models.OrderRank
	Treatment models.Treatment
	Statuses  []models.OrderStatus
}

// Validate checks the range and the enum values.
func (f ReportFilter) Validate() error {
	fields := map[string]string{}
	if f.Start.IsZero() {
		fields["start"] = "required"
	}
	if f.End.IsZero() {
		fields["end"] = "required"
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		fields["end"] = "invalid_range"
	}
	if f.LensType != "" && !f.LensType.Valid() {
		fields["lensType"] = "invalid_value"
	}
	if f.OrderRank != "" && !f.OrderRank.Valid() {
		fields["orderRank"] = "invalid_value"
	}
	if f.Treatment != "" && !f.Treatment.Valid() {
		fields["treatment"] = "invalid_value"
	}
	for _, s := range f.Statuses {
		if !s.Valid() {
			fields["status"] = "invalid_value"
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

// PdfFilter returns the orders matching f in chronological order. Both
// range ends are inclusive.
func PdfFilter(orders []models.Order, f ReportFilter) []models.Order {
	seller := models.SellerNameKey(f.Seller)
	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.Date.Before(f.Start) || o.Date.After(f.End) {
			continue
		}
		if seller != "" && models.SellerNameKey(o.Seller) != seller {
			continue
		}
		if f.LensType != "" && o.LensType != f.LensType {
			continue
		}
		if f.OrderRank != "" && o.OrderRank != f.OrderRank {
			continue
		}
		if f.Treatment != "" && !o.HasTreatment(f.Treatment) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, o.Status) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.OrderNumber < b.OrderNumber
	})
	return out
}

func containsStatus(list []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Table is the tabular form of a report handed to the renderer.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

var reportColumns = []string{
	"report.col.date", "report.col.customer", "report.col.seller", "report.col.lensType",
	"report.col.orderRank", "report.col.bin", "report.col.number", "report.col.status",
	"report.col.amount", "report.col.treatments",
}

// BuildReportTable lays out orders as the ten report columns, labels in lang.
func BuildReportTable(orders []models.Order, lang string) Table {
	t := Table{Title: i18n.T(lang, "report.title"), Headers: make([]string, len(reportColumns))}
	for i, c := range reportColumns {
		t.Headers[i] = i18n.T(lang, c)
	}
	for _, o := range orders {
		treatments := make([]string, len(o.Treatments))
		for i, tr := range o.Treatments {
			treatments[i] = i18n.T(lang, "treatment."+string(tr))
		}
		t.Rows = append(t.Rows, []string{
			o.Date.String(),
			o.CustomerSurname,
			o.Seller,
			i18n.T(lang, "lens."+string(o.LensType)),
			i18n.T(lang, "rank."+string(o.OrderRank)),
			o.BinReference,
			o.OrderNumber,
			i18n.T(lang, "status."+string(o.Status)),
			o.Amount.StringFixed(2),
			strings.Join(treatments, ", "),
		})
	}
	return t
}
