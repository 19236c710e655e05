package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/services"
)

// ReportHandler serves the PDF report, the statistics and the daily closing.
type ReportHandler struct {
	reports   *services.ReportService
	closing   *services.ClosingService
	snapshots Snapshots
	clock     services.Clock
}

func NewReportHandler(reports *services.ReportService, closing *services.ClosingService, snapshots Snapshots, clock services.Clock) *ReportHandler {
	return &ReportHandler{reports: reports, closing: closing, snapshots: snapshots, clock: clock}
}

func reportFilter(r *http.Request) (services.ReportFilter, error) {
	v := map[string]string{}
	q := r.URL.Query()
	f := services.ReportFilter{
		Start:     dateParam(r, "start", v),
		End:       dateParam(r, "end", v),
		Seller:    q.Get("seller"),
		LensType:  models.LensType(q.Get("lensType")),
		OrderRank: models.OrderRank(q.Get("orderRank")),
		Treatment: models.Treatment(q.Get("treatment")),
	}
	// status may repeat or hold a comma separated list.
	for _, raw := range q["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Statuses = append(f.Statuses, models.OrderStatus(s))
			}
		}
	}
	if len(v) > 0 {
		return f, domain.NewValidationError(v)
	}
	return f, f.Validate()
}

// Report: GET /reports/orders.pdf. Zero matches answers 200 JSON instead
// of an empty document.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	f, err := reportFilter(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	lang := i18n.LangFromContext(r.Context())
	rep, err := h.reports.Export(current, f, lang)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if rep.Matches == 0 {
		httpx.JSON(w, http.StatusOK, map[string]any{"matches": 0, "message": i18n.T(lang, "no_results")})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rep.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Content)
}

// Statistics: GET /statistics
func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	st := services.ComputeStatistics(current, h.clock.Today(), i18n.LangFromContext(r.Context()))
	httpx.JSON(w, http.StatusOK, st)
}

// Closing: POST /closing
func (h *ReportHandler) Closing(w http.ResponseWriter, r *http.Request) {
	var in services.ClosingInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	rep, err := h.closing.Close(r.Context(), owner(r), current, in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}
