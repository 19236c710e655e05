package handlers

import (
	"net/http"

	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/internal/services"
)

// MonthlyMetricsHandler imports and serves monthly metrics tables.
type MonthlyMetricsHandler struct {
	svc       *services.MonthlyMetricsService
	maxUpload int64
}

func NewMonthlyMetricsHandler(svc *services.MonthlyMetricsService, maxUpload int64) *MonthlyMetricsHandler {
	return &MonthlyMetricsHandler{svc: svc, maxUpload: maxUpload}
}

// Periods: GET /monthly-metrics
func (h *MonthlyMetricsHandler) Periods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.svc.Periods(r.Context(), owner(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string][]string{"periods": periods})
}

// Get: GET /monthly-metrics/{period}
func (h *MonthlyMetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	mm, err := h.svc.Get(r.Context(), owner(r), r.PathValue("period"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mm)
}

// Import: POST /monthly-metrics/{period} with the xlsx as multipart "file"
// or as the raw body.
func (h *MonthlyMetricsHandler) Import(w http.ResponseWriter, r *http.Request) {
	content, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	mm, err := h.svc.Import(r.Context(), owner(r), r.PathValue("period"), content)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mm)
}
