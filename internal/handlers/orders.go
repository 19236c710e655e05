package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/services"
)

// OrderHandler serves the order list, the lifecycle operations and searches.
type OrderHandler struct {
	orders    *services.OrderService
	snapshots Snapshots
	clock     services.Clock
}

func NewOrderHandler(orders *services.OrderService, snapshots Snapshots, clock services.Clock) *OrderHandler {
	return &OrderHandler{orders: orders, snapshots: snapshots, clock: clock}
}

// List: GET /orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	out := make([]models.Order, len(current))
	copy(out, current)
	services.SortNewestFirst(out)
	httpx.JSON(w, http.StatusOK, out)
}

// Create: POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	o, err := h.orders.Create(r.Context(), owner(r), current, in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

type quickDeliverRequest struct {
	Code string `json:"code"`
}

// QuickDeliver: POST /orders/quick-deliver. Input that is not a delivery
// code yet answers 204 so clients can post on every keystroke.
func (h *OrderHandler) QuickDeliver(w http.ResponseWriter, r *http.Request) {
	var req quickDeliverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	o, err := h.orders.QuickDeliver(r.Context(), owner(r), current, req.Code)
	if errors.Is(err, services.ErrNotQuickDeliverCode) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// SetStatus: PUT /orders/{id}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	id := r.PathValue("id")
	if err := h.orders.SetStatus(r.Context(), owner(r), id, req.Status); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

type confirmResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Order   any    `json:"order"`
}

// Delete: DELETE /orders/number/{number}?confirm=true. Without confirm the
// order is only looked up and returned with 428.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	found, err := h.orders.Delete(r.Context(), owner(r), current, r.PathValue("number"), confirmed(r))
	if errors.Is(err, domain.ErrConfirmationRequired) {
		httpx.JSON(w, http.StatusPreconditionRequired, confirmResponse{
			Error:   "confirmation_required",
			Message: i18n.T(i18n.LangFromContext(r.Context()), "confirmation"),
			Order:   found,
		})
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search: GET /orders/search?mode=status|detail&surname=&bin=&since=
func (h *OrderHandler) Search(w http.ResponseWriter, r *http.Request) {
	v := map[string]string{}
	q := services.SearchQuery{
		Surname: r.URL.Query().Get("surname"),
		Bin:     r.URL.Query().Get("bin"),
		Since:   dateParam(r, "since", v),
	}
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "" && mode != "status" && mode != "detail" {
		v["mode"] = "invalid_value"
	}
	if len(v) > 0 {
		httpx.Error(w, r, domain.NewValidationError(v))
		return
	}
	if q.Since.IsZero() {
		q.Since = services.DefaultSince(h.clock.Today())
	}

	current, ok := orders(w, r, h.snapshots)
	if !ok {
		return
	}
	var (
		result any
		err    error
	)
	if mode == "detail" {
		result, err = services.DetailSearch(current, q)
	} else {
		result, err = services.StatusSearch(current, q)
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
