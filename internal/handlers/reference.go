package handlers

import (
	"net/http"

	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/internal/services"
)

// ReferenceHandler manages sellers and notification contacts.
type ReferenceHandler struct {
	refs *services.ReferenceService
}

func NewReferenceHandler(refs *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

// ListSellers: GET /sellers
func (h *ReferenceHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	list, err := h.refs.Sellers(r.Context(), owner(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

type sellerRequest struct {
	Name string `json:"name"`
}

// CreateSeller: POST /sellers
func (h *ReferenceHandler) CreateSeller(w http.ResponseWriter, r *http.Request) {
	var req sellerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.refs.AddSeller(r.Context(), owner(r), req.Name)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

// DeleteSeller: DELETE /sellers/{id}
func (h *ReferenceHandler) DeleteSeller(w http.ResponseWriter, r *http.Request) {
	if err := h.refs.DeleteSeller(r.Context(), owner(r), r.PathValue("id")); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContacts: GET /contacts
func (h *ReferenceHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := h.refs.Contacts(r.Context(), owner(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

type contactRequest struct {
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
}

// CreateContact: POST /contacts
func (h *ReferenceHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.refs.AddContact(r.Context(), owner(r), req.ContactName, req.Email)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// DeleteContact: DELETE /contacts/{id}
func (h *ReferenceHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.refs.DeleteContact(r.Context(), owner(r), r.PathValue("id")); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
