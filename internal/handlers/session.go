package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/lens-console/auth"
	"github.com/diewo77/lens-console/httpx"
)

// SessionHandler signs owners in and out. Sign-in is anonymous: each new
// session gets a fresh owner id, and the token is the only way back to it.
type SessionHandler struct {
	log *zap.Logger
}

func NewSessionHandler(log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{log: log}
}

type sessionResponse struct {
	OwnerID string `json:"ownerId"`
	Token   string `json:"token,omitempty"`
}

// Create: POST /session. An existing valid session is kept.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.OwnerIDFromContext(r.Context()); ok {
		httpx.JSON(w, http.StatusOK, sessionResponse{OwnerID: id})
		return
	}
	id := uuid.NewString()
	token := auth.CreateSession(w, id)
	h.log.Info("session created", zap.String("owner", id))
	httpx.JSON(w, http.StatusCreated, sessionResponse{OwnerID: id, Token: token})
}

// Current: GET /session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{OwnerID: id})
}

// Delete: DELETE /session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
