package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/services"
)

// BackupHandler downloads and restores full backups.
type BackupHandler struct {
	svc       *services.BackupService
	maxUpload int64
}

func NewBackupHandler(svc *services.BackupService, maxUpload int64) *BackupHandler {
	return &BackupHandler{svc: svc, maxUpload: maxUpload}
}

// Export: GET /backup
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Export(r.Context(), owner(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.svc.FileName()+`"`)
	httpx.JSON(w, http.StatusOK, b)
}

type restoreResponse struct {
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
	Collections map[string]int `json:"collections"`
}

func counts(b services.Backup) map[string]int {
	out := make(map[string]int, len(b))
	for c, records := range b {
		out[c] = len(records)
	}
	return out
}

// Restore: POST /backup/restore?confirm=true. The file is validated first;
// without confirm the answer is 428 with the record counts it would restore.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	raw, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	b, err := services.ParseBackup(raw)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	err = h.svc.Restore(r.Context(), owner(r), b, confirmed(r))
	if errors.Is(err, domain.ErrConfirmationRequired) {
		httpx.JSON(w, http.StatusPreconditionRequired, restoreResponse{
			Error:       "confirmation_required",
			Message:     i18n.T(i18n.LangFromContext(r.Context()), "confirmation"),
			Collections: counts(b),
		})
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, restoreResponse{Collections: counts(b)})
}
