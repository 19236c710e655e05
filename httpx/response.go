package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// DecodeJSON reads a JSON body into dst and rejects unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.FieldError("body", "invalid_format")
	}
	return nil
}

// StatusFor maps a domain error to its HTTP status and stable error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrImport):
		return http.StatusUnprocessableEntity, "import_failed"
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, "confirmation_required"
	case errors.Is(err, domain.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "dependency_unavailable"
	case errors.Is(err, domain.ErrStore):
		return http.StatusBadGateway, "store_error"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// Error writes err as an ErrorResponse. Validation details are translated
// into the request language.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFor(err)
	resp := ErrorResponse{Error: code}
	if status != http.StatusInternalServerError {
		resp.Message = err.Error()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		resp.Details = i18n.TranslateAll(i18n.LangFromContext(r.Context()), ve.Fields)
	}
	JSON(w, status, resp)
}
