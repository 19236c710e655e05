// Package handlers exposes the console operations as a JSON API. Every
// handler expects auth.RequireAuth in front of it, except the session ones.
package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/lens-console/auth"
	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/repository"
)

// DefaultMaxUpload caps spreadsheet and backup uploads when no limit is configured.
const DefaultMaxUpload = 10 << 20

// Snapshots yields the live order snapshot of an owner.
type Snapshots interface {
	Snapshot(ctx context.Context, owner string) (repository.Snapshot, error)
}

func owner(r *http.Request) string {
	id, _ := auth.OwnerIDFromContext(r.Context())
	return id
}

// orders returns the current orders of the requesting owner or writes the error.
func orders(w http.ResponseWriter, r *http.Request, s Snapshots) ([]models.Order, bool) {
	snap, err := s.Snapshot(r.Context(), owner(r))
	if err != nil {
		httpx.Error(w, r, err)
		return nil, false
	}
	return snap.Orders, true
}

// confirmed reads the ?confirm= flag.
func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

// dateParam parses an optional DD/MM/YYYY or YYYY-MM-DD query value.
func dateParam(r *http.Request, name string, v map[string]string) models.Date {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return models.Date{}
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		v[name] = "invalid_format"
	}
	return d
}

// readUpload returns the uploaded bytes, taken from the multipart "file"
// field or from the raw body.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var (
		content []byte
		err     error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err = r.ParseMultipartForm(limit); err != nil {
			return nil, uploadError(err)
		}
		f, _, ferr := r.FormFile("file")
		if ferr != nil {
			return nil, domain.FieldError("file", "required")
		}
		defer f.Close()
		content, err = io.ReadAll(f)
	} else {
		content, err = io.ReadAll(r.Body)
	}
	if err != nil {
		return nil, uploadError(err)
	}
	if len(content) == 0 {
		return nil, domain.FieldError("file", "required")
	}
	return content, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.FieldError("file", "out_of_range")
	}
	return domain.FieldError("file", "invalid_format")
}
