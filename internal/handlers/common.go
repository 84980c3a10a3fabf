// Package handlers exposes the catalog, sale, reporting and auth
// operations as JSON endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/errs"
	"go.uber.org/zap"
)

// writeError maps the data-layer taxonomy onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *errs.ValidationError
	var se *errs.StorageError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
	case errors.Is(err, errs.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, errs.ErrReferenced):
		httpx.JSONError(w, http.StatusConflict, "category_referenced", nil)
	case errors.As(err, &se):
		zap.L().Error("storage failure", zap.String("op", se.Op), zap.String("key", se.Key), zap.Error(se.Err))
		httpx.JSONError(w, http.StatusInternalServerError, "storage_error", nil)
	default:
		zap.L().Error("unhandled error", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
