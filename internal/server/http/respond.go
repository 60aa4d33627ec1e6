package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/licensegate/licensegate/internal/errs"
)

// decodeStrict decodes a JSON body rejecting unknown fields, so schema
// violations fail at the boundary before any business logic runs.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.ErrInvalidRequest
	}
	return nil
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.ErrInvalidRequest
	}
	return id, nil
}

// writeError maps sentinel errors onto the HTTP taxonomy. Anything
// unrecognized is an infrastructure fault and becomes a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidRequest):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid_request"})
	case errors.Is(err, errs.ErrUnauthorized):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "unauthorized"})
	case errors.Is(err, errs.ErrForbidden):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, map[string]string{"error": "forbidden"})
	case errors.Is(err, errs.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "not_found"})
	case errors.Is(err, errs.ErrAlreadyExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"error": "already_exists"})
	case errors.Is(err, errs.ErrRateLimited):
		render.Status(r, http.StatusTooManyRequests)
		render.JSON(w, r, map[string]string{"error": "rate_limited"})
	default:
		s.log.Error("internal", zap.Error(err), zap.String("path", r.URL.Path))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "internal"})
	}
}
