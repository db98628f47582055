package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Status is the small acknowledgement body of write endpoints.
type Status struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg, Details: details})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	JSONError(w, r, http.StatusBadRequest, msg, nil)
}

// Fail maps err to a response and logs what the client does not see.
// Validation -> 400, not found -> 404, conflict -> 409, anything else -> 500.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	var v validate.Violations
	switch {
	case errors.As(err, &v):
		JSONError(w, r, http.StatusBadRequest, "validation", v)
	case errors.Is(err, storage.ErrNotFound):
		JSONError(w, r, http.StatusNotFound, "introuvable", nil)
	case errors.Is(err, storage.ErrConflict):
		JSONError(w, r, http.StatusConflict, "existe déjà", nil)
	default:
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
		JSONError(w, r, http.StatusInternalServerError, "une erreur est survenue", nil)
	}
}
