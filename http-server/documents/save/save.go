package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
)

type ResourceProvider interface {
	Resource(name string) (crm.Resource, bool)
}

// Create stores the JSON body as a new document and answers 201 with it.
func Create(log *slog.Logger, res ResourceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.documents.Create"

		name := chi.URLParam(r, "collection")
		rs, ok := res.Resource(name)
		if !ok {
			api.JSONError(w, r, http.StatusNotFound, "collection inconnue", nil)
			return
		}

		var raw json.RawMessage
		if err := render.DecodeJSON(r.Body, &raw); err != nil || len(raw) == 0 || raw[0] != '{' {
			api.BadRequest(w, r, "JSON invalide")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		item, err := rs.Create(ctx, raw)
		if err != nil {
			api.Fail(w, r, log.With(slog.String("collection", name)), op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, item)
	}
}
