package update

import (
	"context"
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

// Update merges a field map into the document. Keys may be dotted paths.
func Update(log *slog.Logger, res ResourceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.documents.Update"

		name := chi.URLParam(r, "collection")
		rs, ok := res.Resource(name)
		if !ok {
			api.JSONError(w, r, http.StatusNotFound, "collection inconnue", nil)
			return
		}

		var patch map[string]any
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			api.BadRequest(w, r, "JSON invalide")
			return
		}
		if len(patch) == 0 {
			api.BadRequest(w, r, "aucun champ à modifier")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		item, err := rs.Update(ctx, chi.URLParam(r, "id"), patch)
		if err != nil {
			api.Fail(w, r, log.With(slog.String("collection", name)), op, err)
			return
		}

		render.JSON(w, r, item)
	}
}
