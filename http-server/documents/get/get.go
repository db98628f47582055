package get

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

func List(log *slog.Logger, res ResourceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.documents.List"

		name := chi.URLParam(r, "collection")
		rs, ok := res.Resource(name)
		if !ok {
			api.JSONError(w, r, http.StatusNotFound, "collection inconnue", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := rs.List(ctx)
		if err != nil {
			api.Fail(w, r, log.With(slog.String("collection", name)), op, err)
			return
		}

		render.JSON(w, r, items)
	}
}

func Get(log *slog.Logger, res ResourceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.documents.Get"

		name := chi.URLParam(r, "collection")
		rs, ok := res.Resource(name)
		if !ok {
			api.JSONError(w, r, http.StatusNotFound, "collection inconnue", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		item, err := rs.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			api.Fail(w, r, log.With(slog.String("collection", name)), op, err)
			return
		}

		render.JSON(w, r, item)
	}
}
