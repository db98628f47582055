package refresh

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type Refresher interface {
	Refresh(collection string)
}

// Refresh tells every open stream of the collection to reload it.
func Refresh(hub Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "collection")
		if !slices.Contains(storage.Collections, name) {
			api.JSONError(w, r, http.StatusNotFound, "collection inconnue", nil)
			return
		}

		hub.Refresh(name)

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, api.Status{Status: "refresh"})
	}
}
