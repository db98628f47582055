package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type StatusSetter interface {
	SetStatus(ctx context.Context, id, status string) (storage.Ticket, error)
}

type Request struct {
	Status string `json:"status"`
}

func SetStatus(log *slog.Logger, s StatusSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sav.SetStatus"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			api.BadRequest(w, r, "JSON invalide")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		t, err := s.SetStatus(ctx, chi.URLParam(r, "id"), req.Status)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, t)
	}
}
