package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
)

type AppointmentRemover interface {
	RemoveAppointment(ctx context.Context, id string) error
}

// Remove deletes an appointment and puts its products back in stock.
func Remove(log *slog.Logger, remover AppointmentRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.Remove"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := remover.RemoveAppointment(ctx, id); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, api.Status{Status: "deleted", ID: id})
	}
}
