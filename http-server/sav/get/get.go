package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/sav"
)

type DashboardProvider interface {
	Dashboard(ctx context.Context) (sav.Dashboard, error)
	Installations(ctx context.Context) ([]sav.Installation, error)
}

func Dashboard(log *slog.Logger, p DashboardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sav.Dashboard"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		d, err := p.Dashboard(ctx)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, d)
	}
}

// Installations lists the (client, product) pairs a ticket can be opened on.
func Installations(log *slog.Logger, p DashboardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sav.Installations"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		opts, err := p.Installations(ctx)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, opts)
	}
}
