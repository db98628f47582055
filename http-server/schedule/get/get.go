package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/scheduling"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type Planner interface {
	Week(ctx context.Context, weekStart time.Time) (scheduling.Board, error)
	Cell(ctx context.Context, team, day string) ([]storage.Appointment, error)
	Now() scheduling.Indicator
}

// Week answers the board of the week containing ?start=, today when absent.
func Week(log *slog.Logger, planner Planner, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.Week"

		day := time.Now().In(loc)
		if s := r.URL.Query().Get("start"); s != "" {
			d, err := storage.ParseDay(s, loc)
			if err != nil {
				api.BadRequest(w, r, "date de début invalide")
				return
			}
			day = d
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		board, err := planner.Week(ctx, scheduling.WeekStart(day))
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, board)
	}
}

func Cell(log *slog.Logger, planner Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.Cell"

		team := r.URL.Query().Get("team")
		day := r.URL.Query().Get("date")
		if team == "" || day == "" {
			api.BadRequest(w, r, "paramètres team et date requis")
			return
		}
		if _, err := storage.ParseDay(day, time.UTC); err != nil {
			api.BadRequest(w, r, "date invalide")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		apps, err := planner.Cell(ctx, team, day)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, apps)
	}
}

func Now(planner Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, planner.Now())
	}
}
