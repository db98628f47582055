package swap

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

type TeamSwapper interface {
	SwapTeamsForWeek(ctx context.Context, weekStart time.Time, teamA, teamB string) (int, error)
}

type Request struct {
	WeekStart string `json:"weekStart"`
	TeamA     string `json:"teamA"`
	TeamB     string `json:"teamB"`
}

type Response struct {
	Swapped int `json:"swapped"`
}

func Swap(log *slog.Logger, swapper TeamSwapper, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.Swap"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			api.BadRequest(w, r, "JSON invalide")
			return
		}

		day, err := storage.ParseDay(req.WeekStart, loc)
		if err != nil {
			api.BadRequest(w, r, "semaine invalide")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		n, err := swapper.SwapTeamsForWeek(ctx, scheduling.WeekStart(day), req.TeamA, req.TeamB)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, Response{Swapped: n})
	}
}
