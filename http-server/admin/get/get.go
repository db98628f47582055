package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type ActivityProvider interface {
	List(ctx context.Context, userID string, limit int) ([]storage.Activity, error)
}

// GetActivity lists recorded user actions, newest first. ?user= filters on
// one user id, ?limit= caps the result.
func GetActivity(log *slog.Logger, p ActivityProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetActivity"

		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				api.BadRequest(w, r, "limite invalide")
				return
			}
			limit = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := p.List(ctx, r.URL.Query().Get("user"), limit)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, items)
	}
}
