package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/stock"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type StockMover interface {
	Move(ctx context.Context, productID, action string, quantity int) (storage.Product, error)
}

type Request struct {
	Quantity int `json:"quantity"`
}

// Move applies /api/stock/{id}/{action} with the quantity of the body.
func Move(log *slog.Logger, mover StockMover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stock.Move"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			api.BadRequest(w, r, "JSON invalide")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		p, err := mover.Move(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "action"), req.Quantity)
		if errors.Is(err, stock.ErrUnknownAction) {
			api.JSONError(w, r, http.StatusNotFound, "action inconnue", stock.Actions)
			return
		}
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, p)
	}
}
