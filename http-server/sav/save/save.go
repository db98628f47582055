package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/middleware/auth"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/sav"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type TicketWriter interface {
	CreateTicket(ctx context.Context, in sav.NewTicket) (storage.Ticket, error)
	AddComment(ctx context.Context, id, author, text string) (storage.Ticket, error)
}

type CommentRequest struct {
	Text string `json:"text"`
}

func CreateTicket(log *slog.Logger, tw TicketWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sav.CreateTicket"

		var req sav.NewTicket
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			api.BadRequest(w, r, "JSON invalide")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		t, err := tw.CreateTicket(ctx, req)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, t)
	}
}

// AddComment appends a comment signed with the name of the current user.
func AddComment(log *slog.Logger, tw TicketWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sav.AddComment"

		var req CommentRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			api.BadRequest(w, r, "JSON invalide")
			return
		}

		author := "inconnu"
		if u, ok := auth.User(r.Context()); ok && u.Name != "" {
			author = u.Name
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		t, err := tw.AddComment(ctx, chi.URLParam(r, "id"), author, req.Text)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, t)
	}
}
