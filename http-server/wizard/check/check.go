package check

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/wizard"
)

const maxDraft = 1 << 20

type StepChecker interface {
	Check(kind, step string, raw []byte) (string, error)
}

type Response struct {
	Step string `json:"step"`
	Next string `json:"next"`
}

// Check validates the draft in the body for one step of a wizard.
func Check(log *slog.Logger, checker StepChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.wizard.Check"

		kind := chi.URLParam(r, "kind")
		step := chi.URLParam(r, "step")

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxDraft))
		if err != nil {
			api.BadRequest(w, r, "corps illisible")
			return
		}

		next, err := checker.Check(kind, step, raw)
		switch {
		case errors.Is(err, wizard.ErrUnknownWizard):
			api.JSONError(w, r, http.StatusNotFound, "assistant inconnu", nil)
			return
		case errors.Is(err, wizard.ErrUnknownStep):
			api.JSONError(w, r, http.StatusNotFound, "étape inconnue", nil)
			return
		case err != nil:
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, Response{Step: step, Next: next})
	}
}
