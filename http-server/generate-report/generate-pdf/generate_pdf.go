package generate_pdf

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
)

type DocumentRenderer interface {
	MaintenanceContract(ctx context.Context, id string, w io.Writer) error
	InterventionSheet(ctx context.Context, id string, w io.Writer) error
}

func Contract(log *slog.Logger, gen DocumentRenderer) http.HandlerFunc {
	return pdf(log, "handler.report.Contract", "contrat", gen.MaintenanceContract)
}

func Sheet(log *slog.Logger, gen DocumentRenderer) http.HandlerFunc {
	return pdf(log, "handler.report.Sheet", "fiche", gen.InterventionSheet)
}

// pdf renders into a buffer first so a failure can still answer JSON.
func pdf(log *slog.Logger, op, prefix string, render func(context.Context, string, io.Writer) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var buf bytes.Buffer
		if err := render(ctx, id, &buf); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename="+prefix+"_"+id+".pdf")
		if _, err := buf.WriteTo(w); err != nil {
			log.Warn("failed to write pdf", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
