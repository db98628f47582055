package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type ReportGenerator interface {
	SAVReport(ctx context.Context) ([]byte, error)
	StockReport(ctx context.Context) ([]byte, error)
}

func SAVReport(log *slog.Logger, gen ReportGenerator) http.HandlerFunc {
	return report(log, "handler.report.SAVReport", "SAV", gen.SAVReport)
}

func StockReport(log *slog.Logger, gen ReportGenerator) http.HandlerFunc {
	return report(log, "handler.report.StockReport", "Stock", gen.StockReport)
}

func report(log *slog.Logger, op, prefix string, build func(context.Context) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := build(ctx)
		if err != nil {
			log.Error("failed to generate excel", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "une erreur est survenue", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.Warn("failed to write excel", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
