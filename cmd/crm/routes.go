package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getactivity "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/admin/get"
	getdocs "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/documents/get"
	removedocs "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/documents/remove"
	savedocs "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/documents/save"
	updocs "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/documents/update"
	generate_excel "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/generate-report/generate-excel"
	generate_pdf "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/generate-report/generate-pdf"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/realtime/refresh"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/realtime/stream"
	getsav "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/sav/get"
	savesav "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/sav/save"
	upsav "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/sav/update"
	getschedule "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/schedule/get"
	removeschedule "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/schedule/remove"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/schedule/swap"
	getstock "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/stock/get"
	upstock "github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/stock/update"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/http-server/wizard/check"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/middleware/activity"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/middleware/auth"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/middleware/reqlog"
)

const frontendDir = "./frontend-dist"

func routes(cfg config.Config, log *slog.Logger, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(reqlog.New(log))
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		// admin answers to basic auth alone: a request has one Authorization header
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
			r.Get("/activity", getactivity.GetActivity(log, svc.activity))
		})

		// the only route that takes ?token=
		r.Group(func(r chi.Router) {
			r.Use(auth.WebSocketJWT(log, cfg.JWT.Secret))
			r.Get("/ws/{collection}", stream.Stream(log, svc.hub, svc.repos, cfg.CORS.AllowedOrigins))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.JWT(log, cfg.JWT.Secret))
			r.Use(activity.New(log, svc.activity))

			// planning
			r.Get("/schedule/week", getschedule.Week(log, svc.schedule, cfg.Loc()))
			r.Get("/schedule/cell", getschedule.Cell(log, svc.schedule))
			r.Get("/schedule/now", getschedule.Now(svc.schedule))
			r.Post("/schedule/swap", swap.Swap(log, svc.schedule, cfg.Loc()))
			// stock goes back on the shelf
			r.Delete("/appointments/{id}", removeschedule.Remove(log, svc.schedule))

			// SAV
			r.Get("/sav/dashboard", getsav.Dashboard(log, svc.sav))
			r.Get("/sav/installations", getsav.Installations(log, svc.sav))
			r.Post("/sav/tickets", savesav.CreateTicket(log, svc.sav))
			r.Post("/sav/tickets/{id}/comments", savesav.AddComment(log, svc.sav))
			r.Put("/sav/tickets/{id}/status", upsav.SetStatus(log, svc.sav))

			r.Get("/stock/alerts", getstock.Alerts(log, svc.stock))
			r.Post("/stock/{id}/{action}", upstock.Move(log, svc.stock))

			r.Get("/maintenances/{id}/contract.pdf", generate_pdf.Contract(log, svc.contract))
			r.Get("/appointments/{id}/sheet.pdf", generate_pdf.Sheet(log, svc.contract))
			r.Get("/report/sav.xlsx", generate_excel.SAVReport(log, svc.export))
			r.Get("/report/stock.xlsx", generate_excel.StockReport(log, svc.export))

			r.Post("/wizards/{kind}/steps/{step}", check.Check(log, svc.wizards))

			r.Post("/refresh/{collection}", refresh.Refresh(svc.hub))

			// generic documents, after the specific routes above
			r.Get("/{collection}", getdocs.List(log, svc.repos))
			r.Post("/{collection}", savedocs.Create(log, svc.repos))
			r.Get("/{collection}/{id}", getdocs.Get(log, svc.repos))
			r.Patch("/{collection}/{id}", updocs.Update(log, svc.repos))
			r.Delete("/{collection}/{id}", removedocs.Remove(log, svc.repos))
		})
	})

	mountFrontend(router, log)

	return router
}

// mountFrontend serves the built SPA when it is deployed next to the binary.
func mountFrontend(router chi.Router, log *slog.Logger) {
	if _, err := os.Stat(frontendDir); err != nil {
		log.Info("no frontend build, serving the API only", slog.String("path", frontendDir))
		return
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})
}
