package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/dashboard", func(dashboardRouter chi.Router) {
		dashboardRouter.Use(authMiddleware)

		dashboardRouter.Get("/summary", handler.SummaryHandler)
	})
}
