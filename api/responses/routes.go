package responses

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/responses", func(responsesRouter chi.Router) {
		responsesRouter.Post("/", handler.SubmitResponseHandler)

		responsesRouter.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/", handler.ListResponsesHandler)
			r.Get("/{id}", handler.GetResponseHandler)
			r.Delete("/{id}", handler.DeleteResponseHandler)
		})
	})
}
