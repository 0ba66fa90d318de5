package questions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetupRoutes(r chi.Router, store Store, cache CacheInvalidator, authMiddleware func(http.Handler) http.Handler, log *zap.Logger) {
	handler := Handler{
		Store: store,
		Cache: cache,
		Log:   log,
	}

	r.Route("/questions", func(questionsRouter chi.Router) {
		// Public routes
		questionsRouter.Group(func(r chi.Router) {
			r.Get("/", handler.ListActiveQuestionsHandler)
			r.Get("/form", handler.FormHandler)
			r.Get("/{id}", handler.GetQuestionHandler)
		})

		// Admin routes
		questionsRouter.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/admin", handler.ListQuestionsHandler)
			r.Post("/", handler.CreateQuestionHandler)
			r.Put("/reorder", handler.ReorderQuestionsHandler)
			r.Put("/{id}", handler.UpdateQuestionHandler)
			r.Delete("/{id}", handler.DeleteQuestionHandler)
			r.Put("/{id}/toggle", handler.ToggleQuestionHandler)
		})
	})
}
