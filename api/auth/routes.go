package auth

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/tokens"
	"github.com/Adedunmol/stresspulse/database"
)

func SetupRoutes(r chi.Router, queries *database.Queries, tokenService tokens.TokenService, log *zap.Logger) {
	handler := Handler{
		Store: NewAdminStore(queries),
		Token: tokenService,
		Log:   log,
	}

	r.Route("/auth", func(authRouter chi.Router) {
		authRouter.Post("/login", handler.LoginHandler)
	})
}
