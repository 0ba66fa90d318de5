package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/auth"
	"github.com/Adedunmol/stresspulse/api/dashboard"
	"github.com/Adedunmol/stresspulse/api/jsonutil"
	"github.com/Adedunmol/stresspulse/api/middlewares"
	"github.com/Adedunmol/stresspulse/api/questions"
	"github.com/Adedunmol/stresspulse/api/responses"
	"github.com/Adedunmol/stresspulse/api/tokens"
	"github.com/Adedunmol/stresspulse/config"
	"github.com/Adedunmol/stresspulse/database"
	"github.com/Adedunmol/stresspulse/queue"
	"github.com/Adedunmol/stresspulse/survey"
)

// Deps are the long-lived services the HTTP layer is built from. Redis is
// optional; without it rate limiting is per process and summaries are not
// cached.
type Deps struct {
	Config  config.Config
	Pool    *pgxpool.Pool
	Queries *database.Queries
	Redis   *redis.Client
	Queue   queue.Queue
	Tokens  tokens.TokenService
	Log     *zap.Logger
}

func Routes(deps Deps) *chi.Mux {
	cfg := deps.Config

	var limiter middlewares.Limiter = middlewares.NewLocalLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	var cache dashboard.Cache = dashboard.NopCache{}
	if deps.Redis != nil {
		limiter = middlewares.NewRedisLimiter(deps.Redis, cfg.RateLimitMax, cfg.RateLimitWindow)
		cache = dashboard.NewRedisCache(deps.Redis)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middlewares.RateLimit(limiter, cfg.RateLimitKey, deps.Log))

	r.Get("/check", func(w http.ResponseWriter, r *http.Request) {
		jsonutil.WriteJSONResponse(w, "hello from stresspulse", http.StatusOK)
	})

	requireAdmin := middlewares.AuthMiddleware(deps.Tokens)

	questionStore := questions.NewQuestionStore(deps.Queries, database.NewDBTransactor(deps.Pool))
	responseStore := responses.NewResponseStore(deps.Queries)

	notifyEmail := ""
	if cfg.Mail.Enabled() && cfg.Mail.NotifyOnReply {
		notifyEmail = cfg.Mail.AdminEmail
	}

	responseHandler := &responses.Handler{
		Store:       responseStore,
		Questions:   questionStore,
		Queue:       deps.Queue,
		Cache:       cache,
		NotifyEmail: notifyEmail,
		Log:         deps.Log,
	}

	dashboardHandler := &dashboard.Handler{
		Responses: responseStore,
		Questions: questionStore,
		Cache:     cache,
		CacheTTL:  cfg.DashboardCacheTTL,
		Defaults: dashboard.Defaults{
			Category: survey.Category(cfg.DashboardCategory),
			Pattern:  cfg.DashboardBreakdownPattern,
		},
		Log: deps.Log,
	}

	r.Route("/api", func(r chi.Router) {
		auth.SetupRoutes(r, deps.Queries, deps.Tokens, deps.Log)
		questions.SetupRoutes(r, questionStore, cache, requireAdmin, deps.Log)
		responses.SetupRoutes(r, responseHandler, requireAdmin)
		dashboard.SetupRoutes(r, dashboardHandler, requireAdmin)
	})

	return r
}
