package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request once it has been served.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(responseWriter, request.ProtoMajor)

			next.ServeHTTP(ww, request)

			fields := []zap.Field{
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(request.Context())),
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				log.Error("request completed", fields...)
			case ww.Status() >= http.StatusBadRequest:
				log.Warn("request completed", fields...)
			default:
				log.Info("request completed", fields...)
			}
		})
	}
}
