package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Adedunmol/stresspulse/api/jsonutil"
	"github.com/Adedunmol/stresspulse/api/tokens"
)

type claimsKey struct{}

// ClaimsFromContext returns the admin claims stored by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*tokens.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*tokens.Claims)
	return claims, ok
}

func AuthMiddleware(tokenService tokens.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				jsonutil.WriteMessage(responseWriter, "authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.Fields(authHeader)
			if len(tokenString) != 2 || !strings.EqualFold(tokenString[0], "Bearer") {
				jsonutil.WriteMessage(responseWriter, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tokenService.DecodeToken(tokenString[1])
			if err != nil {
				jsonutil.WriteMessage(responseWriter, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(request.Context(), claimsKey{}, claims)
			next.ServeHTTP(responseWriter, request.WithContext(ctx))
		})
	}
}
