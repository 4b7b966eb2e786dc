package middleware

import (
	"net/http"
	"strings"

	"github.com/SaraKachchaf/flowermarketneo4j/api/responses"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/auth"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/logger"
)

// Auth validates the bearer JWT and seeds the request context with the
// caller's identity. Handlers behind this middleware can rely on
// UserIDFromContext and RoleFromContext being populated.
func Auth(jwtCfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := auth.ParseAccessToken(jwtCfg, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := r.Context()
			ctx = WithUserID(ctx, claims.UserID)
			ctx = WithRole(ctx, string(claims.Role))
			ctx = withValue(ctx, ctxEmail, claims.Email)
			ctx = withValue(ctx, ctxFullName, claims.FullName)

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("bearer "):])
}
