package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
)

// CORS returns middleware that applies the configured allowed-origin policy.
// The default covers the local Vite dev server.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
