package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Tracking endpoints are hit from customer marketing sites, so the capture
// routes must answer cross-origin preflights.
var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://*",
}

// CORS returns middleware that applies the tracking API's origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Tracking-Id"},
		ExposedHeaders:   []string{"X-Tracking-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
