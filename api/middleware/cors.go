package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",                            // local dev
	"https://supplycart-api-1d2b7c9e845f.herokuapp.com", // backend API
	"https://supplycart-app.vercel.app",                // Vercel domain
	"https://supplycart-app-git-main-rmarquezdev.vercel.app", // Vercel deployment URL
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-SC-Token", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-SC-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
