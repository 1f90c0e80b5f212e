package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gcouto/patrimonio/internal/http/auth"
	"github.com/gcouto/patrimonio/internal/http/dashboard"
	"github.com/gcouto/patrimonio/internal/http/upload"
)

func New(
	authV1 *auth.Handler,
	dashboardV1 *dashboard.Handler,
	uploadV1 *upload.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(authV1.Middleware)

			r.Route("/dashboard", dashboardV1.Routes)
			r.Route("/upload", uploadV1.Routes)
		})
	})

	return router
}
