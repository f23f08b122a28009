package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dotatracker/dota-tracker-be/internal/api/handlers"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(accountHandler *handlers.AccountHandler, allowedOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the mobile client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Liveness probe the original client pings on launch
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Auth server is running"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", accountHandler.Register)
		r.Post("/login", accountHandler.Login)
		r.Delete("/delete", accountHandler.Delete)
		r.Post("/saveSecretQuestion", accountHandler.SaveSecretQuestion)
		r.Post("/verifySecretAnswer", accountHandler.VerifySecretAnswer)
		r.Post("/updatePassword", accountHandler.UpdatePassword)
		r.Post("/saveDotaId", accountHandler.SaveDotaID)
		r.Get("/getDotaId", accountHandler.GetDotaID)
	})

	return r
}
