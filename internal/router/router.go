package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mentora-backend/internal/handlers"
	"mentora-backend/internal/middleware"
)

// New wires the HTTP surface. auth may be nil, in which case POST /chat
// is open and the history route is not served at all.
func New(
	chatHandler *handlers.ChatHandler,
	auth *middleware.SupabaseAuth,
	chatLimiter middleware.Limiter,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/", handlers.Home)
	r.Get("/health", handlers.Health)

	r.Route("/chat", func(r chi.Router) {
		if auth != nil {
			r.Use(auth.Middleware)
		}

		r.With(middleware.RateLimit(chatLimiter)).Post("/", chatHandler.Chat)

		// Transcripts are only readable by their verified owner.
		if auth != nil {
			r.Get("/history/{user_id}", chatHandler.History)
		}
	})

	return r
}
