package handlers

import (
	"net/http"

	"tindog-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Dogs   *DogHandler
	Match  *MatchHandler
	Photos *PhotoHandler
	Chats  *ChatHandler
}

// NewRouter builds the API router. Everything under /api/v1 requires a bearer token.
func NewRouter(h Handlers, auth middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthz", HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(auth))

		r.Post("/dogs/unseen", h.Dogs.FindUnseen)
		r.Post("/dogs", h.Dogs.CreateDog)
		r.Get("/dogs/{dog_id}", h.Dogs.GetDog)
		r.Patch("/dogs/{dog_id}", h.Dogs.UpdateDog)
		r.Post("/dogs/{dog_id}/seen", h.Dogs.MarkSeen)

		r.Post("/matches", h.Match.CreateMatch)

		r.Post("/photos/upload", h.Photos.UploadPhoto)
		r.Post("/photos/classify", h.Photos.ClassifyPhoto)

		r.Get("/chats/{chat_id}", h.Chats.GetChat)
		r.Get("/chats/{chat_id}/messages", h.Chats.GetMessages)
		r.Post("/chats/{chat_id}/messages", h.Chats.SendMessage)
	})

	return r
}

// HealthCheck handles GET /healthz
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "tindog-backend",
	})
}

// corsHeaders are set on every response. The methods match the routes above.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PATCH, OPTIONS",
	"Access-Control-Allow-Headers": "Authorization, Content-Type",
	"Access-Control-Max-Age":       "600",
}

// corsMiddleware answers preflight requests before they reach auth
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
