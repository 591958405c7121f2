package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/appforum/forum-server/internal/api/auth"
	"github.com/appforum/forum-server/internal/api/comment"
	"github.com/appforum/forum-server/internal/api/post"
	"github.com/appforum/forum-server/internal/api/upload"
	"github.com/appforum/forum-server/internal/api/user"
)

// Config contains the handler dependencies needed for the router setup.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
type Config struct {
	AuthHandler            *auth.AuthHandler
	PostHandler            *post.PostHandler
	CommentHandler         *comment.CommentHandler
	UserHandler            *user.UserHandler
	UploadHandler          *upload.UploadHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	UploadsDir             string
}

// SetupRouter initializes and configures the main application router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// Uploaded images are served statically, same as the API they belong to.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {

		// --- Public routes ---
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)

			r.Get("/posts", cfg.PostHandler.List)
			r.Get("/posts/{id}", cfg.PostHandler.Get)
			r.Get("/comments/{id}", cfg.CommentHandler.ListByPost)
		})

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/posts", cfg.PostHandler.Create)
			r.Put("/posts/{id}", cfg.PostHandler.Update)
			r.Delete("/posts/{id}", cfg.PostHandler.Delete)
			r.Post("/posts/{id}/like", cfg.PostHandler.ToggleLike)
			r.Post("/posts/{id}/favorite", cfg.PostHandler.ToggleFavorite)

			r.Post("/comments/{id}", cfg.CommentHandler.Create)
			r.Put("/comments/{id}", cfg.CommentHandler.Update)
			r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

			r.Get("/users/me", cfg.UserHandler.GetMe)
			r.Put("/users/me", cfg.UserHandler.UpdateMe)

			r.Post("/upload", cfg.UploadHandler.Upload)
		})
	})

	return r
}
