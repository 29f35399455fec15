package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mlutsenko/brewbook-be/internal/api/handlers"
	"github.com/mlutsenko/brewbook-be/internal/auth"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/mlutsenko/brewbook-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router on the site's surface.
func NewRouter(
	hub *websocket.Hub,
	authorizer *authz.Authorizer,
	userService services.UserServiceProvider,
	sortService services.SortServiceProvider,
	recipeService services.RecipeServiceProvider,
	activityService services.ActivityServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, recipeService)
	sortHandler := handlers.NewSortHandler(sortService, userService, recipeService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, sortService, userService)
	editorHandler := handlers.NewEditorHandler(authorizer, sortService, recipeService, userService)
	feedHandler := handlers.NewFeedHandler(authorizer, userService, sortService, recipeService, activityService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public surface. OptionalAuth keeps a logged-in browser recognized on
	// read pages without locking anonymous visitors out.
	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth())

		r.Get("/", feedHandler.Index)
		r.Get("/activity", feedHandler.Activity)
		r.Get("/ws", wsHandler.Serve)

		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/logout", userHandler.Logout)

		r.Get("/user/{id}", userHandler.Get)
		r.Get("/sort/{id}", sortHandler.Get)
		r.Get("/recipe/{id}", recipeHandler.Get)
	})

	// Mutating surface: a session is required, the services decide the rest.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth())

		r.Post("/new_sort", sortHandler.Create)
		r.Post("/new_recipe", recipeHandler.Create)

		r.Get("/database", feedHandler.Database)

		r.Get("/delete_user/{id}", userHandler.Delete)
		r.Get("/delete_sort/{id}", sortHandler.Delete)
		r.Get("/delete_recipe/{id}", recipeHandler.Delete)

		r.Get("/editor/{type}/{id}", editorHandler.Serve)
		r.Post("/editor/{type}/{id}", editorHandler.Serve)
	})

	return r
}
