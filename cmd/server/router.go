package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mnhdev/todo-api/internal/api"
	apiMiddleware "github.com/mnhdev/todo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create
// handlers and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// The session cookie is SameSite=None, so the browser frontend needs a
	// credentialed CORS grant for its exact origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.tokenService, app.config.Auth.CookieName)
	userHandler := api.NewUserHandler(app.userStore)
	taskHandler := api.NewTaskHandler(app.taskStore)
	notificationHandler := api.NewNotificationHandler(app.notificationStore)

	accessGuard := apiMiddleware.NewAuthMiddleware(app.tokenService, app.config.Auth.CookieName)

	// Register routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints: session establishment and registration
		r.Post("/auth/jwt", authHandler.IssueToken)
		r.Post("/user/logout", authHandler.Logout)
		r.Post("/create-user", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(accessGuard.Authenticate)

			// Task endpoints
			r.Post("/create-task", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/completed-tasks", taskHandler.ListCompletedTasks)
			r.Get("/running-tasks", taskHandler.RunningTasks)
			r.Get("/single-task/{id}", taskHandler.GetTask)
			r.Patch("/update-tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/delete-tasks/{id}", taskHandler.DeleteTask)

			// Search endpoint
			r.Get("/search", taskHandler.SearchTasks)

			// Notification endpoints
			r.Post("/set-notifications", notificationHandler.SetNotification)
			r.Get("/notifications", notificationHandler.ListNotifications)
			r.Delete("/remove-notifications", notificationHandler.RemoveNotifications)
		})
	})

	// Liveness endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Todo App is running")); err != nil {
			app.logger.Error("failed to write liveness response", "error", err)
		}
	})

	return r
}
