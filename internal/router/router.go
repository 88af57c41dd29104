package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskpro/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

// New builds the routing table. Every operation, including the two status
// transitions, is registered explicitly.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Account routes
	r.POST("/api/users/register/", handlers.Auth.Register)
	r.POST("/api/users/login/", handlers.Auth.Login)
	r.POST("/api/users/logout/", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/users/me/", authMiddleware(handlers.Profile.Me))

	// Task collection
	r.GET("/api/tasks/", authMiddleware(handlers.Task.List))
	r.POST("/api/tasks/", authMiddleware(handlers.Task.Create))
	r.GET("/api/tasks/{id}/", authMiddleware(handlers.Task.Get))
	r.PUT("/api/tasks/{id}/", authMiddleware(handlers.Task.Update))
	r.PATCH("/api/tasks/{id}/", authMiddleware(handlers.Task.Patch))
	r.DELETE("/api/tasks/{id}/", authMiddleware(handlers.Task.Delete))

	// Status transition actions
	r.POST("/api/tasks/{id}/mark_complete/", authMiddleware(handlers.Task.MarkComplete))
	r.POST("/api/tasks/{id}/mark_pending/", authMiddleware(handlers.Task.MarkPending))

	// Dashboard support
	r.GET("/api/summary/", authMiddleware(handlers.Task.Summary))
	r.GET("/api/activity/", authMiddleware(handlers.Task.Activity))

	return r
}
