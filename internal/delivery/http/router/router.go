// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"amora/internal/delivery/http/middleware"
	"amora/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/sign-up", r.authHandler.SignUp)
		authGroup.POST("/sign-in", r.authHandler.SignIn)
		authGroup.POST("/refresh-token", r.authHandler.RefreshToken)
		authGroup.POST("/verificate-email", r.authHandler.VerifyEmail)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)

		authGroup.GET("/google/auth-url", r.authHandler.GoogleAuthURL)
		authGroup.GET("/google/callback", r.authHandler.GoogleCallback)
	}

	// Routes that require a valid access token
	protectedGroup := e.Group("/auth")
	protectedGroup.Use(r.authMiddleware.Authenticate)
	{
		protectedGroup.POST("/change-email", r.authHandler.ChangeEmail)
		protectedGroup.POST("/change-password", r.authHandler.ChangePassword)
		protectedGroup.POST("/sign-out", r.authHandler.SignOut)
	}
}
