// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tradegate/internal/delivery/http/middleware"
	"tradegate/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware the router wires together.
type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	CatalogHandler *handler.CatalogHandler
	ListingHandler *handler.ListingHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	catalogHandler *handler.CatalogHandler
	listingHandler *handler.ListingHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		catalogHandler: params.CatalogHandler,
		listingHandler: params.ListingHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
		authGroup.POST("/google/callback", r.userHandler.GoogleCallback)
	}

	// Public catalog. Optional auth lets owners and back-office principals
	// see their wider views through the same endpoints.
	catalogGroup := e.Group("", r.authMiddleware.OptionalAuthenticate)
	{
		catalogGroup.GET("/products", r.catalogHandler.ListProducts)
		catalogGroup.GET("/products/:id", r.catalogHandler.GetProduct)
		catalogGroup.GET("/products/:id/qr", r.catalogHandler.GetProductQR)
		catalogGroup.GET("/requests", r.catalogHandler.ListRequests)
		catalogGroup.GET("/requests/:id", r.catalogHandler.GetRequest)
		catalogGroup.GET("/categories", r.catalogHandler.ListCategories)
	}

	// Public contact form
	e.POST("/contact", r.catalogHandler.SubmitContact)

	// Account routes that require authentication
	userGroup := e.Group("/user", r.authMiddleware.Authenticate, r.authMiddleware.RequireUser)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.PUT("/profile", r.userHandler.UpdateProfile)
		userGroup.PUT("/device-token", r.userHandler.UpdateDeviceToken)
		userGroup.POST("/logout-all", r.userHandler.LogoutAllDevices)
		userGroup.POST("/categories", r.catalogHandler.SuggestCategory)

		// Listing write side: the approval check runs at write time inside
		// the usecase, not here.
		userGroup.POST("/products", r.listingHandler.CreateProduct)
		userGroup.PUT("/products/:id", r.listingHandler.UpdateProduct)
		userGroup.PUT("/products/:id/status", r.listingHandler.TransitionProduct)
		userGroup.GET("/products", r.listingHandler.MyProducts)
		userGroup.POST("/requests", r.listingHandler.CreateRequest)
		userGroup.PUT("/requests/:id", r.listingHandler.UpdateRequest)
		userGroup.PUT("/requests/:id/status", r.listingHandler.TransitionRequest)
		userGroup.GET("/requests", r.listingHandler.MyRequests)
	}

	// Back-office logins
	adminAuthGroup := e.Group("/admin/auth")
	{
		adminAuthGroup.POST("/login", r.adminHandler.Login)
		adminAuthGroup.POST("/subadmin/login", r.adminHandler.SubAdminLogin)
	}

	// Back-office routes shared by admins and sub-admins. Country scoping
	// happens in the policy layer, not in routing.
	adminGroup := e.Group("/admin", r.authMiddleware.Authenticate, r.authMiddleware.RequireBackOffice)
	{
		adminGroup.GET("/profiles", r.adminHandler.ListProfiles)
		adminGroup.PUT("/profiles/:id/status", r.adminHandler.DecideProfile)

		// Listing moderation reuses the transition handlers.
		adminGroup.PUT("/products/:id/status", r.listingHandler.TransitionProduct)
		adminGroup.PUT("/requests/:id/status", r.listingHandler.TransitionRequest)
	}

	// Admin-only management routes
	adminOnlyGroup := e.Group("/admin", r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
	{
		adminOnlyGroup.POST("/subadmins", r.adminHandler.CreateSubAdmin)
		adminOnlyGroup.GET("/subadmins", r.adminHandler.ListSubAdmins)
		adminOnlyGroup.PUT("/subadmins/:id/countries", r.adminHandler.UpdateSubAdminCountries)
		adminOnlyGroup.PUT("/subadmins/:id/active", r.adminHandler.SetSubAdminActive)
		adminOnlyGroup.GET("/messages", r.adminHandler.ListContactMessages)
		adminOnlyGroup.PUT("/messages/:id/read", r.adminHandler.MarkContactMessageRead)
		adminOnlyGroup.PUT("/categories/:id/approval", r.adminHandler.ApproveCategory)
	}
}
