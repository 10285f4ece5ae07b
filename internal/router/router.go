// Package router wires the HTTP routes to their handlers and guards.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/config"
	"github.com/mayastay/booking-api/internal/handler"
	"github.com/mayastay/booking-api/internal/middleware"
	"github.com/mayastay/booking-api/internal/model"
	"github.com/mayastay/booking-api/internal/utils"
)

// Deps carries everything route registration needs.
type Deps struct {
	Issuer    *utils.TokenIssuer
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger

	Auth     *handler.AuthHandler
	Public   *handler.PublicHandler
	Listings *handler.ListingHandler
	Bookings *handler.BookingHandler
	Admin    *handler.AdminHandler
}

// Register attaches all routes to e.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// Auth endpoints are the brute-force target, so they carry the
	// rate limiter even when it is disabled elsewhere.
	auth := v1.Group("/auth", middleware.RateLimit(d.RateLimit, d.Redis, d.Log))
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/refresh-access", d.Auth.RefreshAccess)
	auth.POST("/logout", d.Auth.Logout)

	// Public browse surface, cacheable.
	browse := v1.Group("/listings", middleware.CacheGET(d.Cache, d.Redis, d.Log))
	browse.GET("", d.Public.Browse)
	browse.GET("/:id", d.Public.Detail)

	authed := v1.Group("", middleware.JWTAuth(d.Issuer))
	authed.GET("/me", d.Auth.Me)

	// Owner listing management.
	owner := authed.Group("", middleware.RequireRole(model.RoleListingOwner))
	owner.POST("/listings", d.Listings.Create)
	owner.GET("/listings/mine", d.Listings.Mine)
	owner.PUT("/listings/:id", d.Listings.Update)
	owner.DELETE("/listings/:id", d.Listings.Delete)
	owner.GET("/listings/:id/bookings", d.Bookings.ListForListing)

	// Booking lifecycle. Any authenticated role may book.
	authed.POST("/bookings", d.Bookings.Create)
	authed.GET("/bookings/mine", d.Bookings.ListMine)
	authed.PUT("/bookings/:id/cancel", d.Bookings.Cancel)

	admin := authed.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/listings", d.Admin.AllListings)
	admin.GET("/listings/pending", d.Admin.PendingListings)
	admin.PUT("/listings/:id/approve", d.Admin.Approve)
	admin.PUT("/listings/:id/reject", d.Admin.Reject)
	admin.GET("/bookings", d.Admin.AllBookings)
	admin.GET("/stats", d.Admin.Stats)
}
