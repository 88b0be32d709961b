// Package router registers the HTTP API on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/booksphere/internal/handler"
	"github.com/iliyamo/booksphere/internal/middleware"
)

// RegisterRoutes registers endpoints that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterContent registers the read-only CMS endpoints.  cache wraps every
// route; pass nil to serve them uncached.
func RegisterContent(e *echo.Echo, h *handler.ContentHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)
	g.GET("/events", h.ListEvents)
	g.GET("/events/:id", h.GetEvent)
	g.GET("/config", h.GetConfig)
	g.GET("/banners", h.ListBanners)
	g.GET("/tiers", h.ListTiers)
	g.GET("/recommendations", h.ListRecommendations)
	g.GET("/recommendations/events", h.RecommendedEvents)
}

// RegisterBooking registers the booking flow.  limit, when non-nil, guards
// booking creation only.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, limit echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if limit != nil {
		mw = append(mw, limit)
	}
	e.POST("/v1/bookings", h.CreateBooking, mw...)
	e.POST("/v1/preferences", h.RegisterPreference)
	e.GET("/v1/notifications/inbox", h.Inbox)
	e.GET("/v1/tickets/:bookingId", h.DownloadTicket)
}

// RegisterAdmin registers the ADMIN-only cache management endpoints.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	g.DELETE("/content-cache", h.PurgeContent)
	g.DELETE("/content-cache/:type", h.InvalidateContent)
}
