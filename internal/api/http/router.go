package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/parceldesk/courier-client/internal/api/http/handlers"
	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/guard"
	"github.com/parceldesk/courier-client/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Bookings *handlers.BookingHandler
	Tracking *handlers.TrackingHandler
	Store    *session.Store
}

// RegisterRoutes wires the client's views. Every protected route passes
// through the guard with its declared role requirement; open routes
// (login, register) carry no guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)

	app.Get("/", cfg.Auth.Home)
	app.Get("/session", cfg.Auth.Session)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)
	app.Post("/register", cfg.Auth.Register)
	app.Post("/register-officer", cfg.Auth.RegisterOfficer)

	customer := app.Group("/customer", guard.Middleware(cfg.Store, guard.Require(domain.RoleCustomer)))
	customer.Get("/", cfg.Tracking.Dashboard)
	customer.Get("/booking", cfg.Bookings.NewForm)
	customer.Post("/booking", cfg.Bookings.Create)
	customer.Post("/booking/quote", cfg.Bookings.Quote)
	customer.Get("/bookings", cfg.Bookings.List)
	customer.Post("/bookings/:id/cancel", cfg.Bookings.Cancel)
	customer.Post("/bookings/:id/pay", cfg.Bookings.Pay)
	customer.Get("/tracking/:id", cfg.Tracking.Track)

	officer := app.Group("/officer", guard.Middleware(cfg.Store, guard.Require(domain.RoleOfficer)))
	officer.Get("/", cfg.Tracking.Dashboard)
	officer.Get("/booking", cfg.Bookings.NewForm)
	officer.Post("/booking", cfg.Bookings.Create)
	officer.Post("/booking/quote", cfg.Bookings.Quote)
	officer.Get("/bookings", cfg.Bookings.ListAll)
	officer.Post("/bookings/:id/cancel", cfg.Bookings.Cancel)
	officer.Put("/bookings/:id/status", cfg.Tracking.UpdateStatus)
	officer.Put("/bookings/:id/schedule", cfg.Tracking.UpdateSchedule)
	officer.Get("/tracking/:id", cfg.Tracking.Track)
}
