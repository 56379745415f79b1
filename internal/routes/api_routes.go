package routes

import (
	"github.com/go-chi/chi/v5"

	"evently/server/internal/api"
	"evently/server/internal/constants"
	"evently/server/internal/middleware"
	"evently/server/internal/metrics"
)

// RegisterAPIRoutes registers the API surface. Every /api route runs
// behind the client-session middleware so a controller can be revived
// from the persisted token; protected groups add the role guards on
// top.
func RegisterAPIRoutes(r chi.Router, metricsReg *metrics.MetricsRegistry, deps *api.Dependencies) {
	reg := deps.Registry
	validate := deps.Validate
	svcs := deps.Services

	r.Route("/api", func(root chi.Router) {
		root.Use(middleware.ClientSession(reg))

		// Auth surface. Rate limited; login and signup are the endpoints
		// worth brute forcing.
		root.Group(func(a chi.Router) {
			a.Use(middleware.RateLimitMiddleware)
			a.Post("/auth/signup", api.SignUpHandler(reg, metricsReg, validate))
			a.Post("/auth/login", api.LoginHandler(reg, metricsReg, validate))
			a.Post("/auth/logout", api.LogoutHandler(reg, metricsReg))
			a.Post("/auth/role", api.SelectRoleHandler(reg, metricsReg, validate))
			a.Get("/auth/session", api.SessionHandler(reg, metricsReg))
		})

		// Public browse surface, no identity required.
		root.Get("/events", api.BrowseEventsHandler(svcs.Events))
		root.Get("/events/{eventID}", api.GetEventHandler(svcs.Events))

		// Any signed-in viewer with a role.
		root.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuthenticated(reg, metricsReg))
			authed.Get("/venues", api.ListVenuesHandler(svcs.Venues))
			authed.Post("/recommendations", api.RecommendHandler(svcs.Recommendations, validate))
		})

		// Attendee group.
		root.Group(func(attendee chi.Router) {
			attendee.Use(middleware.RequireRole(reg, metricsReg, constants.RoleAttendee))
			attendee.Post("/events/{eventID}/tickets", api.PurchaseTicketsHandler(svcs.Tickets, validate))
			attendee.Get("/tickets", api.MyTicketsHandler(svcs.Tickets))
		})

		// Organizer group.
		root.Group(func(organizer chi.Router) {
			organizer.Use(middleware.RequireRole(reg, metricsReg, constants.RoleOrganizer))
			organizer.Get("/organizer/events", api.MyEventsHandler(svcs.Events))
			organizer.Post("/organizer/events", api.CreateEventHandler(svcs.Events, validate))
			organizer.Patch("/organizer/events/{eventID}", api.UpdateEventHandler(svcs.Events, validate))
			organizer.Post("/organizer/events/{eventID}/booking", api.RequestVenueBookingHandler(svcs.Events, validate))
			organizer.Post("/organizer/venues", api.CreateVenueHandler(svcs.Venues, validate))
			organizer.Put("/organizer/venues/{venueID}", api.UpdateVenueHandler(svcs.Venues, validate))
			organizer.Delete("/organizer/venues/{venueID}", api.DeleteVenueHandler(svcs.Venues))
		})

		// Admin group.
		root.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(reg, metricsReg, constants.RoleAdmin))
			admin.Get("/admin/users", api.ListUsersHandler(svcs.Users))
			admin.Put("/admin/users/{accountID}/role", api.ReassignRoleHandler(svcs.Users, validate))
			admin.Get("/admin/bookings", api.PendingBookingsHandler(svcs.Events))
			admin.Post("/admin/bookings/{eventID}", api.DecideBookingHandler(svcs.Events, validate))
			admin.Get("/admin/analytics", api.AnalyticsHandler(svcs.Analytics))
		})
	})
}
