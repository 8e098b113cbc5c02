package routes

import (
	"archery-results/controllers"
	"archery-results/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Clubs     *controllers.ClubController
	Auth      *controllers.AuthController
	Imports   *controllers.ImportController
	JWTSecret string
}

func Setup(app *fiber.App, h Handlers) {
	api := app.Group("/api")
	auth := middleware.RequireAuth(h.JWTSecret)

	api.Post("/auth/login", h.Auth.Login)

	api.Get("/clubs", h.Clubs.List)
	api.Get("/clubs/suggestions", h.Clubs.Suggestions)
	api.Post("/clubs", auth, h.Clubs.Create)
	api.Post("/clubs/reset", auth, h.Clubs.Reset)
	api.Delete("/clubs/:code", auth, h.Clubs.Delete)

	api.Post("/imports", auth, h.Imports.Create)
	api.Get("/imports/:id", h.Imports.Get)
	api.Get("/imports/:id/tickets", h.Imports.Tickets)
	api.Get("/imports/:id/export", h.Imports.Export)
	api.Put("/imports/:id/tickets/:ticketId", auth, h.Imports.Decide)
	api.Post("/imports/:id/batch", auth, h.Imports.Batch)
	api.Post("/imports/:id/advance", auth, h.Imports.Advance)
	api.Delete("/imports/:id", auth, h.Imports.Delete)
}
