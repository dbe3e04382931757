package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/library/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	books *handlers.BooksHandler,
	loans *handlers.LendingHandler,
	users *handlers.UsersHandler,
	health *handlers.HealthHandler,
	authMW fiber.Handler,
) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	a := app.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Post("/logout", authMW, auth.Logout)
	a.Get("/protected", authMW, auth.Protected)

	b := app.Group("/books", authMW)
	// Lending routes must precede /:id so "borrow" is not parsed as an id.
	b.Post("/borrow", loans.Borrow)
	b.Post("/return", loans.Return)
	b.Get("/borrowed", loans.ListAll)
	b.Get("/borrowed/:user_id", loans.ListByUser)
	b.Get("/", books.List)
	b.Post("/", books.Create)
	b.Get("/:id", books.GetByID)
	b.Put("/:id", books.Update)
	b.Delete("/:id", books.Delete)

	u := app.Group("/users", authMW)
	u.Get("/profile", users.GetProfile)
	u.Put("/profile", users.UpdateProfile)
}
