package api

import (
	"errors"
	"fleet-route-service/internal/api/handlers"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewRouter wires HTTP handlers with their dependencies and returns the fiber app.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.RoutePlanner, directory ports.FleetDirectory) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestID(), newLogger())

	app.Get("/health", handlers.Health)

	handlers.RoutesRouter(app.Group("/routes"), &handlers.RouteHandler{
		Planner:   planner,
		Directory: directory,
	})
	handlers.StopsRouter(app.Group("/stops"), &handlers.StopHandler{Planner: planner})

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}
