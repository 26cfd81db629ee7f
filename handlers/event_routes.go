// handlers/event_routes.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"welcome-reward-system/services"
)

func SetupEventRoutes(app *fiber.App, dispatcher *services.Dispatcher) {
	// Single webhook for everything the gateway delivers: member joins,
	// config commands, modal submits. The dispatcher routes by tag.
	app.Post("/s/events", func(c *fiber.Ctx) error {
		var event services.InboundEvent
		if err := c.BodyParser(&event); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event body"})
		}

		result := dispatcher.Dispatch(c.UserContext(), event)

		status := fiber.StatusOK
		switch result.Status {
		case services.StatusDenied:
			status = fiber.StatusForbidden
		case services.StatusRejected:
			status = fiber.StatusUnprocessableEntity
		case services.StatusError:
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(result)
	})

	// Read-only view for the gateway's configuration UI.
	app.Get("/s/guilds/:id/config", func(c *fiber.Ctx) error {
		settings, err := dispatcher.Config.Get(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load guild config"})
		}
		return c.JSON(settings)
	})
}
