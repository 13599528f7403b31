package httpapi

import (
	"encoding/base64"
	"log"

	"github.com/gofiber/fiber/v2"

	"weathertweetbot/internal/pipeline"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, pipe *pipeline.Pipeline) {
	// Liveness check reporting the current posting mode.
	app.Get("/", func(c *fiber.Ctx) error {
		mode := "TEST MODE"
		if pipe.PostEnabled() {
			mode = "LIVE MODE"
		}
		return c.JSON(fiber.Map{
			"status": "alive",
			"mode":   mode,
		})
	})

	// Main endpoint for an external scheduler to call.
	runTask := func(c *fiber.Ctx) error {
		log.Println("INFO: '/run-tweet-task' endpoint triggered by a request.")

		out := pipe.RunPublishCycle(c.Context())
		switch out.Status {
		case pipeline.StatusSuccess, pipeline.StatusSkipped:
			return c.JSON(fiber.Map{"status": string(out.Status)})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": string(out.Status),
				"stage":  out.Stage,
				"error":  out.Err.Error(),
			})
		}
	}
	app.Get("/run-tweet-task", runTask)
	app.Post("/run-tweet-task", runTask)

	// Read-only composition: same pipeline, no publish, no artifact.
	app.Get("/preview", func(c *fiber.Ctx) error {
		preview, err := pipe.PreviewCycle(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"text":  preview.Text,
			"image": base64.StdEncoding.EncodeToString(preview.Image),
		})
	})
}
