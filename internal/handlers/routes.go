package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the analysis API on router. Everything except health requires auth.
func RegisterRoutes(router fiber.Router, auth fiber.Handler, upload *UploadHandler, result *ResultHandler) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	analyses := router.Group("/analyses", auth)
	analyses.Post("/", upload.HandleAnalyze)
	analyses.Post("/batch", upload.HandleBatch)
	analyses.Get("/", result.HandleList)
	analyses.Get("/:id", result.HandleGet)
	analyses.Delete("/:id", result.HandleDelete)
}
