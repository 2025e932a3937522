package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"memorybook/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, mediaSvc service.MediaService, musicSvc service.MusicService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	upload := UploadMedia(mediaSvc)
	app.Post("/upload", upload)
	app.Get("/static/uploads/:kind/:filename", ServeStatic(mediaSvc))

	api := app.Group("/api")
	api.Get("/spotify/search", SearchTracks(musicSvc))

	m := api.Group("/media")
	m.Post("/upload", upload)
	m.Get("/", ListMedia(mediaSvc))
	m.Get("/:id", GetMedia(mediaSvc))
	m.Delete("/:id", DeleteMedia(mediaSvc))
	m.Get("/:user/:memory/:kind/:filename", ServeScoped(mediaSvc))
}
