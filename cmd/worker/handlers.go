package main

import (
	"github.com/hibiken/asynq"

	"vcard-backend/internal/infrastructure/queue/handlers"
	"vcard-backend/internal/shared"
	"vcard-backend/pkg/container"
)

// registerHandlers map task type -> handler
func registerHandlers(mux *asynq.ServeMux, c *container.Container) {
	mux.HandleFunc(shared.TypeRenderCardPNG, handlers.RenderCardPNGHandler(
		c.CardRenderer,
		c.CardExporter,
		c.Storage,
		c.ExportJobs,
	))
}
