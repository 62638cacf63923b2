package main

import (
	"github.com/hibiken/asynq"

	recipeJob "foodgram-backend/internal/domains/recipe/job"
	"foodgram-backend/internal/shared"
	"foodgram-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processImage *recipeJob.ProcessImageHandler
	deleteImages *recipeJob.DeleteImagesHandler
	sweepOrphans *recipeJob.SweepOrphansHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processImage: recipeJob.NewProcessImageHandler(c.ImageService),
		deleteImages: recipeJob.NewDeleteImagesHandler(c.ImageService),
		sweepOrphans: recipeJob.NewSweepOrphansHandler(c.ImageSweeper),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Recipe images
	mux.HandleFunc(shared.TypeProcessRecipeImage, h.processImage.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteRecipeImages, h.deleteImages.ProcessTask)

	// Maintenance
	mux.HandleFunc(shared.TypeSweepOrphanImages, h.sweepOrphans.ProcessTask)
}
