package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	recipeService "foodgram-backend/internal/domains/recipe/service"
)

// SweepOrphansHandler chạy định kỳ từ scheduler, payload rỗng
type SweepOrphansHandler struct {
	sweeper recipeService.ImageSweeper
}

func NewSweepOrphansHandler(sweeper recipeService.ImageSweeper) *SweepOrphansHandler {
	return &SweepOrphansHandler{sweeper: sweeper}
}

func (h *SweepOrphansHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	removed, err := h.sweeper.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Orphan image sweep failed")
		return fmt.Errorf("sweep orphan images: %w", err)
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Removed orphan recipe images")
	}
	return nil
}
