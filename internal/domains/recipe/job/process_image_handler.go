package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	recipeService "foodgram-backend/internal/domains/recipe/service"
	"foodgram-backend/internal/shared"
)

// ProcessImageHandler tạo các variant (large/medium/thumbnail) cho ảnh recipe
type ProcessImageHandler struct {
	imageService recipeService.ImageService
}

func NewProcessImageHandler(imageService recipeService.ImageService) *ProcessImageHandler {
	return &ProcessImageHandler{imageService: imageService}
}

// ProcessTask xử lý task recipe:process_image
func (h *ProcessImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RecipeImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessImage payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Int64("recipe_id", payload.RecipeID).
		Str("key", payload.Key).
		Msg("Processing recipe image variants")

	if err := h.imageService.ProcessImage(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Int64("recipe_id", payload.RecipeID).
			Msg("Failed to process recipe image")
		return fmt.Errorf("process image: %w", err)
	}
	return nil
}
