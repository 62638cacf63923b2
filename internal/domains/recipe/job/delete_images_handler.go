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

// DeleteImagesHandler xóa ảnh của recipe đã xóa hoặc ảnh cũ sau khi thay
type DeleteImagesHandler struct {
	imageService recipeService.ImageService
}

func NewDeleteImagesHandler(imageService recipeService.ImageService) *DeleteImagesHandler {
	return &DeleteImagesHandler{imageService: imageService}
}

// ProcessTask xử lý task recipe:delete_images
func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RecipeImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteImages payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Int64("recipe_id", payload.RecipeID).
		Str("prefix", payload.Prefix).
		Msg("Deleting recipe images")

	if err := h.imageService.DeleteImages(ctx, payload.Prefix); err != nil {
		log.Error().
			Err(err).
			Str("prefix", payload.Prefix).
			Msg("Failed to delete recipe images")
		return fmt.Errorf("delete images: %w", err)
	}
	return nil
}
