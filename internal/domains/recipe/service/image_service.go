package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"foodgram-backend/internal/shared"
	"foodgram-backend/pkg/logger"
)

// Prefix hợp lệ của ảnh recipe, chặn xóa nhầm ngoài thư mục recipes/
const imagePrefixRoot = "recipes/"

type imageService struct {
	store     ObjectStore
	processor VariantProcessor
}

func NewImageService(store ObjectStore, processor VariantProcessor) ImageService {
	return &imageService{store: store, processor: processor}
}

// ProcessImage tải original, resize thành các variant và upload cùng prefix (được gọi từ Worker)
func (s *imageService) ProcessImage(ctx context.Context, payload shared.RecipeImagePayload) error {
	if payload.Key == "" || !strings.HasPrefix(payload.Key, payload.Prefix) {
		return fmt.Errorf("invalid image key %q: %w", payload.Key, asynq.SkipRetry)
	}

	// Download ảnh original từ MinIO
	original, err := s.store.Download(ctx, payload.Key)
	if err != nil {
		return fmt.Errorf("failed to download original: %w", err)
	}

	// Ảnh hỏng thì retry cũng vô ích
	if _, err := s.processor.ValidateImage(original); err != nil {
		return fmt.Errorf("invalid image: %v: %w", err, asynq.SkipRetry)
	}

	variants, err := s.processor.ProcessImage(original)
	if err != nil {
		return fmt.Errorf("failed to process image: %w", err)
	}

	// Upload từng variant: <prefix><variant>.jpg
	for name, data := range variants {
		key := fmt.Sprintf("%s%s.jpg", payload.Prefix, name)
		if _, err := s.store.Upload(ctx, key, data, "image/jpeg"); err != nil {
			return fmt.Errorf("failed to upload variant %s: %w", name, err)
		}
	}

	logger.Info("Recipe image processed", map[string]interface{}{
		"recipe_id": payload.RecipeID,
		"prefix":    payload.Prefix,
		"variants":  len(variants),
	})
	return nil
}

// DeleteImages xóa toàn bộ object dưới prefix
func (s *imageService) DeleteImages(ctx context.Context, prefix string) error {
	if !strings.HasPrefix(prefix, imagePrefixRoot) || len(prefix) <= len(imagePrefixRoot) {
		return fmt.Errorf("refusing to delete prefix %q: %w", prefix, asynq.SkipRetry)
	}

	if err := s.store.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}

	logger.Info("Recipe images deleted", map[string]interface{}{"prefix": prefix})
	return nil
}
