package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/shared"
)

type fakeProcessor struct {
	invalid bool
}

func (f fakeProcessor) ValidateImage([]byte) (string, error) {
	if f.invalid {
		return "", errors.New("not an image")
	}
	return "png", nil
}

func (fakeProcessor) ProcessImage([]byte) (map[string][]byte, error) {
	return map[string][]byte{"large": []byte("l"), "thumbnail": []byte("t")}, nil
}

func TestProcessImage_UploadsVariantsNextToOriginal(t *testing.T) {
	objects := newFakeObjectStore()
	objects.objects["recipes/abc/original.png"] = []byte("png")
	svc := NewImageService(objects, fakeProcessor{})

	err := svc.ProcessImage(context.Background(), shared.RecipeImagePayload{
		RecipeID: 1, Prefix: "recipes/abc/", Key: "recipes/abc/original.png",
	})
	require.NoError(t, err)
	assert.Contains(t, objects.objects, "recipes/abc/large.jpg")
	assert.Contains(t, objects.objects, "recipes/abc/thumbnail.jpg")
}

func TestProcessImage_InvalidImageSkipsRetry(t *testing.T) {
	objects := newFakeObjectStore()
	objects.objects["recipes/abc/original.png"] = []byte("junk")
	svc := NewImageService(objects, fakeProcessor{invalid: true})

	err := svc.ProcessImage(context.Background(), shared.RecipeImagePayload{
		Prefix: "recipes/abc/", Key: "recipes/abc/original.png",
	})
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDeleteImages_GuardsPrefix(t *testing.T) {
	objects := newFakeObjectStore()
	svc := NewImageService(objects, fakeProcessor{})

	assert.ErrorIs(t, svc.DeleteImages(context.Background(), ""), asynq.SkipRetry)
	assert.ErrorIs(t, svc.DeleteImages(context.Background(), "recipes/"), asynq.SkipRetry)
	assert.Empty(t, objects.deleted)

	require.NoError(t, svc.DeleteImages(context.Background(), "recipes/abc/"))
	assert.Equal(t, []string{"recipes/abc/"}, objects.deleted)
}
