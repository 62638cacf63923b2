package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/shared"
)

type recordingImageService struct {
	processed []shared.RecipeImagePayload
	deleted   []string
}

func (r *recordingImageService) ProcessImage(_ context.Context, p shared.RecipeImagePayload) error {
	r.processed = append(r.processed, p)
	return nil
}

func (r *recordingImageService) DeleteImages(_ context.Context, prefix string) error {
	r.deleted = append(r.deleted, prefix)
	return nil
}

func task(t *testing.T, typ string, payload shared.RecipeImagePayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(typ, data)
}

func TestProcessImageHandler(t *testing.T) {
	svc := &recordingImageService{}
	h := NewProcessImageHandler(svc)

	payload := shared.RecipeImagePayload{RecipeID: 4, Prefix: "recipes/x/", Key: "recipes/x/original.jpg"}
	require.NoError(t, h.ProcessTask(context.Background(), task(t, shared.TypeProcessRecipeImage, payload)))
	assert.Equal(t, []shared.RecipeImagePayload{payload}, svc.processed)
}

func TestDeleteImagesHandler(t *testing.T) {
	svc := &recordingImageService{}
	h := NewDeleteImagesHandler(svc)

	require.NoError(t, h.ProcessTask(context.Background(),
		task(t, shared.TypeDeleteRecipeImages, shared.RecipeImagePayload{Prefix: "recipes/x/"})))
	assert.Equal(t, []string{"recipes/x/"}, svc.deleted)
}

func TestHandlersSkipRetryOnBadPayload(t *testing.T) {
	svc := &recordingImageService{}
	bad := asynq.NewTask(shared.TypeProcessRecipeImage, []byte("{"))

	assert.ErrorIs(t, NewProcessImageHandler(svc).ProcessTask(context.Background(), bad), asynq.SkipRetry)
	assert.ErrorIs(t, NewDeleteImagesHandler(svc).ProcessTask(context.Background(), bad), asynq.SkipRetry)
	assert.Empty(t, svc.processed)
}

type stubSweeper struct {
	calls int
	err   error
}

func (s *stubSweeper) Sweep(context.Context) (int, error) {
	s.calls++
	return 2, s.err
}

func TestSweepOrphansHandler(t *testing.T) {
	sweeper := &stubSweeper{}
	h := NewSweepOrphansHandler(sweeper)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeSweepOrphanImages, nil)))
	assert.Equal(t, 1, sweeper.calls)

	sweeper.err = errors.New("storage down")
	assert.Error(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeSweepOrphanImages, nil)))
}
