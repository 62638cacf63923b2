package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	catalog "foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/recipe/repository"
	"foodgram-backend/internal/infrastructure/storage"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
)

type recipeService struct {
	repo          repository.RepositoryInterface
	membership    MembershipChecker
	subscriptions SubscriptionChecker
	decoder       ImageDecoder
	images        ObjectStore
	tasks         TaskEnqueuer
	rules         model.Rules
}

// NewRecipeService - tasks có thể nil (không có Redis thì bỏ qua xử lý ảnh nền)
func NewRecipeService(
	repo repository.RepositoryInterface,
	membership MembershipChecker,
	subscriptions SubscriptionChecker,
	decoder ImageDecoder,
	images ObjectStore,
	tasks TaskEnqueuer,
	rules model.Rules,
) RecipeService {
	return &recipeService{
		repo:          repo,
		membership:    membership,
		subscriptions: subscriptions,
		decoder:       decoder,
		images:        images,
		tasks:         tasks,
		rules:         rules,
	}
}

// storedImage là ảnh original vừa upload, chưa gắn với recipe nào
type storedImage struct {
	URL    string
	Prefix string
	Key    string
}

// =====================================================
// READS
// =====================================================

func (s *recipeService) ListRecipes(ctx context.Context, actor shared.Actor, filter model.ListFilter) ([]model.RecipeResponse, int64, error) {
	// Flag membership chỉ có nghĩa với user đã đăng nhập
	filter.ViewerID = 0
	if actor.IsAuthenticated() {
		filter.ViewerID = actor.UserID
	} else {
		filter.IsFavorited = false
		filter.IsInShoppingCart = false
	}

	recipes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.hydrate(ctx, actor, recipes)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, actor shared.Actor, id int64) (*model.RecipeResponse, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	responses, err := s.hydrate(ctx, actor, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// hydrate gắn tags, ingredients và các field tính theo viewer.
// Anonymous: is_favorited / is_in_shopping_cart / is_subscribed luôn false, không query
func (s *recipeService) hydrate(ctx context.Context, actor shared.Actor, recipes []model.Recipe) ([]model.RecipeResponse, error) {
	responses := make([]model.RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return responses, nil
	}

	ids := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	tags, err := s.repo.TagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.repo.IngredientsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	var favorited, inCart, subscribed map[int64]bool
	if actor.IsAuthenticated() {
		if s.membership != nil {
			favorited, inCart, err = s.membership.Flags(ctx, actor.UserID, ids)
			if err != nil {
				return nil, err
			}
		}
		if s.subscriptions != nil {
			subscribed, err = s.subscriptions.SubscribedTo(ctx, actor.UserID, authorIDs)
			if err != nil {
				return nil, err
			}
		}
	}

	for _, r := range recipes {
		author := r.Author
		author.IsSubscribed = subscribed[r.AuthorID]

		recipeTags := tags[r.ID]
		if recipeTags == nil {
			recipeTags = []catalog.Tag{}
		}
		recipeIngredients := ingredients[r.ID]
		if recipeIngredients == nil {
			recipeIngredients = []model.RecipeIngredient{}
		}

		responses = append(responses, model.RecipeResponse{
			ID:               r.ID,
			Tags:             recipeTags,
			Author:           author,
			Ingredients:      recipeIngredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return responses, nil
}

// =====================================================
// CREATE / UPDATE / DELETE
// =====================================================

func (s *recipeService) CreateRecipe(ctx context.Context, actor shared.Actor, req *model.RecipeWriteRequest) (*model.RecipeResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	// Step 1: validate toàn bộ payload, gom lỗi mọi field
	decoded, err := s.validate(req, false)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    actor.UserID,
		Name:        *req.Name,
		Text:        *req.Text,
		CookingTime: req.CookingTime.Value,
	}

	// Step 2: upload ảnh trước transaction
	var img *storedImage
	if decoded != nil {
		img, err = s.storeImage(ctx, decoded)
		if err != nil {
			return nil, err
		}
		recipe.Image, recipe.ImageKey = img.URL, img.Prefix
	}

	// Step 3: transaction: tạo recipe + reconcile tags/ingredients
	err = s.repo.WithTx(ctx, func(tx repository.RepositoryInterface) error {
		if err := tx.Create(ctx, recipe); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, recipe.ID, req)
	})
	if err != nil {
		if img != nil {
			s.discardImage(ctx, img.Prefix)
		}
		return nil, err
	}

	// Step 4: sau commit mới enqueue, worker luôn thấy recipe
	if img != nil {
		s.enqueueProcess(ctx, recipe.ID, img)
	}

	log.Info().
		Int64("recipe_id", recipe.ID).
		Int64("author_id", actor.UserID).
		Msg("Recipe created")

	return s.GetRecipe(ctx, actor, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, actor shared.Actor, id int64, req *model.RecipeWriteRequest) (*model.RecipeResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	// Step 1: check quyền trước khi validate/upload
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, current) {
		return nil, model.ErrNotRecipeOwner
	}

	decoded, err := s.validate(req, true)
	if err != nil {
		return nil, err
	}

	var img *storedImage
	if decoded != nil {
		img, err = s.storeImage(ctx, decoded)
		if err != nil {
			return nil, err
		}
	}

	// Step 2: đọc lại row có khóa trong transaction, update đồng thời không ghi đè lẫn nhau
	var oldPrefix string
	err = s.repo.WithTx(ctx, func(tx repository.RepositoryInterface) error {
		recipe, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !canModify(actor, recipe) {
			return model.ErrNotRecipeOwner
		}

		// Chỉ field có trong payload mới được ghi đè
		if req.Name != nil {
			recipe.Name = *req.Name
		}
		if req.Text != nil {
			recipe.Text = *req.Text
		}
		if req.CookingTime.Present {
			recipe.CookingTime = req.CookingTime.Value
		}
		if img != nil {
			oldPrefix = recipe.ImageKey
			recipe.Image, recipe.ImageKey = img.URL, img.Prefix
		}

		if err := tx.UpdateScalars(ctx, recipe); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, recipe.ID, req)
	})
	if err != nil {
		if img != nil {
			s.discardImage(ctx, img.Prefix)
		}
		return nil, err
	}

	if img != nil {
		s.enqueueProcess(ctx, id, img)
		if oldPrefix != "" {
			s.enqueueDelete(ctx, id, oldPrefix)
		}
	}

	log.Info().
		Int64("recipe_id", id).
		Int64("actor_id", actor.UserID).
		Msg("Recipe updated")

	return s.GetRecipe(ctx, actor, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, actor shared.Actor, id int64) error {
	if !actor.IsAuthenticated() {
		return apperr.ErrUnauthenticated
	}

	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, recipe) {
		return model.ErrNotRecipeOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if recipe.ImageKey != "" {
		s.enqueueDelete(ctx, recipe.ID, recipe.ImageKey)
	}

	log.Info().
		Int64("recipe_id", id).
		Int64("actor_id", actor.UserID).
		Msg("Recipe deleted")
	return nil
}

// =====================================================
// RECONCILIATION
// =====================================================

// reconcile thay toàn bộ tags và amounts của recipe trong transaction hiện tại.
// Id không tồn tại → NotFound, caller rollback
func (s *recipeService) reconcile(ctx context.Context, tx repository.RepositoryInterface, recipeID int64, req *model.RecipeWriteRequest) error {
	// Step 1: resolve tags
	tagIDs := req.TagIDs()
	tags, err := tx.FindTags(ctx, tagIDs)
	if err != nil {
		return err
	}
	foundTags := make(map[int64]struct{}, len(tags))
	for _, t := range tags {
		foundTags[t.ID] = struct{}{}
	}
	if missing := missingIDs(tagIDs, foundTags); len(missing) > 0 {
		return catalog.ErrTagNotFound.WithMessage("tag %d not found", missing[0])
	}

	// Step 2: resolve ingredients
	ingredientIDs := req.IngredientIDs()
	ingredients, err := tx.FindIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	foundIngredients := make(map[int64]struct{}, len(ingredients))
	for _, i := range ingredients {
		foundIngredients[i.ID] = struct{}{}
	}
	if missing := missingIDs(ingredientIDs, foundIngredients); len(missing) > 0 {
		return catalog.ErrIngredientNotFound.WithMessage("ingredient %d not found", missing[0])
	}

	// Step 3: get-or-create Amount theo (ingredient, quantity)
	amountIDs := make([]int64, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		amountID, err := tx.GetOrCreateAmount(ctx, in.ID, in.Amount.Round(2))
		if err != nil {
			return err
		}
		amountIDs = append(amountIDs, amountID)
	}

	// Step 4 + 5: full replace, không merge
	if err := tx.ReplaceAmounts(ctx, recipeID, amountIDs); err != nil {
		return err
	}
	return tx.ReplaceTags(ctx, recipeID, tagIDs)
}

func missingIDs(want []int64, found map[int64]struct{}) []int64 {
	var missing []int64
	for _, id := range want {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func canModify(actor shared.Actor, recipe *model.Recipe) bool {
	return actor.IsAdmin() || recipe.AuthorID == actor.UserID
}

// =====================================================
// VALIDATION + IMAGE
// =====================================================

type decodedImage struct {
	data   []byte
	format string
}

func (s *recipeService) validate(req *model.RecipeWriteRequest, partial bool) (*decodedImage, error) {
	req.Normalize()

	var decoded *decodedImage
	imageRule := validation.By(func(value interface{}) error {
		payload, ok := model.StringValue(value)
		if !ok || payload == "" {
			return nil
		}
		data, format, err := s.decoder.DecodeBase64(payload)
		if err != nil {
			return imageError(err)
		}
		decoded = &decodedImage{data: data, format: format}
		return nil
	})

	if err := req.Validate(s.rules, partial, imageRule); err != nil {
		return nil, apperr.FromValidation(err)
	}
	return decoded, nil
}

func imageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return errors.New("image is too large")
	case errors.Is(err, storage.ErrImageFormat):
		return errors.New("only JPEG and PNG images are supported")
	default:
		return errors.New("must be a base64 encoded image")
	}
}

func (s *recipeService) storeImage(ctx context.Context, img *decodedImage) (*storedImage, error) {
	ext := img.format
	if ext == "jpeg" {
		ext = "jpg"
	}
	prefix := fmt.Sprintf("recipes/%s/", uuid.NewString())
	key := prefix + "original." + ext

	url, err := s.images.Upload(ctx, key, img.data, "image/"+img.format)
	if err != nil {
		return nil, fmt.Errorf("failed to upload recipe image: %w", err)
	}
	return &storedImage{URL: url, Prefix: prefix, Key: key}, nil
}

// discardImage dọn ảnh khi transaction fail. Xóa trực tiếp, lỗi thì để worker xóa
func (s *recipeService) discardImage(ctx context.Context, prefix string) {
	if err := s.images.DeleteByPrefix(ctx, prefix); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Failed to discard uploaded image")
		s.enqueueDelete(ctx, 0, prefix)
	}
}

// =====================================================
// BACKGROUND TASKS
// =====================================================

func (s *recipeService) enqueueProcess(ctx context.Context, recipeID int64, img *storedImage) {
	s.enqueue(ctx, shared.TypeProcessRecipeImage,
		shared.RecipeImagePayload{RecipeID: recipeID, Prefix: img.Prefix, Key: img.Key},
		asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3))
}

func (s *recipeService) enqueueDelete(ctx context.Context, recipeID int64, prefix string) {
	s.enqueue(ctx, shared.TypeDeleteRecipeImages,
		shared.RecipeImagePayload{RecipeID: recipeID, Prefix: prefix},
		asynq.Queue(shared.QueueLow), asynq.MaxRetry(5))
}

// enqueue lỗi chỉ log, không làm fail request
func (s *recipeService) enqueue(ctx context.Context, taskType string, payload shared.RecipeImagePayload, opts ...asynq.Option) {
	if s.tasks == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("task", taskType).Msg("Failed to marshal task payload")
		return
	}

	if _, err := s.tasks.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...); err != nil {
		log.Warn().
			Err(err).
			Str("task", taskType).
			Int64("recipe_id", payload.RecipeID).
			Msg("Failed to enqueue task")
	}
}
