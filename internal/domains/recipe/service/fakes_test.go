package service

import (
	"context"
	"sort"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	catalog "foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/recipe/repository"
	"foodgram-backend/internal/infrastructure/storage"
	"foodgram-backend/internal/shared"
)

// =====================================================
// In-memory repository (có rollback)
// =====================================================

type amountRow struct {
	IngredientID int64
	Amount       decimal.Decimal
}

type fakeStore struct {
	users         map[int64]model.Author
	tags          map[int64]catalog.Tag
	ingredients   map[int64]catalog.Ingredient
	recipes       map[int64]model.Recipe
	amounts       map[int64]amountRow
	recipeAmounts map[int64][]int64
	recipeTags    map[int64][]int64
	nextRecipeID  int64
	nextAmountID  int64
	locks         int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[int64]model.Author{
			1: {ID: 1, Email: "chef@example.com", Username: "chef", FirstName: "Ann", LastName: "Chef"},
			2: {ID: 2, Email: "other@example.com", Username: "other", FirstName: "Bob", LastName: "Other"},
		},
		tags: map[int64]catalog.Tag{
			1: {ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
			2: {ID: 2, Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		},
		ingredients: map[int64]catalog.Ingredient{
			1: {ID: 1, Name: "Salt", MeasurementUnit: "g"},
			2: {ID: 2, Name: "Flour", MeasurementUnit: "g"},
			3: {ID: 3, Name: "Milk", MeasurementUnit: "ml"},
		},
		recipes:       map[int64]model.Recipe{},
		amounts:       map[int64]amountRow{},
		recipeAmounts: map[int64][]int64{},
		recipeTags:    map[int64][]int64{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	cp := *s
	cp.recipes = make(map[int64]model.Recipe, len(s.recipes))
	for k, v := range s.recipes {
		cp.recipes[k] = v
	}
	cp.amounts = make(map[int64]amountRow, len(s.amounts))
	for k, v := range s.amounts {
		cp.amounts[k] = v
	}
	cp.recipeAmounts = make(map[int64][]int64, len(s.recipeAmounts))
	for k, v := range s.recipeAmounts {
		cp.recipeAmounts[k] = append([]int64(nil), v...)
	}
	cp.recipeTags = make(map[int64][]int64, len(s.recipeTags))
	for k, v := range s.recipeTags {
		cp.recipeTags[k] = append([]int64(nil), v...)
	}
	return &cp
}

type fakeRepo struct {
	store *fakeStore
}

var _ repository.RepositoryInterface = (*fakeRepo)(nil)

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*model.Recipe, error) {
	rec, ok := r.store.recipes[id]
	if !ok {
		return nil, model.ErrRecipeNotFound
	}
	rec.Author = r.store.users[rec.AuthorID]
	return &rec, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, id int64) (*model.Recipe, error) {
	r.store.locks++
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) GetShort(_ context.Context, id int64) (*shared.RecipeShort, error) {
	rec, ok := r.store.recipes[id]
	if !ok {
		return nil, model.ErrRecipeNotFound
	}
	return &shared.RecipeShort{ID: rec.ID, Name: rec.Name, Image: rec.Image, CookingTime: rec.CookingTime}, nil
}

func (r *fakeRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Recipe, int64, error) {
	ids := make([]int64, 0, len(r.store.recipes))
	for id, rec := range r.store.recipes {
		if filter.AuthorID > 0 && rec.AuthorID != filter.AuthorID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := []model.Recipe{}
	for _, id := range ids {
		rec, _ := r.GetByID(ctx, id)
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) TagsFor(_ context.Context, recipeIDs []int64) (map[int64][]catalog.Tag, error) {
	out := map[int64][]catalog.Tag{}
	for _, id := range recipeIDs {
		for _, tagID := range r.store.recipeTags[id] {
			out[id] = append(out[id], r.store.tags[tagID])
		}
	}
	return out, nil
}

func (r *fakeRepo) IngredientsFor(_ context.Context, recipeIDs []int64) (map[int64][]model.RecipeIngredient, error) {
	out := map[int64][]model.RecipeIngredient{}
	for _, id := range recipeIDs {
		for _, amountID := range r.store.recipeAmounts[id] {
			row := r.store.amounts[amountID]
			ing := r.store.ingredients[row.IngredientID]
			out[id] = append(out[id], model.RecipeIngredient{
				ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit, Amount: row.Amount,
			})
		}
		sort.Slice(out[id], func(i, j int) bool { return out[id][i].Name < out[id][j].Name })
	}
	return out, nil
}

func (r *fakeRepo) ListShortByAuthors(context.Context, []int64, int) (map[int64][]shared.RecipeShort, error) {
	return map[int64][]shared.RecipeShort{}, nil
}

func (r *fakeRepo) CountByAuthors(context.Context, []int64) (map[int64]int, error) {
	return map[int64]int{}, nil
}

func (r *fakeRepo) ImageKeysInUse(_ context.Context, prefixes []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, p := range prefixes {
		for _, rec := range r.store.recipes {
			if rec.ImageKey == p {
				out[p] = true
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, recipe *model.Recipe) error {
	r.store.nextRecipeID++
	recipe.ID = r.store.nextRecipeID
	r.store.recipes[recipe.ID] = *recipe
	return nil
}

func (r *fakeRepo) UpdateScalars(_ context.Context, recipe *model.Recipe) error {
	if _, ok := r.store.recipes[recipe.ID]; !ok {
		return model.ErrRecipeNotFound
	}
	r.store.recipes[recipe.ID] = *recipe
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.recipes[id]; !ok {
		return model.ErrRecipeNotFound
	}
	delete(r.store.recipes, id)
	delete(r.store.recipeAmounts, id)
	delete(r.store.recipeTags, id)
	return nil
}

func (r *fakeRepo) FindTags(_ context.Context, ids []int64) ([]catalog.Tag, error) {
	out := []catalog.Tag{}
	for _, id := range ids {
		if t, ok := r.store.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindIngredients(_ context.Context, ids []int64) ([]catalog.Ingredient, error) {
	out := []catalog.Ingredient{}
	for _, id := range ids {
		if i, ok := r.store.ingredients[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetOrCreateAmount(_ context.Context, ingredientID int64, amount decimal.Decimal) (int64, error) {
	for id, row := range r.store.amounts {
		if row.IngredientID == ingredientID && row.Amount.Equal(amount) {
			return id, nil
		}
	}
	r.store.nextAmountID++
	r.store.amounts[r.store.nextAmountID] = amountRow{IngredientID: ingredientID, Amount: amount}
	return r.store.nextAmountID, nil
}

func (r *fakeRepo) ReplaceAmounts(_ context.Context, recipeID int64, amountIDs []int64) error {
	r.store.recipeAmounts[recipeID] = append([]int64(nil), amountIDs...)
	return nil
}

func (r *fakeRepo) ReplaceTags(_ context.Context, recipeID int64, tagIDs []int64) error {
	r.store.recipeTags[recipeID] = append([]int64(nil), tagIDs...)
	return nil
}

func (r *fakeRepo) WithTx(_ context.Context, fn func(repo repository.RepositoryInterface) error) error {
	snapshot := r.store.clone()
	if err := fn(r); err != nil {
		*r.store = *snapshot
		return err
	}
	return nil
}

// =====================================================
// Collaborators
// =====================================================

type fakeMembership struct {
	favorited map[int64]bool
	inCart    map[int64]bool
	calls     int
}

func (f *fakeMembership) Flags(_ context.Context, _ int64, _ []int64) (map[int64]bool, map[int64]bool, error) {
	f.calls++
	return f.favorited, f.inCart, nil
}

type fakeSubscriptions struct {
	subscribed map[int64]bool
	calls      int
}

func (f *fakeSubscriptions) SubscribedTo(_ context.Context, _ int64, _ []int64) (map[int64]bool, error) {
	f.calls++
	return f.subscribed, nil
}

type fakeDecoder struct{}

func (fakeDecoder) DecodeBase64(payload string) ([]byte, string, error) {
	if payload == "bad" {
		return nil, "", storage.ErrImageNotDecoded
	}
	return []byte("png-bytes"), "png", nil
}

type fakeObjectStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.objects[key] = data
	return "http://minio.local/recipes-bucket/" + key, nil
}

func (f *fakeObjectStore) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrImageNotDecoded
	}
	return data, nil
}

func (f *fakeObjectStore) DeleteByPrefix(_ context.Context, prefix string) error {
	f.deleted = append(f.deleted, prefix)
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			delete(f.objects, key)
		}
	}
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (f *fakeEnqueuer) types() []string {
	out := make([]string, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.Type())
	}
	return out
}
