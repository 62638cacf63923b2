package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/domains/membership/model"
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
)

type key struct {
	kind     model.Kind
	userID   int64
	recipeID int64
}

// fakeRepo giữ unique (kind, user, recipe) giống constraint của DB
type fakeRepo struct {
	rows map[key]bool
	// staleExists giả lập race: pre-check chưa thấy row của request song song
	staleExists bool
	// deleted giả lập recipe bị xóa giữa GetShort và INSERT (FK violation)
	deleted map[int64]bool
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[key]bool{}} }

func (f *fakeRepo) Exists(_ context.Context, kind model.Kind, userID, recipeID int64) (bool, error) {
	if f.staleExists {
		return false, nil
	}
	return f.rows[key{kind, userID, recipeID}], nil
}

func (f *fakeRepo) Add(_ context.Context, kind model.Kind, userID, recipeID int64) error {
	if f.deleted[recipeID] {
		return recipeModel.ErrRecipeNotFound
	}
	k := key{kind, userID, recipeID}
	if f.rows[k] {
		return model.ErrAlreadyAdded
	}
	f.rows[k] = true
	return nil
}

func (f *fakeRepo) Remove(_ context.Context, kind model.Kind, userID, recipeID int64) (bool, error) {
	k := key{kind, userID, recipeID}
	if !f.rows[k] {
		return false, nil
	}
	delete(f.rows, k)
	return true, nil
}

func (f *fakeRepo) RecipeIDs(_ context.Context, kind model.Kind, userID int64) ([]int64, error) {
	ids := []int64{}
	for k := range f.rows {
		if k.kind == kind && k.userID == userID {
			ids = append(ids, k.recipeID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) Flags(context.Context, int64, []int64) (map[int64]bool, map[int64]bool, error) {
	return nil, nil, nil
}

type fakeRecipes map[int64]shared.RecipeShort

func (f fakeRecipes) GetShort(_ context.Context, id int64) (*shared.RecipeShort, error) {
	r, ok := f[id]
	if !ok {
		return nil, recipeModel.ErrRecipeNotFound
	}
	return &r, nil
}

var user = shared.Actor{UserID: 1, Role: shared.RoleUser}

func newService() (*fakeRepo, Service) {
	repo := newFakeRepo()
	recipes := fakeRecipes{10: {ID: 10, Name: "Pancakes with syrup", Image: "http://img/10.png", CookingTime: 20}}
	return repo, NewMembershipService(repo, recipes)
}

func TestAdd_ReturnsShortRecipe(t *testing.T) {
	_, svc := newService()

	short, err := svc.Add(context.Background(), user, model.KindFavorite, 10)
	require.NoError(t, err)
	assert.Equal(t, shared.RecipeShort{ID: 10, Name: "Pancakes with syrup", Image: "http://img/10.png", CookingTime: 20}, *short)
}

func TestAdd_TwiceIsConflictWithSingleRow(t *testing.T) {
	repo, svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, user, model.KindFavorite, 10)
	require.NoError(t, err)

	_, err = svc.Add(ctx, user, model.KindFavorite, 10)
	assert.ErrorIs(t, err, model.ErrAlreadyAdded)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Len(t, repo.rows, 1)
}

func TestAdd_UniqueViolationRaceIsConflict(t *testing.T) {
	repo, svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, user, model.KindShoppingCart, 10)
	require.NoError(t, err)

	repo.staleExists = true
	_, err = svc.Add(ctx, user, model.KindShoppingCart, 10)
	assert.ErrorIs(t, err, model.ErrAlreadyAdded)
	assert.Contains(t, err.Error(), "shopping cart")
	assert.Len(t, repo.rows, 1)
}

func TestAdd_KindsAreIndependent(t *testing.T) {
	repo, svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, user, model.KindFavorite, 10)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, model.KindShoppingCart, 10)
	require.NoError(t, err)
	assert.Len(t, repo.rows, 2)

	require.NoError(t, svc.Remove(ctx, user, model.KindFavorite, 10))
	assert.True(t, repo.rows[key{model.KindShoppingCart, 1, 10}])
}

func TestAdd_UnknownRecipe(t *testing.T) {
	repo, svc := newService()

	_, err := svc.Add(context.Background(), user, model.KindFavorite, 99)
	assert.ErrorIs(t, err, recipeModel.ErrRecipeNotFound)
	assert.Empty(t, repo.rows)
}

func TestAdd_RecipeDeletedBeforeInsert(t *testing.T) {
	repo, svc := newService()
	repo.deleted = map[int64]bool{10: true}

	_, err := svc.Add(context.Background(), user, model.KindFavorite, 10)
	assert.ErrorIs(t, err, recipeModel.ErrRecipeNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, repo.rows)
}

func TestRemove_MissingMembership(t *testing.T) {
	repo, svc := newService()
	repo.rows[key{model.KindFavorite, 2, 10}] = true

	err := svc.Remove(context.Background(), user, model.KindFavorite, 10)
	assert.ErrorIs(t, err, model.ErrNotInList)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Len(t, repo.rows, 1, "other user's row must stay")

	assert.ErrorIs(t, svc.Remove(context.Background(), user, model.KindFavorite, 99), recipeModel.ErrRecipeNotFound)
}

func TestRequiresAuthentication(t *testing.T) {
	_, svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, shared.Anonymous(), model.KindFavorite, 10)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Remove(ctx, shared.Anonymous(), model.KindFavorite, 10), apperr.ErrUnauthenticated)
	_, err = svc.RecipeIDs(ctx, shared.Anonymous(), model.KindShoppingCart)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
