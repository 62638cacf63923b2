package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/middleware"
)

type stubService struct {
	lastFilter model.ListFilter
	lastActor  shared.Actor
	lastReq    *model.RecipeWriteRequest
	err        error
}

func (s *stubService) ListRecipes(_ context.Context, actor shared.Actor, filter model.ListFilter) ([]model.RecipeResponse, int64, error) {
	s.lastActor, s.lastFilter = actor, filter
	return []model.RecipeResponse{{ID: 1, Name: "Pancakes with syrup"}}, 13, nil
}

func (s *stubService) GetRecipe(_ context.Context, actor shared.Actor, id int64) (*model.RecipeResponse, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &model.RecipeResponse{ID: id}, nil
}

func (s *stubService) CreateRecipe(_ context.Context, actor shared.Actor, req *model.RecipeWriteRequest) (*model.RecipeResponse, error) {
	s.lastActor, s.lastReq = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return &model.RecipeResponse{ID: 10, Name: *req.Name}, nil
}

func (s *stubService) UpdateRecipe(_ context.Context, actor shared.Actor, id int64, req *model.RecipeWriteRequest) (*model.RecipeResponse, error) {
	s.lastActor, s.lastReq = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return &model.RecipeResponse{ID: id}, nil
}

func (s *stubService) DeleteRecipe(_ context.Context, actor shared.Actor, _ int64) error {
	s.lastActor = actor
	return s.err
}

// asUser giả lập AuthMiddleware
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, id)
		c.Set(middleware.ContextKeyRole, shared.RoleUser)
		c.Next()
	}
}

func setup(svc *stubService, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRecipeHandler(svc, 6)
	r := gin.New()
	r.Use(mw...)
	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/:id", h.GetRecipe)
	r.POST("/recipes", h.CreateRecipe)
	r.PATCH("/recipes/:id", h.UpdateRecipe)
	r.DELETE("/recipes/:id", h.DeleteRecipe)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListRecipes_ParsesFilters(t *testing.T) {
	svc := &stubService{}
	r := setup(svc, asUser(5))

	w := serve(r, http.MethodGet, "/recipes?page=2&limit=3&author=7&tags=lunch&tags=dinner&is_favorited=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(7), svc.lastFilter.AuthorID)
	assert.Equal(t, []string{"lunch", "dinner"}, svc.lastFilter.TagSlugs)
	assert.True(t, svc.lastFilter.IsFavorited)
	assert.False(t, svc.lastFilter.IsInShoppingCart)
	assert.Equal(t, 3, svc.lastFilter.Limit)
	assert.Equal(t, 3, svc.lastFilter.Offset)
	assert.Equal(t, int64(5), svc.lastActor.UserID)

	var page struct {
		Count      int64 `json:"count"`
		TotalPages int   `json:"total_pages"`
		Results    []map[string]any
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(13), page.Count)
	assert.Equal(t, 5, page.TotalPages)
	assert.Len(t, page.Results, 1)
}

func TestListRecipes_DefaultPageSizeAndBadAuthor(t *testing.T) {
	svc := &stubService{}
	r := setup(svc)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/recipes", "").Code)
	assert.Equal(t, 6, svc.lastFilter.Limit)
	assert.False(t, svc.lastActor.IsAuthenticated())

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/recipes?author=abc", "").Code)
}

func TestCreateRecipe_DecodesWritePayload(t *testing.T) {
	svc := &stubService{}
	r := setup(svc, asUser(1))

	body := `{
		"ingredients": [{"id": 1, "amount": 10}, {"id": 2, "amount": "2.5"}],
		"tags": [1, 2],
		"image": "data:image/png;base64,iVBORw0KGgo=",
		"name": "Pancakes with syrup",
		"text": "Mix everything and fry",
		"cooking_time": "15"
	}`
	w := serve(r, http.MethodPost, "/recipes", body)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, svc.lastReq)
	assert.Equal(t, []int64{1, 2}, svc.lastReq.Tags)
	assert.True(t, svc.lastReq.Ingredients[1].Amount.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 15, svc.lastReq.CookingTime.Value)
}

func TestCreateRecipe_Errors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		r := setup(&stubService{}, asUser(1))
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/recipes", "{").Code)
	})

	t.Run("validation error carries fields", func(t *testing.T) {
		svc := &stubService{err: apperr.Validation(map[string]string{"name": "first word must start with a capital letter"})}
		w := serve(setup(svc, asUser(1)), http.MethodPost, "/recipes", `{"name": "apple pie"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"first word must start with a capital letter"`)
	})
}

func TestMutations_MapDomainErrors(t *testing.T) {
	svc := &stubService{err: model.ErrNotRecipeOwner}
	r := setup(svc, asUser(2))

	body := `{"ingredients": [{"id": 1, "amount": 1}], "tags": [1]}`
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPatch, "/recipes/1", body).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/recipes/1", "").Code)

	svc.err = nil
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/recipes/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/recipes/x", "").Code)
}
