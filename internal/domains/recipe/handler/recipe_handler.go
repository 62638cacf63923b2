package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/recipe/service"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
)

type RecipeHandler struct {
	service  service.RecipeService
	pageSize int
}

func NewRecipeHandler(s service.RecipeService, pageSize int) *RecipeHandler {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &RecipeHandler{service: s, pageSize: pageSize}
}

// ListRecipes GET /api/recipes?page=&limit=&author=&tags=&is_favorited=&is_in_shopping_cart=
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := utils.ParsePagination(c, h.pageSize)

	filter := model.ListFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      utils.QueryFlag(c, "is_favorited"),
		IsInShoppingCart: utils.QueryFlag(c, "is_in_shopping_cart"),
		Limit:            limit,
		Offset:           utils.Offset(page, limit),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || authorID <= 0 {
			response.BadRequest(c, "author must be a user id")
			return
		}
		filter.AuthorID = authorID
	}

	recipes, total, err := h.service.ListRecipes(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.NewPage(recipes, total, page, limit))
}

// GetRecipe GET /api/recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrRecipeNotFound)
		return
	}

	recipe, err := h.service.GetRecipe(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recipe)
}

// CreateRecipe POST /api/recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req model.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	recipe, err := h.service.CreateRecipe(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, recipe)
}

// UpdateRecipe PATCH|PUT /api/recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrRecipeNotFound)
		return
	}

	var req model.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	recipe, err := h.service.UpdateRecipe(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recipe)
}

// DeleteRecipe DELETE /api/recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrRecipeNotFound)
		return
	}

	if err := h.service.DeleteRecipe(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
