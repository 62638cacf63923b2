package handler

import (
	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/internal/domains/catalog/service"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
)

// =====================================================
// CATALOG HANDLER (tags + ingredients)
// =====================================================

type CatalogHandler struct {
	service service.ServiceInterface
}

func NewCatalogHandler(s service.ServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// ListTags GET /api/tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tags)
}

// GetTag GET /api/tags/:id
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrTagNotFound)
		return
	}

	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tag)
}

// CreateTag POST /api/tags (admin)
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req model.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tag)
}

// ListIngredients GET /api/ingredients?name=<prefix>
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.service.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ingredients)
}

// GetIngredient GET /api/ingredients/:id
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrIngredientNotFound)
		return
	}

	ingredient, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ingredient)
}

// CreateIngredient POST /api/ingredients (admin)
func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req model.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	ingredient, err := h.service.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ingredient)
}
