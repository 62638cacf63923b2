package handler

import (
	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/domains/membership/model"
	"foodgram-backend/internal/domains/membership/service"
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
)

// MembershipHandler gắn với đúng một Kind.
// Router tạo hai instance: /recipes/:id/favorite và /recipes/:id/shopping_cart
type MembershipHandler struct {
	service service.Service
	kind    model.Kind
}

func NewMembershipHandler(s service.Service, kind model.Kind) *MembershipHandler {
	if !kind.Valid() {
		panic("membership handler: unknown kind " + string(kind))
	}
	return &MembershipHandler{service: s, kind: kind}
}

// Add POST /api/recipes/:id/{favorite|shopping_cart}
func (h *MembershipHandler) Add(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, recipeModel.ErrRecipeNotFound)
		return
	}

	recipe, err := h.service.Add(c.Request.Context(), middleware.GetActor(c), h.kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, recipe)
}

// Remove DELETE /api/recipes/:id/{favorite|shopping_cart}
func (h *MembershipHandler) Remove(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, recipeModel.ErrRecipeNotFound)
		return
	}

	if err := h.service.Remove(c.Request.Context(), middleware.GetActor(c), h.kind, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
